package audio

import (
	"context"
	"sync"
)

// NullDevice tracks source and play state without producing sound.
type NullDevice struct {
	mu      sync.Mutex
	source  string
	playing bool
}

// NewNullDevice creates a silent device.
func NewNullDevice() *NullDevice {
	return &NullDevice{}
}

func (d *NullDevice) Source() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.source
}

func (d *NullDevice) SetSource(_ context.Context, src string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source = src
	d.playing = false
	return nil
}

func (d *NullDevice) ClearSource() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source = ""
	d.playing = false
}

func (d *NullDevice) Play(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.source == "" {
		return ErrNoSource
	}
	d.playing = true
	return nil
}

func (d *NullDevice) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = false
}

func (d *NullDevice) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

func (d *NullDevice) Close() error {
	d.ClearSource()
	return nil
}
