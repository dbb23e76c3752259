//go:build cgo

package audio

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

// Available indicates whether real audio output is supported in this build.
const Available = true

// beepDevice streams an MP3 source over HTTP to the speaker.
type beepDevice struct {
	mu sync.Mutex

	settings    BeepSettings
	sampleRate  beep.SampleRate
	httpClient  *http.Client
	baseURL     *url.URL
	initialized bool

	source   string
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	finished *atomic.Bool
}

func newBeepDevice(settings BeepSettings, base *url.URL) *beepDevice {
	return &beepDevice{
		settings:   settings,
		sampleRate: beep.SampleRate(settings.SampleRate),
		httpClient: http.DefaultClient,
		baseURL:    base,
	}
}

func (d *beepDevice) initSpeakerLocked() error {
	if d.initialized {
		return nil
	}
	bufferSize := d.sampleRate.N(time.Duration(d.settings.BufferMs) * time.Millisecond)
	if err := speaker.Init(d.sampleRate, bufferSize); err != nil {
		return errors.Wrap(err, "failed to initialize speaker")
	}
	d.initialized = true
	return nil
}

func (d *beepDevice) Source() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.source
}

// SetSource opens the source and queues it on the speaker, paused.
// Source reports src as given, not the resolved URL.
func (d *beepDevice) SetSource(ctx context.Context, src string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.clearLocked()

	target, err := resolveSource(d.baseURL, src)
	if err != nil {
		return err
	}

	// The stream outlives the caller's request context.
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, target, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create audio request")
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to fetch audio source")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return errors.Newf("audio source returned status %d", resp.StatusCode)
	}

	streamer, format, err := mp3.Decode(resp.Body)
	if err != nil {
		resp.Body.Close()
		return errors.Wrap(err, "failed to decode audio source")
	}

	if err := d.initSpeakerLocked(); err != nil {
		streamer.Close()
		return err
	}

	resampled := beep.Resample(d.settings.ResampleQuality, format.SampleRate, d.sampleRate, streamer)
	ctrl := &beep.Ctrl{Streamer: resampled, Paused: true}
	finished := &atomic.Bool{}

	// The callback runs on the speaker goroutine; it must not take d.mu.
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() { finished.Store(true) })))

	d.source = src
	d.streamer = streamer
	d.ctrl = ctrl
	d.finished = finished
	return nil
}

func (d *beepDevice) ClearSource() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearLocked()
}

func (d *beepDevice) clearLocked() {
	if d.initialized {
		speaker.Clear()
	}
	if d.streamer != nil {
		d.streamer.Close()
	}
	d.source = ""
	d.streamer = nil
	d.ctrl = nil
	d.finished = nil
}

func (d *beepDevice) Play(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctrl == nil {
		return ErrNoSource
	}
	speaker.Lock()
	d.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (d *beepDevice) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctrl == nil {
		return
	}
	speaker.Lock()
	d.ctrl.Paused = true
	speaker.Unlock()
}

func (d *beepDevice) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctrl == nil || d.finished.Load() {
		return false
	}
	speaker.Lock()
	paused := d.ctrl.Paused
	speaker.Unlock()
	return !paused
}

func (d *beepDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.clearLocked()
	if d.initialized {
		speaker.Close()
		d.initialized = false
	}
	return nil
}
