// Package audio provides audio output devices for the playback adapter.
package audio

import (
	"context"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// ErrNoSource is returned by Play when no source is assigned.
var ErrNoSource = errors.New("no source assigned")

// Device is a single audio output handle.
type Device interface {
	// Source returns the currently assigned source URL ("" if none).
	Source() string
	// SetSource assigns a new source. The device is paused afterwards.
	SetSource(ctx context.Context, src string) error
	// ClearSource removes the current source.
	ClearSource()
	// Play starts or resumes playback of the current source.
	Play(ctx context.Context) error
	// Pause pauses playback.
	Pause()
	// Playing reports whether audio is currently playing.
	Playing() bool
	// Close releases the device.
	Close() error
}

// Config selects and configures a device backend.
type Config struct {
	Backend  string
	BaseURL  string // resolves relative sources; usually the server base URL
	Settings map[string]any
}

// BeepSettings configures the beep backend.
type BeepSettings struct {
	SampleRate      int `yaml:"sample_rate" mapstructure:"sample_rate" default:"44100" validate:"gte=8000,lte=192000"`
	BufferMs        int `yaml:"buffer_ms" mapstructure:"buffer_ms" default:"100" validate:"gte=10,lte=2000"`
	ResampleQuality int `yaml:"resample_quality" mapstructure:"resample_quality" default:"4" validate:"gte=1,lte=6"`
}

// New creates a device for the configured backend.
func New(cfg Config) (Device, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "null":
		return NewNullDevice(), nil

	case "beep":
		settings, err := decodeBeepSettings(cfg.Settings)
		if err != nil {
			return nil, errors.Wrap(err, "invalid beep settings")
		}
		base, err := parseBaseURL(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		if !Available {
			zlog.Warn().Msg("audio output requires cgo; falling back to silent device")
			return NewNullDevice(), nil
		}
		zlog.Debug().Msgf("creating beep device: sample_rate=%d buffer_ms=%d", settings.SampleRate, settings.BufferMs)
		return newBeepDevice(settings, base), nil

	default:
		return nil, errors.Newf("unsupported audio backend: %s", cfg.Backend)
	}
}

func decodeBeepSettings(settings map[string]any) (BeepSettings, error) {
	var s BeepSettings

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return s, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return s, errors.Wrap(err, "failed to decode settings")
	}

	if err := defaults.Set(&s); err != nil {
		return s, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(s); err != nil {
		return s, errors.Wrap(err, "validation failed")
	}
	return s, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid audio base url %q", raw)
	}
	return base, nil
}

// resolveSource returns src as an absolute URL. Relative sources are
// resolved against base the way a browser resolves them against the page.
func resolveSource(base *url.URL, src string) (string, error) {
	ref, err := url.Parse(src)
	if err != nil {
		return "", errors.Wrapf(err, "invalid audio source %q", src)
	}
	if ref.IsAbs() {
		return src, nil
	}
	if base == nil {
		return "", errors.Newf("relative audio source %q without a base url", src)
	}
	return base.ResolveReference(ref).String(), nil
}
