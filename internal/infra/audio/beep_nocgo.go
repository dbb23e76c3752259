//go:build !cgo

package audio

import "net/url"

// Available indicates whether real audio output is supported in this build.
// Audio requires cgo for the native sound libraries.
const Available = false

// newBeepDevice is never reached without cgo; New falls back to a NullDevice.
func newBeepDevice(BeepSettings, *url.URL) Device {
	return NewNullDevice()
}
