// Package playback controls the audio device from server play state.
package playback

// State represents the device state as seen by the adapter.
type State int

const (
	StateStopped       State = iota // No source assigned
	StateLoadedPaused               // Source assigned, not playing
	StateLoadedPlaying              // Source assigned and playing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateLoadedPaused:
		return "paused"
	case StateLoadedPlaying:
		return "playing"
	default:
		return "unknown"
	}
}
