// Package media defines a unified abstraction layer for native media surfaces.
// The architecture supports multiple backends, with the primary implementation targeting 'mpv' via its JSON-IPC interface.
package media

// Element encapsulates the native media surface the playback core renders into.
// It is the single shared mutable resource of a player: only the player facade
// and the currently attached stream session may assign its source or mutate
// its playback state.
type Element interface {
	// CanPlayType reports whether the backend can natively play the given
	// content type without an adaptive engine in front of it.
	CanPlayType(mimeType string) bool

	// SetSource assigns a stream URL directly to the element (native playback path).
	SetSource(url string) error

	// ClearSource unloads the current media without tearing down the backend.
	ClearSource() error

	// Play resumes playback. The error reports resume rejection, the
	// equivalent of a failed play() promise.
	Play() error

	// Pause suspends playback.
	Pause() error

	// Paused reports the current suspension state.
	Paused() bool

	// CurrentTime retrieves the current absolute playback position in seconds.
	CurrentTime() float64

	// SeekTo transitions the playback position to a specific absolute timestamp in seconds.
	SeekTo(seconds float64) error

	// Duration retrieves the total temporal length of the active media in
	// seconds, or zero when unknown (live streams).
	Duration() float64

	// Volume retrieves the current playback volume (0-100).
	Volume() float64

	// SetVolume assigns the playback volume (0-100).
	SetVolume(volume float64) error

	// Muted reports whether audio output is muted.
	Muted() bool

	// SetMuted toggles audio output muting.
	SetMuted(muted bool) error

	// Close terminates the backend and releases all associated system resources.
	Close() error
}

// New creates a media backend by name.
func New(name string) Element {
	switch name {
	case "mpv":
		return NewMPV()
	default:
		return NewMPV() // Default to mpv
	}
}
