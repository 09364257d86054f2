// Package engine defines the contract between the playback core and a pluggable
// adaptive-bitrate streaming engine.
package engine

// Event identifies one engine event stream.
type Event string

const (
	// EventMediaAttached fires once the engine is bound to a media element.
	EventMediaAttached Event = "media-attached"
	// EventManifestParsed fires once per manifest parse with a Manifest payload.
	EventManifestParsed Event = "manifest-parsed"
	// EventFragmentLoaded fires after each fragment download.
	EventFragmentLoaded Event = "fragment-loaded"
	// EventFragmentBuffered fires after a fragment is appended to the buffer.
	EventFragmentBuffered Event = "fragment-buffered"
	// EventBufferFlushed fires after the engine discards buffered media,
	// typically following a level switch.
	EventBufferFlushed Event = "buffer-flushed"
	// EventLevelSwitched fires after the active level changes.
	EventLevelSwitched Event = "level-switched"
	// EventError fires with an ErrorData payload.
	EventError Event = "error"
)

// Handler receives an event payload. Payload types are documented per event.
type Handler func(data any)

// Level is one selectable video rendition from the manifest.
type Level struct {
	// Index is the engine-internal level index used for selection.
	Index int `json:"index"`
	// Height of the rendition in pixels. Zero for audio-only levels.
	Height int `json:"height"`
	// Bitrate hint in bits per second, when the manifest carries one.
	Bitrate int `json:"bitrate,omitempty"`
}

// AudioTrack is one audio rendition from the manifest.
type AudioTrack struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Language string `json:"language"`
}

// SubtitleTrack is one subtitle rendition from the manifest.
type SubtitleTrack struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Language string `json:"language"`
}

// Manifest is the payload of EventManifestParsed.
type Manifest struct {
	Levels         []Level         `json:"levels"`
	AudioTracks    []AudioTrack    `json:"audio_tracks"`
	SubtitleTracks []SubtitleTrack `json:"subtitle_tracks"`
}

// ErrorType is the engine's coarse error categorization.
type ErrorType string

const (
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypeMedia     ErrorType = "media"
	ErrorTypeKeySystem ErrorType = "key-system"
	ErrorTypeOther     ErrorType = "other"
)

// Engine error detail codes. The recovery policy branches on these.
const (
	DetailBufferStalled          = "bufferStalledError"
	DetailFragLoadError          = "fragLoadError"
	DetailLevelLoadError         = "levelLoadError"
	DetailLevelEmpty             = "levelEmptyError"
	DetailLevelLoadTimeout       = "levelLoadTimeOut"
	DetailAudioTrackLoadTimeout  = "audioTrackLoadTimeOut"
	DetailManifestLoadError      = "manifestLoadError"
	DetailManifestParsingError   = "manifestParsingError"
	DetailKeySessionUpdateFailed = "keySystemSessionUpdateFailed"

	// KeySystemPrefix marks the family of DRM-related detail codes.
	KeySystemPrefix = "keySystem"
)

// Response carries the HTTP status of a failed engine fetch, when known.
type Response struct {
	Code int `json:"code"`
}

// ErrorData is the payload of EventError.
// It is transient: it drives one recovery transition and a user-visible
// message, and is never persisted.
type ErrorData struct {
	Type     ErrorType `json:"type"`
	Details  string    `json:"details"`
	Fatal    bool      `json:"fatal"`
	Response *Response `json:"response,omitempty"`
}
