package recovery

import (
	"strings"

	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/stream"
)

// User-visible messages for classified playback failures.
const (
	msgDRMFatal        = "This video cannot be played because of a DRM error."
	msgDRMRecovering   = "Recovering from a playback error…"
	msgFragmentLoad    = "Playback failed while loading video data. Refresh to try again."
	msgStreamLoad      = "There was a problem loading the stream."
	msgVideoLoad       = "This video cannot be loaded."
	msgFatalGeneric    = "Playback cannot continue."
	msgOffline         = "You appear to be offline. Playback will resume when the connection returns."
	msgRefreshRequired = "Connection restored. Refresh the page to resume playback."

	msgNotAvailable = "This video is not available."
	msgServerError  = "The server encountered an error. Please try again later."
	msgNoLiveStream = "No active live stream was found."
	msgInvalidToken = "The playback token is not valid for this live stream."
)

// overlayMessage maps stream-type-specific HTTP failures to tailored messages,
// overriding the generic fatal-table message when one applies.
func overlayMessage(st stream.Type, data engine.ErrorData) (string, bool) {
	if data.Response == nil {
		return "", false
	}

	switch st {
	case stream.OnDemand:
		switch data.Response.Code {
		case 404:
			return msgNotAvailable, true
		case 500:
			return msgServerError, true
		}
	case stream.Live:
		switch {
		case data.Response.Code == 404 && manifestDetail(data.Details):
			return msgNoLiveStream, true
		case data.Response.Code == 403:
			return msgInvalidToken, true
		}
	}
	return "", false
}

func manifestDetail(details string) bool {
	return strings.HasPrefix(details, "manifest")
}
