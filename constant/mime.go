// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Content types recognized during stream URL validation and native playback support detection.
const (
	// MimeHLS is the canonical HLS manifest content type.
	MimeHLS = "application/vnd.apple.mpegurl"

	// MimeText is the fallback manifest content type some CDNs emit for playlists.
	MimeText = "text/plain"

	// MimeJSON marks a structured (error or validation) response from a playback endpoint.
	MimeJSON = "application/json"
)
