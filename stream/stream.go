// Package stream defines the domain models for playback sources and resolved stream URLs.
package stream

import "fmt"

// Type discriminates between on-demand assets and live streams.
type Type string

const (
	// OnDemand identifies a pre-encoded asset with a fixed duration.
	OnDemand Type = "on-demand"
	// Live identifies a live stream whose manifest is continuously extended.
	Live Type = "live-stream"
)

// ParseType validates a stream type string from configuration or attributes.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case OnDemand, Live:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown stream type %q", s)
	}
}

// RenditionOrder controls the display ordering of quality levels.
// It never affects the engine-internal level indices used for selection.
type RenditionOrder string

const (
	OrderAscending  RenditionOrder = "asc"
	OrderDescending RenditionOrder = "desc"
)

// Constraints narrow the renditions a playback endpoint includes in the manifest.
// All fields are optional; zero values are omitted from the request.
type Constraints struct {
	// MinResolution is the lowest rendition height to include (e.g. "480p").
	MinResolution string `json:"min_resolution,omitempty"`
	// MaxResolution is the highest rendition height to include (e.g. "1080p").
	MaxResolution string `json:"max_resolution,omitempty"`
	// Resolution pins the manifest to a single rendition height.
	Resolution string `json:"resolution,omitempty"`
	// RenditionOrder requests a specific variant ordering from the endpoint.
	RenditionOrder RenditionOrder `json:"rendition_order,omitempty"`
}

// Source identifies one playable asset. It is immutable once resolved;
// replacing the playback id replaces the whole Source.
type Source struct {
	// PlaybackID is the endpoint-assigned identifier of the asset.
	PlaybackID string `json:"playback_id"`
	// Token is the optional signing token for protected playback.
	Token string `json:"token,omitempty"`
	// Type of the stream.
	Type Type `json:"type"`
	// BaseURL of the playback endpoint, without a trailing slash.
	BaseURL string `json:"base_url"`
	// Constraints applied to the manifest request.
	Constraints Constraints `json:"constraints"`
}

// String returns the playback id for display.
func (s Source) String() string {
	return s.PlaybackID
}

// Signed reports whether the source carries a signing token.
func (s Source) Signed() bool {
	return s.Token != ""
}

// ResolvedURL is a validated, playable stream URL.
// It is produced by the resolver and consumed exactly once per source change.
type ResolvedURL struct {
	URL    string `json:"url"`
	Signed bool   `json:"signed"`
}
