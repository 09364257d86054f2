// Package catalog derives track and quality listings from a parsed manifest.
//
// The catalog is a read-only view built once per manifest parse. Display
// ordering is a presentation concern: reordering levels for menus never
// changes the engine-internal indices used for selection.
package catalog

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/stream"
)

// Catalog is the selectable-track view of one parsed manifest.
type Catalog struct {
	manifest engine.Manifest
	order    stream.RenditionOrder
}

// New builds a catalog from a parsed manifest with the requested display order.
// An empty order defaults to ascending, the order manifests list levels in.
func New(manifest engine.Manifest, order stream.RenditionOrder) *Catalog {
	if order == "" {
		order = stream.OrderAscending
	}
	return &Catalog{manifest: manifest, order: order}
}

// Levels returns the levels in manifest order, indexed for engine selection.
func (c *Catalog) Levels() []engine.Level {
	return c.manifest.Levels
}

// DisplayLevels returns the levels in the configured display order.
// Each entry keeps its engine-internal Index regardless of position.
func (c *Catalog) DisplayLevels() []engine.Level {
	levels := make([]engine.Level, len(c.manifest.Levels))
	copy(levels, c.manifest.Levels)

	if c.order == stream.OrderDescending {
		lo.Reverse(levels)
	}
	return levels
}

// AudioOnly reports whether the manifest carries no video renditions.
// Audio-only manifests list levels with zero height.
func (c *Catalog) AudioOnly() bool {
	if len(c.manifest.Levels) == 0 {
		return false
	}
	return lo.EveryBy(c.manifest.Levels, func(l engine.Level) bool {
		return l.Height == 0
	})
}

// AudioTracks returns the selectable audio renditions.
func (c *Catalog) AudioTracks() []engine.AudioTrack {
	return c.manifest.AudioTracks
}

// HasSelectableAudio reports whether an audio menu is worth showing.
// A single track is not a choice.
func (c *Catalog) HasSelectableAudio() bool {
	return len(c.manifest.AudioTracks) > 1
}

// DefaultAudio returns the track the engine selects on its own, when any exists.
func (c *Catalog) DefaultAudio() mo.Option[engine.AudioTrack] {
	if len(c.manifest.AudioTracks) == 0 {
		return mo.None[engine.AudioTrack]()
	}
	return mo.Some(c.manifest.AudioTracks[0])
}

// SubtitleTracks returns the selectable subtitle renditions.
func (c *Catalog) SubtitleTracks() []engine.SubtitleTrack {
	return c.manifest.SubtitleTracks
}

// HasSubtitles reports whether the manifest carries any subtitle tracks.
func (c *Catalog) HasSubtitles() bool {
	return len(c.manifest.SubtitleTracks) > 0
}

// PreferredSubtitle finds the subtitle track best matching the preferred
// language. Exact language-code matches win; otherwise the label and language
// are fuzzy-matched, so "english" still finds a track labelled "English (CC)".
func (c *Catalog) PreferredSubtitle(language string) mo.Option[engine.SubtitleTrack] {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" || len(c.manifest.SubtitleTracks) == 0 {
		return mo.None[engine.SubtitleTrack]()
	}

	exact, ok := lo.Find(c.manifest.SubtitleTracks, func(t engine.SubtitleTrack) bool {
		return strings.ToLower(t.Language) == language
	})
	if ok {
		return mo.Some(exact)
	}

	fuzzyMatch, ok := lo.Find(c.manifest.SubtitleTracks, func(t engine.SubtitleTrack) bool {
		return fuzzy.MatchFold(language, t.Label) || fuzzy.MatchFold(language, t.Language)
	})
	if ok {
		return mo.Some(fuzzyMatch)
	}

	return mo.None[engine.SubtitleTrack]()
}
