// Package prefs persists playback preferences across invocations.
//
// The core treats preferences as plain input values: the player reads them at
// startup and writes them back when the embedder opted in. Nothing here is
// required for playback; a missing or corrupt store falls back to defaults.
package prefs

import (
	"github.com/metafates/gache"
	"github.com/spf13/viper"
	"github.com/vidra-player/vidra/filesystem"
	"github.com/vidra-player/vidra/key"
	"github.com/vidra-player/vidra/where"
)

// Prefs are the persisted playback preferences.
type Prefs struct {
	Volume           float64 `json:"volume"`
	Muted            bool    `json:"muted"`
	SubtitleLanguage string  `json:"subtitle_language,omitempty"`

	// Quality is "auto" or the engine level index the user pinned last.
	Quality string `json:"quality,omitempty"`
}

// cacher provides the disk-backed preference store.
var cacher = gache.New[*Prefs](
	&gache.Options{
		Path:       where.Prefs(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Defaults returns the configured baseline preferences.
func Defaults() *Prefs {
	return &Prefs{
		Volume:           viper.GetFloat64(key.PlayerVolume),
		Muted:            viper.GetBool(key.PlayerMuted),
		SubtitleLanguage: viper.GetString(key.PlayerSubtitleLang),
		Quality:          "auto",
	}
}

// Get returns the stored preferences, falling back to configured defaults.
func Get() (*Prefs, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return Defaults(), nil
	}
	return cached, nil
}

// Save persists the preferences when preference saving is enabled.
func Save(p *Prefs) error {
	if !viper.GetBool(key.PlayerSavePrefs) {
		return nil
	}
	return cacher.Set(p)
}

// Reset drops the stored preferences back to the configured defaults.
func Reset() error {
	return cacher.Set(Defaults())
}
