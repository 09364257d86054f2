// Package tui implements the interactive terminal playback interface.
//
// The interface is a thin embedder around the playback core: it owns the
// terminal, translates key presses into player operations, and renders the
// state the core reports back through its surface and hooks.
package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/vidra-player/vidra/catalog"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/key"
	"github.com/vidra-player/vidra/media"
	"github.com/vidra-player/vidra/network"
	"github.com/vidra-player/vidra/player"
	"github.com/vidra-player/vidra/prefs"
	"github.com/vidra-player/vidra/resolve"
	"github.com/vidra-player/vidra/stream"
	"github.com/vidra-player/vidra/util"
)

// Options configure one interactive playback run.
type Options struct {
	// Source is the resolved playback source to load.
	Source stream.Source

	// Prefs seed the initial volume, mute and subtitle state.
	Prefs *prefs.Prefs

	// Autoplay starts playback as soon as the stream is ready.
	Autoplay bool
}

// Run starts the interactive player and blocks until the user quits.
func Run(options *Options) error {
	if options.Prefs == nil {
		options.Prefs = prefs.Defaults()
	}

	element := media.New(viper.GetString(key.Player))
	defer util.Ignore(element.Close)

	surface := newSurface()

	pl := player.New(player.Options{
		Element:  element,
		Factory:  engine.Unavailable{},
		Resolver: resolve.New(network.ValidationClient()),
		Surface:  surface,
		Engine: engine.Config{
			Debug:         viper.GetBool(key.PlayerDebug),
			AutoStartLoad: true,
			StartLevel:    -1,
		},
		Autoplay:         options.Autoplay,
		SubtitleLanguage: options.Prefs.SubtitleLanguage,
	})
	defer pl.Destroy()

	// The mpv backend exposes IPC extras (property events, chapter marks)
	// beyond the Element interface; other backends simply go without.
	mpv, _ := element.(*media.MPV)

	m := newModel(pl, options, mpv, surface.send)
	program := tea.NewProgram(m, tea.WithAltScreen())
	surface.attach(program)

	pl.OnManifestParsed(func(c *catalog.Catalog) {
		program.Send(manifestMsg{catalog: c})
	})

	watcher := network.NewWatcher(
		func() { program.Send(connectivityMsg{online: true}) },
		func() { program.Send(connectivityMsg{online: false}) },
	)
	watcher.Start()
	defer watcher.Stop()

	final, err := program.Run()
	if err != nil {
		return err
	}

	saved := &prefs.Prefs{
		Volume:           pl.Volume(),
		Muted:            pl.Muted(),
		SubtitleLanguage: options.Prefs.SubtitleLanguage,
		Quality:          "auto",
	}
	if fm, ok := final.(*model); ok {
		fm.stopListener()
		if fm.pinned >= 0 {
			saved.Quality = strconv.Itoa(fm.pinned)
		}
	}

	return prefs.Save(saved)
}
