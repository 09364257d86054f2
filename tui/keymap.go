package tui

import "github.com/charmbracelet/bubbles/key"

// keymap defines the playback key bindings.
type keymap struct {
	togglePlay  key.Binding
	seekBack    key.Binding
	seekForward key.Binding
	volumeUp    key.Binding
	volumeDown  key.Binding
	mute        key.Binding
	audio       key.Binding
	subs        key.Binding
	up          key.Binding
	down        key.Binding
	choose      key.Binding
	help        key.Binding
	quit        key.Binding
}

func newKeymap() keymap {
	return keymap{
		togglePlay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "seek -5s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "seek +5s"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		audio: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "cycle audio"),
		),
		subs: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle subtitles"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "quality up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "quality down"),
		),
		choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply quality"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.togglePlay, k.seekBack, k.seekForward, k.choose, k.help, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.togglePlay, k.seekBack, k.seekForward},
		{k.volumeUp, k.volumeDown, k.mute},
		{k.audio, k.subs},
		{k.up, k.down, k.choose},
		{k.help, k.quit},
	}
}
