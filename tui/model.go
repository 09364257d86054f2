package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidra-player/vidra/catalog"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/media"
	"github.com/vidra-player/vidra/network"
	"github.com/vidra-player/vidra/player"
	"github.com/vidra-player/vidra/storyboard"
	"github.com/vidra-player/vidra/style"
)

// chapterMarkLimit caps how many storyboard timestamps become mpv chapters.
const chapterMarkLimit = 12

// loadedMsg reports that the source finished attaching.
type loadedMsg struct{}

// loadFailedMsg reports that the source could not be attached.
type loadFailedMsg struct {
	err error
}

// manifestMsg carries the parsed track catalog.
type manifestMsg struct {
	catalog *catalog.Catalog
}

// connectivityMsg reports a network reachability transition.
type connectivityMsg struct {
	online bool
}

// storyboardMsg carries the optional seek-preview metadata.
type storyboardMsg struct {
	board *storyboard.Storyboard
}

// propertyMsg carries one mpv property change observed over the IPC socket.
type propertyMsg struct {
	name string
	data interface{}
}

// tickMsg drives the periodic position refresh.
type tickMsg time.Time

// model is the bubbletea state machine around one player.
type model struct {
	player  *player.Player
	options *Options

	// mpv is non-nil when the element is the mpv backend; it unlocks the
	// IPC-level extras (property events, chapter marks) the Element
	// interface does not carry.
	mpv      *media.MPV
	notify   func(tea.Msg)
	listener *media.EventListener

	keys    keymap
	help    help.Model
	spinner spinner.Model
	seekbar progress.Model

	loading bool
	errText string
	online  bool
	seeking bool
	ended   bool
	cat     *catalog.Catalog
	board   *storyboard.Storyboard

	// cursor walks the quality menu: 0 is auto, 1..n index DisplayLevels.
	cursor int

	// pinned is the engine index of the applied level, or -1 in auto mode.
	pinned int

	// audioIdx and subIdx are positions within the catalog track slices;
	// subIdx -1 means subtitles are off.
	audioIdx int
	subIdx   int

	width  int
	height int
}

func newModel(pl *player.Player, options *Options, mpv *media.MPV, notify func(tea.Msg)) *model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.New().Foreground(style.AccentColor)

	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false

	return &model{
		player:  pl,
		options: options,
		mpv:     mpv,
		notify:  notify,
		keys:    newKeymap(),
		help:    help.New(),
		spinner: sp,
		seekbar: bar,
		loading: true,
		online:  true,
		pinned:  -1,
		subIdx:  -1,
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.fetchStoryboard(), tick())
}

// load attaches the source off the update loop.
func (m *model) load() tea.Cmd {
	return func() tea.Msg {
		if err := m.player.Load(context.Background(), m.options.Source); err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{}
	}
}

// fetchStoryboard retrieves seek-preview metadata; absence is not an error.
func (m *model) fetchStoryboard() tea.Cmd {
	return func() tea.Msg {
		board, err := storyboard.Fetch(context.Background(), network.Client, m.options.Source)
		if err != nil {
			log.Warnf("storyboard fetch failed: %v", err)
			return storyboardMsg{}
		}
		return storyboardMsg{board: board}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// startListener subscribes to mpv property changes so transport state updates
// arrive the moment they happen instead of on the next tick. The socket path
// only exists once the backend spawned, so this runs on loadedMsg.
func (m *model) startListener() {
	if m.mpv == nil || m.notify == nil || m.listener != nil {
		return
	}

	listener := media.NewEventListener(m.mpv.Socket(), func(property string, data interface{}) {
		m.notify(propertyMsg{name: property, data: data})
	})
	if err := listener.Start(); err != nil {
		log.Warnf("mpv event listener unavailable: %v", err)
		return
	}
	m.listener = listener
}

// stopListener tears down the property subscription, if one is running.
func (m *model) stopListener() {
	if m.listener != nil {
		m.listener.Stop()
		m.listener = nil
	}
}

// uploadSeekMarks projects storyboard timestamps onto mpv's chapter list so
// the backend's timeline gains coarse seek markers.
func (m *model) uploadSeekMarks() {
	if m.mpv == nil || m.board == nil {
		return
	}

	marks := m.board.Marks(chapterMarkLimit)
	if len(marks) == 0 {
		return
	}

	chapters := make([]map[string]interface{}, 0, len(marks))
	for _, mark := range marks {
		chapters = append(chapters, map[string]interface{}{
			"title": mark.Title,
			"time":  mark.Time,
		})
	}

	if err := m.mpv.SetChapters(chapters); err != nil {
		log.Warnf("chapter upload failed: %v", err)
	}
}

// audioPosition locates an engine audio index within the catalog ordering.
func audioPosition(tracks []engine.AudioTrack, index int) int {
	for i, track := range tracks {
		if track.Index == index {
			return i
		}
	}
	return 0
}

// subtitlePosition locates an engine subtitle index within the catalog
// ordering, or -1 when absent (subtitles stay off).
func subtitlePosition(tracks []engine.SubtitleTrack, index int) int {
	for i, track := range tracks {
		if track.Index == index {
			return i
		}
	}
	return -1
}

// applyQualityPref re-applies the persisted level pin once a catalog exists.
func (m *model) applyQualityPref() {
	pref := m.options.Prefs.Quality
	if pref == "" || pref == "auto" {
		return
	}

	index, err := strconv.Atoi(pref)
	if err != nil {
		return
	}

	for i, level := range m.cat.DisplayLevels() {
		if level.Index == index {
			m.pinned = index
			m.cursor = i + 1
			m.player.SwitchQuality(qualityTarget(index))
			return
		}
	}
}
