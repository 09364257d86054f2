package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/quality"
)

const (
	seekStep   = 5
	volumeStep = 5
)

func qualityTarget(index int) quality.Target {
	if index < 0 {
		return quality.Auto()
	}
	return quality.Level(index)
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.seekbar.Width = min(msg.Width-4, 60)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tick()

	case errorMsg:
		m.errText = msg.text
		return m, nil

	case loaderMsg:
		m.loading = msg.visible
		return m, nil

	case loadedMsg:
		if err := m.player.SetVolume(m.options.Prefs.Volume); err != nil {
			log.Warnf("restoring volume failed: %v", err)
		}
		if err := m.player.SetMuted(m.options.Prefs.Muted); err != nil {
			log.Warnf("restoring mute state failed: %v", err)
		}
		m.startListener()
		m.uploadSeekMarks()
		return m, nil

	case loadFailedMsg:
		log.Errorf("source load failed: %v", msg.err)
		return m, nil

	case manifestMsg:
		m.cat = msg.catalog
		m.audioIdx = 0
		if track, ok := m.cat.DefaultAudio().Get(); ok {
			m.audioIdx = audioPosition(m.cat.AudioTracks(), track.Index)
		}
		m.subIdx = -1
		if track, ok := m.cat.PreferredSubtitle(m.options.Prefs.SubtitleLanguage).Get(); ok {
			m.subIdx = subtitlePosition(m.cat.SubtitleTracks(), track.Index)
		}
		m.applyQualityPref()
		return m, nil

	case storyboardMsg:
		m.board = msg.board
		m.uploadSeekMarks()
		return m, nil

	case propertyMsg:
		switch msg.name {
		case "seeking":
			m.seeking, _ = msg.data.(bool)
		case "eof-reached":
			m.ended, _ = msg.data.(bool)
		}
		// time-pos and pause need no bookkeeping: View re-reads them from
		// the player, so delivering the message is the refresh.
		return m, nil

	case connectivityMsg:
		m.online = msg.online
		if msg.online {
			m.player.HandleOnline()
		} else {
			m.player.HandleOffline()
		}
		return m, nil
	}

	return m, nil
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.stopListener()
		return m, tea.Quit

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.togglePlay):
		var err error
		if m.player.Paused() {
			err = m.player.Play()
		} else {
			err = m.player.Pause()
		}
		if err != nil {
			log.Warnf("playback toggle rejected: %v", err)
		}

	case key.Matches(msg, m.keys.seekBack):
		target := m.player.CurrentTime() - seekStep
		if target < 0 {
			target = 0
		}
		_ = m.player.SeekTo(target)

	case key.Matches(msg, m.keys.seekForward):
		target := m.player.CurrentTime() + seekStep
		if duration := m.player.Duration(); duration > 0 && target > duration {
			target = duration
		}
		_ = m.player.SeekTo(target)

	case key.Matches(msg, m.keys.volumeUp):
		_ = m.player.SetVolume(min(m.player.Volume()+volumeStep, 100))

	case key.Matches(msg, m.keys.volumeDown):
		_ = m.player.SetVolume(max(m.player.Volume()-volumeStep, 0))

	case key.Matches(msg, m.keys.mute):
		_ = m.player.SetMuted(!m.player.Muted())

	case key.Matches(msg, m.keys.audio):
		if m.cat == nil || !m.cat.HasSelectableAudio() {
			break
		}
		tracks := m.cat.AudioTracks()
		m.audioIdx = (m.audioIdx + 1) % len(tracks)
		m.player.SelectAudioTrack(tracks[m.audioIdx].Index)

	case key.Matches(msg, m.keys.subs):
		if m.cat == nil || !m.cat.HasSubtitles() {
			break
		}
		tracks := m.cat.SubtitleTracks()
		m.subIdx++
		if m.subIdx >= len(tracks) {
			m.subIdx = -1
			m.player.SelectSubtitleTrack(-1)
			break
		}
		m.player.SelectSubtitleTrack(tracks[m.subIdx].Index)

	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.down):
		if m.cat != nil && m.cursor < len(m.cat.DisplayLevels()) {
			m.cursor++
		}

	case key.Matches(msg, m.keys.choose):
		if m.cat == nil {
			break
		}
		if m.cursor == 0 {
			m.pinned = -1
			m.player.SwitchQuality(quality.Auto())
			break
		}
		level := m.cat.DisplayLevels()[m.cursor-1]
		m.pinned = level.Index
		m.player.SwitchQuality(quality.Level(level.Index))
	}

	return m, nil
}
