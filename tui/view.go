package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/vidra-player/vidra/stream"
	"github.com/vidra-player/vidra/style"
	"github.com/vidra-player/vidra/util"
)

var (
	titleStyle = style.New().Bold(true).Foreground(style.AccentColor)

	badgeLive    = style.Tag(style.Base, style.Red)(" LIVE ")
	badgeOffline = style.Tag(style.Base, style.Yellow)(" OFFLINE ")
	badgeMuted   = style.Tag(style.Base, style.Overlay)(" MUTED ")

	errorBoxStyle = style.New().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(style.ErrorColor).
			Foreground(style.Text).
			Padding(0, 1)

	faintStyle  = style.New().Foreground(style.FaintColor)
	activeStyle = style.New().Bold(true).Foreground(style.SuccessColor)
)

// View implements tea.Model.
func (m *model) View() string {
	if m.width == 0 {
		// No WindowSizeMsg yet; fall back to the real terminal dimensions.
		if w, h, err := util.TerminalSize(); err == nil {
			m.width, m.height = w, h
		}
	}

	var b strings.Builder

	b.WriteString(m.viewTitle())
	b.WriteString("\n\n")

	if m.errText != "" {
		width := max(m.width-4, 20)
		b.WriteString(errorBoxStyle.Render(wordwrap.String(m.errText, width)))
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(fmt.Sprintf("%s loading...\n\n", m.spinner.View()))
	}

	b.WriteString(m.viewTransport())
	b.WriteString("\n")
	b.WriteString(m.viewQuality())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m *model) viewTitle() string {
	parts := []string{titleStyle.Render(m.options.Source.PlaybackID)}

	if m.options.Source.Type == stream.Live {
		parts = append(parts, badgeLive)
	}
	if !m.online {
		parts = append(parts, badgeOffline)
	}

	return strings.Join(parts, " ")
}

func (m *model) viewTransport() string {
	var b strings.Builder

	current := m.player.CurrentTime()
	duration := m.player.Duration()

	if duration > 0 {
		b.WriteString(m.seekbar.ViewAs(current / duration))
		b.WriteString("\n")
		b.WriteString(faintStyle.Render(fmt.Sprintf("%s / %s", formatTime(current), formatTime(duration))))
	} else {
		// Live streams have no fixed duration; show elapsed time only.
		b.WriteString(faintStyle.Render(formatTime(current)))
	}

	state := "playing"
	switch {
	case m.seeking:
		state = "seeking"
	case m.ended:
		state = "ended"
	case m.player.Paused():
		state = "paused"
	}
	b.WriteString(faintStyle.Render(fmt.Sprintf("  ·  %s  ·  volume %.0f%%", state, m.player.Volume())))

	if m.player.Muted() {
		b.WriteString(" " + badgeMuted)
	}

	if m.board != nil {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  ·  %d seek previews", len(m.board.Tiles))))
	}

	b.WriteString("\n")
	return b.String()
}

func (m *model) viewQuality() string {
	if m.cat == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(faintStyle.Render("Quality") + "\n")

	render := func(row int, label string, active bool) {
		cursor := "  "
		if m.cursor == row {
			cursor = style.Fg(style.AccentColor)("> ")
		}

		if active {
			label = activeStyle.Render(label + " ●")
		}

		b.WriteString(cursor + label + "\n")
	}

	render(0, "auto", m.pinned < 0)

	for i, level := range m.cat.DisplayLevels() {
		label := fmt.Sprintf("%dp", level.Height)
		if level.Height == 0 {
			label = "audio only"
		}
		if level.Bitrate > 0 {
			label += faintStyle.Render(fmt.Sprintf("  %d kbps", level.Bitrate/1000))
		}

		render(i+1, label, m.pinned == level.Index)
	}

	if m.cat.HasSelectableAudio() {
		tracks := m.cat.AudioTracks()
		current := tracks[min(m.audioIdx, len(tracks)-1)]
		b.WriteString(faintStyle.Render(fmt.Sprintf("audio: %s (%d tracks)", trackLabel(current.Label, current.Language), len(tracks))) + "\n")
	}
	if m.cat.HasSubtitles() {
		tracks := m.cat.SubtitleTracks()
		label := "off"
		if m.subIdx >= 0 && m.subIdx < len(tracks) {
			label = trackLabel(tracks[m.subIdx].Label, tracks[m.subIdx].Language)
		}
		b.WriteString(faintStyle.Render(fmt.Sprintf("subtitles: %s (%d tracks)", label, len(tracks))) + "\n")
	}

	return b.String()
}

// trackLabel picks the friendliest name a manifest gave a track.
func trackLabel(label, language string) string {
	if label != "" {
		return label
	}
	if language != "" {
		return language
	}
	return "default"
}

// formatTime renders seconds as mm:ss, or h:mm:ss past the first hour.
func formatTime(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
