package media

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements the Element interface using mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // Protects socket writes

	// Title is forced as the media title of the mpv window.
	Title string
	// Headers are sent with every stream request mpv issues.
	Headers map[string]string
}

// NewMPV creates a new MPV element instance (does not start the process).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// CanPlayType reports mpv's native support for a content type.
// mpv ships its own HLS demuxer, so manifest types play without an engine.
func (m *MPV) CanPlayType(mimeType string) bool {
	switch mimeType {
	case constant.MimeHLS, constant.MimeText, "video/mp4", "audio/mpeg":
		return true
	default:
		return false
	}
}

// SetSource assigns a stream URL to the element. The mpv process is spawned
// lazily on the first assignment; subsequent assignments load the new URL
// into the running instance via IPC.
func (m *MPV) SetSource(rawURL string) error {
	// Sanitize the URL to prevent flag injection
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.IsRunning() {
		_, err := m.sendCommand([]interface{}{"loadfile", safeURL, "replace"})
		return err
	}

	return m.spawn(safeURL)
}

// ClearSource unloads the current media, returning mpv to its idle state.
func (m *MPV) ClearSource() error {
	if !m.IsRunning() {
		return nil
	}
	_, err := m.sendCommand([]interface{}{"stop"})
	return err
}

// spawn starts the mpv process against the given URL and waits for its IPC socket.
func (m *MPV) spawn(safeURL string) error {
	safeTitle := sanitizeTitle(m.Title)

	// Construct header string if present
	var headerString string
	if len(m.Headers) > 0 {
		var hBuilder strings.Builder
		for k, v := range m.Headers {
			if hBuilder.Len() > 0 {
				hBuilder.WriteString(",")
			}
			// Replace commas in values if any (simple sanitization)
			val := strings.ReplaceAll(v, ",", "%2C")
			hBuilder.WriteString(fmt.Sprintf("%s: %s", k, val))
		}
		headerString = hBuilder.String()
	}

	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/)
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("vidra-%x.sock", randomBytes))
	}

	// Build mpv arguments.
	// Pass ONLY the socket, title, and URL.
	// Do NOT pass --vo, --profile, --hwdec — respect user's mpv.conf.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle), // Some mpv builds only respect --title
		"--force-window=yes",
		"--idle=yes",
	}

	if headerString != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", headerString))
	}

	args = append(args, safeURL)

	m.cmd = exec.Command("mpv", args...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()

	// Disable standard pipes to prevent resource leaks.
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	// Wait for the IPC socket to become available
	if err := m.waitForSocket(); err != nil {
		// If socket never became ready, kill the orphaned process
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
				// Already exited
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		// Check if process already exited
		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Play resumes playback by clearing mpv's pause property.
func (m *MPV) Play() error {
	return m.set("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// Paused reports whether playback is currently paused.
// An unreachable backend reads as paused.
func (m *MPV) Paused() bool {
	data, err := m.sendCommand([]interface{}{"get_property", "pause"})
	if err != nil {
		return true
	}
	paused, ok := data.(bool)
	return ok && paused
}

// CurrentTime returns the current playback position in seconds, or zero when
// nothing is loaded.
func (m *MPV) CurrentTime() float64 {
	pos, err := m.getFloatProperty("time-pos")
	if err != nil {
		return 0
	}
	return pos
}

// SeekTo moves playback to the given absolute position in seconds.
func (m *MPV) SeekTo(seconds float64) error {
	_, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// Duration returns the total duration of the current media in seconds.
// Live streams report zero.
func (m *MPV) Duration() float64 {
	dur, err := m.getFloatProperty("duration")
	if err != nil {
		return 0
	}
	return dur
}

// Volume returns the current playback volume (0-100).
func (m *MPV) Volume() float64 {
	vol, err := m.getFloatProperty("volume")
	if err != nil {
		return 0
	}
	return vol
}

// SetVolume assigns the playback volume (0-100).
func (m *MPV) SetVolume(volume float64) error {
	return m.set("volume", volume)
}

// Muted reports whether audio output is muted.
func (m *MPV) Muted() bool {
	data, err := m.sendCommand([]interface{}{"get_property", "mute"})
	if err != nil {
		return false
	}
	muted, ok := data.(bool)
	return ok && muted
}

// SetMuted toggles audio output muting.
func (m *MPV) SetMuted(muted bool) error {
	return m.set("mute", muted)
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	// Fast check: process already exited?
	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	// Wait for process to exit (with timeout)
	select {
	case <-m.exited:
		// Clean exit
	case <-time.After(3 * time.Second):
		// Force kill if graceful quit didn't work
		_ = killProcess(m.cmd)
	}

	// Clean up the socket file
	_ = os.Remove(m.socketPath)

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// SetChapters sets the chapters for the current media.
// This provides visual feedback in the mpv UI (timeline).
func (m *MPV) SetChapters(chapters []map[string]interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", "chapter-list", chapters})
	return err
}

// set assigns an mpv property via IPC.
func (m *MPV) set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
// Prevents flag injection from untrusted provider scripts.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	// If it contains "://", validate as URL
	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title for mpv
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	// Remove null bytes
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
