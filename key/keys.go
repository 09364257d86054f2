// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Source Configuration - these keys define how playback ids are resolved into stream URLs.
const (
	StreamBaseURL       = "stream.base_url"
	StreamType          = "stream.type"
	StreamMinResolution = "stream.min_resolution"
	StreamMaxResolution = "stream.max_resolution"
	StreamResolution    = "stream.resolution"
	StreamRendition     = "stream.rendition_order"
)

// Endpoint Providers - these keys manage the registration and selection of playback endpoint providers.
const (
	DefaultProvider = "providers.default"
)

// Media Playback - these keys maintain the state and configuration for the playback backend.
const (
	Player             = "player.default"
	PlayerAutoplay     = "player.autoplay"
	PlayerVolume       = "player.volume"
	PlayerMuted        = "player.muted"
	PlayerSubtitleLang = "player.subtitle_language"
	PlayerDebug        = "player.debug"
	PlayerSavePrefs    = "player.save_preferences"
)

// Network Behavior - these keys tune validation fetches against playback endpoints.
const (
	NetworkImpersonate = "network.impersonate"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)
