// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidra-player/vidra/color"
	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/key"
	"github.com/vidra-player/vidra/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Vidra + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case float64:
		return "float64"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.StreamBaseURL, "https://stream.vidra.io", "Base URL of the playback endpoint.\nOverridden per-call by custom endpoint providers")
	register(key.StreamType, "on-demand", "Stream type to assume for playback ids.\nAvailable options are: on-demand, live-stream")
	register(key.StreamMinResolution, "", "Minimum rendition height to request (e.g. 480p).\nEmpty disables the constraint")
	register(key.StreamMaxResolution, "", "Maximum rendition height to request (e.g. 1080p).\nEmpty disables the constraint")
	register(key.StreamResolution, "", "Pin playback to a single rendition height (e.g. 720p).\nEmpty keeps adaptive selection")
	register(key.StreamRendition, "asc", "Display order of quality levels.\nAvailable options are: asc, desc")
	register(key.DefaultProvider, "", "Default endpoint provider to use.\nWill prompt if not set.\nType \"vidra providers\" to show available providers")
	register(key.Player, "mpv", "Media playback backend to use (e.g., mpv)")
	register(key.PlayerAutoplay, true, "Start playback automatically once the source is attached")
	register(key.PlayerVolume, 100, "Initial playback volume (0-100)")
	register(key.PlayerMuted, false, "Start playback muted")
	register(key.PlayerSubtitleLang, "", "Preferred subtitle language.\nA subtitle track is only preselected when it matches this value")
	register(key.PlayerDebug, false, "Emit verbose playback diagnostics")
	register(key.PlayerSavePrefs, true, "Persist volume, mute and subtitle preferences between runs")
	register(key.NetworkImpersonate, false, "Use a browser-impersonating TLS transport for validation fetches.\nHelps against CDNs that reject default Go clients")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
