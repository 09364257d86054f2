// Package provider manages built-in and custom playback endpoint providers.
//
// A provider turns a bare playback id into a full playback source: which
// endpoint hosts the asset, whether a signing token applies, and which
// constraints to request. The built-in provider reads the configured default
// endpoint; custom providers are Lua scripts in the providers directory.
package provider

import (
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/vidra-player/vidra/filesystem"
	"github.com/vidra-player/vidra/key"
	"github.com/vidra-player/vidra/provider/custom"
	"github.com/vidra-player/vidra/stream"
	"github.com/vidra-player/vidra/util"
	"github.com/vidra-player/vidra/where"
)

// DefaultName is the name of the built-in configuration-backed provider.
const DefaultName = "default"

// Provider represents one endpoint provider.
type Provider struct {
	ID       string
	Name     string
	IsCustom bool // Reserved for Lua-based providers.

	// Resolve turns a playback id into a playback source.
	Resolve func(playbackID string) (stream.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns built-in providers.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:      DefaultName,
			Name:    DefaultName,
			Resolve: resolveFromConfig,
		},
	}
}

// Customs returns all available Lua providers.
func Customs() []*Provider {
	providers, _ := CustomProviders()
	return providers
}

// All returns built-in providers followed by custom ones.
func All() []*Provider {
	return append(Builtins(), Customs()...)
}

// Get finds a provider by name.
func Get(name string) (*Provider, bool) {
	for _, p := range All() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Default returns the provider selected by configuration.
func Default() *Provider {
	if p, ok := Get(viper.GetString(key.DefaultProvider)); ok {
		return p
	}
	return Builtins()[0]
}

// CustomProviders enumerates the Lua scripts in the providers directory.
func CustomProviders() ([]*Provider, error) {
	files, err := filesystem.API().ReadDir(where.Providers())
	if err != nil {
		return nil, err
	}

	var providers []*Provider
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".lua" {
			continue
		}

		if f.Name() == "common.lua" {
			continue
		}

		path := filepath.Join(where.Providers(), f.Name())
		name := util.FileStem(f.Name())

		providers = append(providers, &Provider{
			ID:       custom.IDfromName(name),
			Name:     name,
			IsCustom: true,
			Resolve: func(playbackID string) (stream.Source, error) {
				resolver, err := custom.LoadResolver(path)
				if err != nil {
					return stream.Source{}, err
				}
				return resolver.ResolveEndpoint(playbackID)
			},
		})
	}

	return providers, nil
}

// resolveFromConfig builds a playback source from the configured defaults.
func resolveFromConfig(playbackID string) (stream.Source, error) {
	streamType, err := stream.ParseType(viper.GetString(key.StreamType))
	if err != nil {
		return stream.Source{}, err
	}

	return stream.Source{
		PlaybackID: playbackID,
		Type:       streamType,
		BaseURL:    viper.GetString(key.StreamBaseURL),
		Constraints: stream.Constraints{
			MinResolution:  viper.GetString(key.StreamMinResolution),
			MaxResolution:  viper.GetString(key.StreamMaxResolution),
			Resolution:     viper.GetString(key.StreamResolution),
			RenditionOrder: stream.RenditionOrder(viper.GetString(key.StreamRendition)),
		},
	}, nil
}
