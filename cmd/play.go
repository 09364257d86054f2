// Package cmd implements the command-line interface for vidra.
package cmd

import (
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidra-player/vidra/auth"
	"github.com/vidra-player/vidra/key"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/prefs"
	"github.com/vidra-player/vidra/provider"
	"github.com/vidra-player/vidra/tui"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("token", "t", "", "Playback token for signed streams")
	playCmd.Flags().Bool("save-token", false, "Persist the playback token in the system keyring")
	playCmd.Flags().BoolP("select", "s", false, "Interactively select the endpoint provider")
	playCmd.Flags().Bool("autoplay", viper.GetBool(key.PlayerAutoplay), "Begin playback as soon as the stream is ready")
}

// playCmd resolves a playback id and launches the interactive player.
var playCmd = &cobra.Command{
	Use:   "play [playback-id]",
	Short: "Resolve a playback id and start the interactive player",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		var playbackID string
		if len(args) >= 1 {
			playbackID = args[0]
		} else {
			handleErr(survey.AskOne(&survey.Input{Message: "Playback id:"}, &playbackID, survey.WithValidator(survey.Required)))
		}
		playbackID = strings.TrimSpace(playbackID)

		p := provider.Default()
		if lo.Must(cmd.Flags().GetBool("select")) {
			p = selectProvider()
		}

		source, err := p.Resolve(playbackID)
		handleErr(err)

		token := lo.Must(cmd.Flags().GetString("token"))
		if token != "" {
			source.Token = token
			if lo.Must(cmd.Flags().GetBool("save-token")) {
				handleErr(auth.SetToken(playbackID, token))
			}
		} else if source.Token == "" {
			// A previously saved token beats an unsigned attempt.
			if saved, err := auth.GetToken(playbackID); err == nil {
				source.Token = saved
			}
		}

		stored, err := prefs.Get()
		if err != nil {
			log.Warnf("preference store unreadable, using defaults: %v", err)
			stored = prefs.Defaults()
		}

		autoplay := viper.GetBool(key.PlayerAutoplay)
		if cmd.Flags().Changed("autoplay") {
			autoplay = lo.Must(cmd.Flags().GetBool("autoplay"))
		}

		handleErr(tui.Run(&tui.Options{
			Source:   source,
			Prefs:    stored,
			Autoplay: autoplay,
		}))
	},
}

// selectProvider prompts for one of the registered endpoint providers.
func selectProvider() *provider.Provider {
	providers := provider.All()
	names := lo.Map(providers, func(p *provider.Provider, _ int) string {
		return p.Name
	})

	var name string
	handleErr(survey.AskOne(&survey.Select{
		Message: "Endpoint provider:",
		Options: names,
		Default: provider.Default().Name,
	}, &name, survey.WithValidator(survey.Required)))

	p, ok := provider.Get(name)
	if !ok {
		handleErr(errors.New("unknown provider " + name))
	}
	return p
}
