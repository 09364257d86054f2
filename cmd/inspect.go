// Package cmd implements the command-line interface for vidra.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidra-player/vidra/auth"
	"github.com/vidra-player/vidra/network"
	"github.com/vidra-player/vidra/provider"
	"github.com/vidra-player/vidra/resolve"
	"github.com/vidra-player/vidra/storyboard"
	"github.com/vidra-player/vidra/stream"
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("token", "t", "", "Playback token for signed streams")
	inspectCmd.Flags().Bool("schema", false, "Print the JSON schema of the inspection report and exit")
	inspectCmd.SetOut(os.Stdout)
}

// inspection is the machine-readable report of a resolved playback id.
type inspection struct {
	Source     stream.Source          `json:"source"`
	Resolved   stream.ResolvedURL     `json:"resolved"`
	Storyboard *storyboard.Storyboard `json:"storyboard,omitempty"`
}

// inspectCmd resolves a playback id and prints the result as JSON without playing it.
var inspectCmd = &cobra.Command{
	Use:   "inspect [playback-id]",
	Short: "Resolve a playback id and print the playable stream details as JSON",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")

		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(encoder.Encode(jsonschema.Reflect(&inspection{})))
			return
		}

		if len(args) == 0 {
			handleErr(fmt.Errorf("a playback id is required unless --schema is set"))
		}
		playbackID := args[0]

		source, err := provider.Default().Resolve(playbackID)
		handleErr(err)

		if token := lo.Must(cmd.Flags().GetString("token")); token != "" {
			source.Token = token
		} else if source.Token == "" {
			if saved, err := auth.GetToken(playbackID); err == nil {
				source.Token = saved
			}
		}

		ctx := context.Background()
		resolved, err := resolve.New(network.ValidationClient()).Resolve(ctx, source)
		handleErr(err)

		board, err := storyboard.Fetch(ctx, network.Client, source)
		handleErr(err)

		handleErr(encoder.Encode(inspection{
			Source:     source,
			Resolved:   resolved,
			Storyboard: board,
		}))
	},
}
