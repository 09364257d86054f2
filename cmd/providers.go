// Package cmd implements the command-line interface for vidra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidra-player/vidra/color"
	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/filesystem"
	"github.com/vidra-player/vidra/icon"
	"github.com/vidra-player/vidra/provider"
	"github.com/vidra-player/vidra/style"
	"github.com/vidra-player/vidra/util"
	"github.com/vidra-player/vidra/where"
)

func init() {
	rootCmd.AddCommand(providersCmd)
}

// providersCmd serves as the parent command for managing endpoint providers.
var providersCmd = &cobra.Command{
	Use:     "providers",
	Short:   "Manage built-in and custom playback endpoint providers",
	Aliases: []string{"provider"},
}

func init() {
	providersCmd.AddCommand(providersListCmd)
	providersListCmd.SetOut(os.Stdout)
}

// providersListCmd enumerates every registered endpoint provider.
var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered endpoint providers",
	Run: func(cmd *cobra.Command, args []string) {
		headerStyle := style.New().Bold(true).Foreground(color.HiPurple).Render

		cmd.Println(headerStyle("Built-in"))
		for _, p := range provider.Builtins() {
			cmd.Println(p.Name)
		}

		customs := provider.Customs()
		if len(customs) == 0 {
			return
		}

		cmd.Println()
		cmd.Println(headerStyle("Custom"))
		for _, p := range customs {
			cmd.Println(p.Name)
		}
	},
}

func init() {
	providersCmd.AddCommand(providersUpdateCmd)
	providersUpdateCmd.SetOut(os.Stdout)
}

// providersUpdateCmd refreshes the curated provider scripts from the official repository.
var providersUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download the latest curated provider scripts",
	Long: `Fetch the curated Lua provider scripts from the official repository,
replacing local copies whose contents have drifted.
` + provider.RepoRawURL,
	Run: func(cmd *cobra.Command, args []string) {
		e := util.PrintErasable(fmt.Sprintf("%s Updating providers...", icon.Get(icon.Progress)))
		updated := provider.UpdateProviders(context.Background())
		e()

		cmd.Printf(
			"%s updated %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(updated, "provider", "providers"),
		)
	},
}

func init() {
	providersCmd.AddCommand(providersRemoveCmd)

	providersRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Specify the name of the custom provider(s) to uninstall")
	lo.Must0(providersRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(provider.Customs(), func(p *provider.Provider, _ int) string {
			return p.Name
		}), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(providersRemoveCmd.MarkFlagRequired("name"))
}

// providersRemoveCmd uninstalls custom Lua providers.
var providersRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Permanently uninstall specified custom Lua providers from the system",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Providers(), name+".lua")
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	providersCmd.AddCommand(providersGenCmd)

	providersGenCmd.Flags().StringP("name", "n", "", "The display name of the new endpoint provider")
	providersGenCmd.Flags().StringP("url", "u", "", "The base URL of the playback endpoint")

	lo.Must0(providersGenCmd.MarkFlagRequired("name"))
	lo.Must0(providersGenCmd.MarkFlagRequired("url"))
}

// providersGenCmd scaffolds a boilerplate Lua provider script.
var providersGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua provider script using a predefined template",
	Long:  `Generate a boilerplate Lua provider script with the required endpoint resolution function.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		var author string
		usr, err := user.Current()
		if err == nil {
			author = usr.Username
		} else {
			author = "Anonymous"
		}

		s := struct {
			Name              string
			URL               string
			ResolveEndpointFn string
			Author            string
		}{
			Name:              lo.Must(cmd.Flags().GetString("name")),
			URL:               lo.Must(cmd.Flags().GetString("url")),
			ResolveEndpointFn: constant.ResolveEndpointFn,
			Author:            author,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("provider").Funcs(funcMap).Parse(constant.ProviderTemplate)
		handleErr(err)

		target := filepath.Join(where.Providers(), util.SanitizeFilename(s.Name)+".lua")
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		err = tmpl.Execute(f, s)
		handleErr(err)

		cmd.Println(target)
	},
}
