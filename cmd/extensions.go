package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/anisan-cli/katalog/color"
	"github.com/anisan-cli/katalog/constant"
	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/extension/script"
	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/icon"
	"github.com/anisan-cli/katalog/provider"
	"github.com/anisan-cli/katalog/style"
	"github.com/anisan-cli/katalog/util"
	"github.com/anisan-cli/katalog/where"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extensionsCmd)
}

var extensionsCmd = &cobra.Command{
	Use:     "extensions",
	Aliases: []string{"ext"},
	Short:   "Manage installed extension packages",
}

func init() {
	extensionsCmd.AddCommand(extensionsListCmd)

	extensionsListCmd.Flags().BoolP("raw", "r", false, "Only print provider ids")
	extensionsListCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	extensionsListCmd.Flags().StringSliceP("capability", "c", []string{}, "Only list providers with these capabilities")
	lo.Must0(extensionsListCmd.RegisterFlagCompletionFunc("capability", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(capabilityFlags), cobra.ShellCompDirectiveNoFileComp
	}))

	extensionsListCmd.MarkFlagsMutuallyExclusive("raw", "json")
	extensionsListCmd.SetOut(os.Stdout)
}

var capabilityFlags = map[string]extension.Capability{
	"search":       extension.CapMediaSearch,
	"episodes":     extension.CapEpisodes,
	"videos":       extension.CapVideos,
	"comments":     extension.CapCommentsRead,
	"post-comment": extension.CapCommentsWrite,
}

type providerInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manager      string `json:"manager"`
	Lang         string `json:"lang"`
	Priority     int    `json:"priority"`
	NSFW         bool   `json:"nsfw"`
	Capabilities string `json:"capabilities"`
}

var extensionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded providers, highest priority first",
	Run: func(cmd *cobra.Command, args []string) {
		var mask extension.Capability
		for _, name := range lo.Must(cmd.Flags().GetStringSlice("capability")) {
			capability, ok := capabilityFlags[name]
			if !ok {
				handleErr(fmt.Errorf("unknown capability %s", style.Fg(color.Red)(name)))
			}
			mask |= capability
		}

		_, err := provider.Registry()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Warn), err)
		}

		providers := provider.Providers(mask)

		switch {
		case lo.Must(cmd.Flags().GetBool("raw")):
			for _, p := range providers {
				cmd.Println(p.ID())
			}
		case lo.Must(cmd.Flags().GetBool("json")):
			infos := lo.Map(providers, func(p extension.Provider, _ int) providerInfo {
				return providerInfo{
					ID:           p.ID(),
					Name:         p.Name(),
					Manager:      p.Manager(),
					Lang:         p.Lang(),
					Priority:     p.Priority(),
					NSFW:         p.NSFW(),
					Capabilities: p.Capabilities().String(),
				}
			})
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(infos))
		default:
			if len(providers) == 0 {
				cmd.Printf("%s no providers loaded from %s\n", icon.Get(icon.Warn), where.Extensions())
				return
			}

			for _, p := range providers {
				kind := icon.Native
				if p.Manager() == script.Lua.ID {
					kind = icon.Lua
				}

				line := fmt.Sprintf("%s %s %s", icon.Get(kind), style.Bold(provider.DisplayName(p)), style.Faint(p.ID()))
				if p.NSFW() {
					line += " " + style.Tag(color.New("230"), color.Red)("18+")
				}
				cmd.Println(line)
				cmd.Printf("  %s %s  %s %d  %s %s\n",
					style.Faint("lang"), style.Fg(color.Yellow)(p.Lang()),
					style.Faint("priority"), p.Priority(),
					style.Faint("supports"), style.Fg(color.Cyan)(p.Capabilities().String()),
				)
			}
		}
	},
}

func init() {
	extensionsCmd.AddCommand(extensionsRemoveCmd)
	extensionsRemoveCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		packages, err := installedPackages()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Map(packages, func(pkg *extension.Package, _ int) string {
			return pkg.ID
		}), cobra.ShellCompDirectiveNoFileComp
	}
}

var extensionsRemoveCmd = &cobra.Command{
	Use:   "remove <package id>...",
	Short: "Delete installed packages",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		packages, err := installedPackages()
		handleErr(err)

		registry, _ := provider.Registry()

		for _, id := range args {
			pkg, ok := lo.Find(packages, func(pkg *extension.Package) bool {
				return pkg.ID == id
			})
			if !ok {
				handleErr(fmt.Errorf("package %s is not installed", style.Fg(color.Red)(id)))
			}

			handleErr(util.Delete(pkg.Dir))
			registry.Uninstall(pkg.ID)
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(pkg.ID))
		}
	},
}

// installedPackages reads the manifests under the extensions directory, skipping broken ones.
func installedPackages() ([]*extension.Package, error) {
	fs := filesystem.API()
	dir := where.Extensions()

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(entries, func(entry os.FileInfo, _ int) (*extension.Package, bool) {
		if !entry.IsDir() {
			return nil, false
		}
		pkg, err := extension.ReadManifest(fs, filepath.Join(dir, entry.Name()))
		return pkg, err == nil
	}), nil
}

func init() {
	extensionsCmd.AddCommand(extensionsGenCmd)

	extensionsGenCmd.Flags().StringP("name", "n", "", "Display name of the new provider")
	extensionsGenCmd.Flags().StringP("url", "u", "", "Base URL of the site the provider reads")
	extensionsGenCmd.Flags().StringP("lang", "l", "en", "Content language")
	extensionsGenCmd.Flags().StringP("id", "i", "", "Package id, derived from the name when empty")

	lo.Must0(extensionsGenCmd.MarkFlagRequired("name"))
	lo.Must0(extensionsGenCmd.MarkFlagRequired("url"))
}

var extensionsGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a Lua extension package",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		name := lo.Must(cmd.Flags().GetString("name"))
		id := lo.Must(cmd.Flags().GetString("id"))
		if id == "" {
			id = "lua." + strings.ToLower(strings.ReplaceAll(util.SanitizeFilename(name), " ", "_"))
		}
		if strings.Contains(id, ";") {
			handleErr(errors.New("package id must not contain ';'"))
		}

		s := struct {
			ID, Name, URL, Lang, Author                     string
			Feature, MainMeta, NSFWMeta, PriorityVar        string
			SearchMediaFn, MediaEpisodesFn, EpisodeVideosFn string
		}{
			ID:              id,
			Name:            name,
			URL:             lo.Must(cmd.Flags().GetString("url")),
			Lang:            lo.Must(cmd.Flags().GetString("lang")),
			Author:          author,
			Feature:         script.Lua.RequiredFeature,
			MainMeta:        script.Lua.MainClassMeta,
			NSFWMeta:        script.Lua.NSFWMeta,
			PriorityVar:     constant.PriorityVar,
			SearchMediaFn:   constant.SearchMediaFn,
			MediaEpisodesFn: constant.MediaEpisodesFn,
			EpisodeVideosFn: constant.EpisodeVideosFn,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		dir := filepath.Join(where.Extensions(), util.SanitizeFilename(id))
		if exists, _ := filesystem.API().Exists(dir); exists {
			handleErr(fmt.Errorf("%s already exists", dir))
		}
		handleErr(filesystem.API().MkdirAll(dir, os.ModePerm))

		render := func(file, text string) {
			tmpl, err := template.New(file).Funcs(funcMap).Parse(text)
			handleErr(err)

			f, err := filesystem.API().Create(filepath.Join(dir, file))
			handleErr(err)
			defer util.Ignore(f.Close)

			handleErr(tmpl.Execute(f, s))
		}

		render(extension.ManifestName+".toml", constant.ManifestTemplate)
		render("main.lua", constant.SourceTemplate)

		cmd.Println(dir)
	},
}

func init() {
	extensionsCmd.AddCommand(extensionsSchemaCmd)
	extensionsSchemaCmd.SetOut(os.Stdout)
}

var extensionsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of package manifests",
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(extension.ManifestSchema()))
	},
}
