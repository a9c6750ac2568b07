package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/anisan-cli/katalog/color"
	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/icon"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/log"
	"github.com/anisan-cli/katalog/provider"
	"github.com/anisan-cli/katalog/query"
	"github.com/anisan-cli/katalog/style"
	"github.com/anisan-cli/katalog/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringSliceP("provider", "p", []string{}, "Providers to query, by id or name")
	lo.Must0(searchCmd.RegisterFlagCompletionFunc("provider", completionProviders))
	searchCmd.Flags().IntP("page", "P", 0, "Result page, starting from 0")
	searchCmd.Flags().IntP("limit", "n", 0, "Results printed per provider")
	lo.Must0(viper.BindPFlag(key.SearchLimit, searchCmd.Flags().Lookup("limit")))
	searchCmd.Flags().BoolP("json", "j", false, "Print as JSON")

	searchCmd.SetOut(os.Stdout)
}

type searchResult struct {
	Provider string           `json:"provider"`
	Items    []*catalog.Media `json:"items"`
	HasNext  bool             `json:"hasNext"`
	Error    string           `json:"error,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search media across providers",
	Long: `Search media across providers.
Without --provider the providers in extensions.default are queried, or every provider when that is empty.
An empty query lists what the providers show by default.`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(strings.Join(append(args, toComplete), " ")), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		providers, err := selectProviders(lo.Must(cmd.Flags().GetStringSlice("provider")))
		handleErr(err)

		req := &extension.SearchRequest{
			Query: strings.Join(args, " "),
			Page:  lo.Must(cmd.Flags().GetInt("page")),
		}

		// every call is started before the first one is awaited
		futures := lo.Map(providers, func(p extension.Provider, _ int) *extension.Future[*extension.MediaPage] {
			return extension.Call(func(cb extension.Callback[*extension.MediaPage]) {
				p.SearchMedia(req, cb)
			})
		})

		if err := query.Remember(req.Query, 1); err != nil {
			log.Warnf("remember query: %s", err)
		}

		limit := viper.GetInt(key.SearchLimit)
		results := make([]searchResult, len(providers))
		for i, future := range futures {
			result := searchResult{Provider: providers[i].ID()}

			page, err := future.Await()
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Items = page.Items
				result.HasNext = page.HasNext
				if limit > 0 && len(result.Items) > limit {
					result.Items = result.Items[:limit]
				}
			}
			results[i] = result
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(results))
			return
		}

		for i, result := range results {
			cmd.Println(style.Title(provider.DisplayName(providers[i])))

			switch {
			case result.Error != "":
				cmd.Printf("%s %s\n", icon.Get(icon.Fail), style.Fg(color.Red)(result.Error))
			case len(result.Items) == 0:
				cmd.Printf("%s %s\n", icon.Get(icon.Search), style.Faint("no results"))
			default:
				cmd.Println(style.Faint(util.Quantify(len(result.Items), "result", "results")))
				for _, media := range result.Items {
					printMedia(cmd, media)
				}
				if result.HasNext {
					cmd.Println(style.Faint(fmt.Sprintf("more on page %d", req.Page+1)))
				}
			}

			if i < len(results)-1 {
				cmd.Println()
			}
		}
	},
}

// selectProviders resolves names to search providers, falling back to the configured defaults
// and then to every provider that can search.
func selectProviders(names []string) ([]extension.Provider, error) {
	if _, err := provider.Registry(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Warn), err)
	}

	var providers []extension.Provider
	for _, name := range names {
		p, ok := provider.Find(name)
		if !ok {
			return nil, fmt.Errorf("provider %s is not loaded", style.Fg(color.Red)(name))
		}
		providers = append(providers, p)
	}

	if len(providers) == 0 {
		providers = provider.Defaults()
	}
	if len(providers) == 0 {
		providers = provider.Providers(extension.CapMediaSearch)
	}

	providers = lo.Filter(providers, func(p extension.Provider, _ int) bool {
		return p.Capabilities().Has(extension.CapMediaSearch)
	})
	if len(providers) == 0 {
		return nil, errors.New("no provider can search, see katalog extensions list")
	}
	return providers, nil
}

func printMedia(cmd *cobra.Command, media *catalog.Media) {
	cmd.Printf("%s %s\n", style.Bold(media.Title()), style.Faint(media.GlobalID))

	details := []string{media.Type.String()}
	if media.Status != catalog.StatusUnknown {
		details = append(details, media.Status.String())
	}
	if len(media.Genres) > 0 {
		details = append(details, strings.Join(media.Genres, ", "))
	}
	cmd.Println("  " + style.Fg(color.Cyan)(strings.Join(details, " · ")))
}
