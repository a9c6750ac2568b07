// Package cmd implements the command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/anisan-cli/katalog/color"
	"github.com/anisan-cli/katalog/constant"
	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/icon"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/log"
	"github.com/anisan-cli/katalog/provider"
	"github.com/anisan-cli/katalog/style"
	"github.com/anisan-cli/katalog/util"
	"github.com/anisan-cli/katalog/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icons variant (emoji, nerd, plain, kaomoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("nsfw", false, "Include providers flagged as adult content")
	lo.Must0(viper.BindPFlag(key.ExtensionsShowNSFW, rootCmd.PersistentFlags().Lookup("nsfw")))

	rootCmd.PersistentFlags().String("extensions", "", "Directory with unpacked extension packages")
	lo.Must0(viper.BindPFlag(key.ExtensionsPath, rootCmd.PersistentFlags().Lookup("extensions")))

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Katalog,
	Short: "Browse media catalogs through Lua and native extensions",
	Long: style.New().Bold(true).Foreground(color.HiPurple).Render(constant.Katalog) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Browse media catalogs through Lua and native extensions"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

// completionProviders completes provider ids.
func completionProviders(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(provider.Providers(extension.CapNone), func(p extension.Provider, _ int) string {
		return p.ID()
	}), cobra.ShellCompDirectiveNoFileComp
}
