package cmd

import (
	"os"
	"runtime"
	"runtime/debug"
	"text/template"

	"github.com/anisan-cli/katalog/color"
	"github.com/anisan-cli/katalog/constant"
	"github.com/anisan-cli/katalog/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		info := struct {
			App      string
			Version  string
			Revision string
			Go       string
			OS       string
			Arch     string
		}{
			App:      constant.Katalog,
			Version:  constant.Version,
			Revision: "unknown",
			Go:       runtime.Version(),
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
		}

		if build, ok := debug.ReadBuildInfo(); ok {
			if setting, ok := lo.Find(build.Settings, func(s debug.BuildSetting) bool {
				return s.Key == "vcs.revision"
			}); ok {
				info.Revision = setting.Value
			}
		}

		t, err := template.New("version").Funcs(map[string]any{
			"faint":   style.Faint,
			"bold":    style.Bold,
			"magenta": style.Fg(color.Purple),
		}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}         {{ bold .Version }}
  {{ faint "Git Commit" }}      {{ bold .Revision }}
  {{ faint "Go" }}              {{ bold .Go }}
  {{ faint "Platform" }}        {{ bold .OS }}/{{ bold .Arch }}
`)
		handleErr(err)
		handleErr(t.Execute(cmd.OutOrStdout(), info))
	},
}
