// Package where resolves the directories the application reads and writes.
package where

import (
	"os"
	"path/filepath"

	"github.com/anisan-cli/katalog/constant"
	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "KATALOG_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config returns the configuration directory, honouring KATALOG_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Katalog))
}

// Cache returns the cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Katalog))
}

// Logs returns the directory holding daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Extensions returns the directory scanned for unpacked extension packages.
// The extensions.path setting takes precedence over the default under Config.
func Extensions() string {
	if custom := viper.GetString(key.ExtensionsPath); custom != "" {
		return ensureDir(custom)
	}
	return ensureDir(filepath.Join(Config(), "extensions"))
}

// SearchCache returns the directory of cached provider search results.
func SearchCache() string {
	return ensureDir(filepath.Join(Cache(), "search"))
}

// Queries returns the file holding the search query history.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp returns a scratch directory.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Katalog))
}
