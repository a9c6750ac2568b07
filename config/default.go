// Package config registers configuration defaults and sets viper up.
package config

import (
	"github.com/anisan-cli/katalog/key"
)

// Default maps every registered key to its field.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to KATALOG_* environment variables, in registration order.
var EnvExposed []string

var fields = []Field{
	{key.ExtensionsPath, "", "Directory with unpacked extension packages.\nEmpty means the extensions directory under the config path"},
	{key.ExtensionsShowNSFW, false, "Include providers flagged as adult content"},
	{key.ExtensionsDefault, []string{}, "Providers used by search when none is given with --provider"},
	{key.ExtensionsAsyncCall, true, "Run native provider calls on their own goroutine"},

	{key.ScriptQueueSize, 128, "Capacity of the script task queue.\nSubmitting to a full queue blocks until the worker catches up"},
	{key.ScriptCallTimeout, "0s", "Deadline for a single script call, e.g. 30s.\n0 disables the deadline"},

	{key.CacheSearch, true, "Cache script search results on disk"},
	{key.CacheTTL, "24h", "How long cached search results stay valid"},

	{key.SearchLimit, 20, "Maximum number of results printed per provider"},
	{key.SearchRememberQueries, true, "Remember search queries and offer them as completions"},

	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},

	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},

	{key.CliColored, true, "Enable colored CLI output"},
}

func init() {
	for _, field := range fields {
		if _, exists := Default[field.Key]; exists {
			panic("duplicate config key: " + field.Key)
		}
		Default[field.Key] = field
		EnvExposed = append(EnvExposed, field.Key)
	}
}
