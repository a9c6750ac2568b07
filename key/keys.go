// Package key names every configuration field.
package key

// Extensions
const (
	ExtensionsPath      = "extensions.path"
	ExtensionsShowNSFW  = "extensions.show_nsfw"
	ExtensionsDefault   = "extensions.default"
	ExtensionsAsyncCall = "extensions.async_native"
)

// Script engine
const (
	ScriptQueueSize   = "script.queue_size"
	ScriptCallTimeout = "script.call_timeout"
)

// Provider result cache
const (
	CacheSearch = "cache.search"
	CacheTTL    = "cache.ttl"
)

// Search
const (
	SearchLimit           = "search.limit"
	SearchRememberQueries = "search.remember_queries"
)

// Icons
const (
	IconsVariant = "icons.variant"
)

// Logs
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI
const (
	CliColored = "cli.colored"
)
