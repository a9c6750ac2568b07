// Package constant holds application-wide identifiers.
package constant

const (
	// Katalog is the application name used for paths, env prefix and the CLI.
	Katalog = "katalog"

	Version = "0.3.0"

	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)
