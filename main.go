// Package main is the katalog entry point.
package main

import (
	"github.com/anisan-cli/katalog/cmd"
	"github.com/anisan-cli/katalog/config"
	"github.com/anisan-cli/katalog/internal/cache"
	"github.com/anisan-cli/katalog/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
