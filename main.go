// Package main is the entry point for the vidra application.
package main

import (
	"github.com/samber/lo"
	"github.com/vidra-player/vidra/cmd"
	"github.com/vidra-player/vidra/config"
	"github.com/vidra-player/vidra/internal/cache"
	"github.com/vidra-player/vidra/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background cache maintenance.
	go cache.CollectGarbage()

	cmd.Execute()
}
