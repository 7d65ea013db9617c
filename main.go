package main

import (
	"os"

	"github.com/kyleking/lazylaunch/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		os.Exit(1)
	}
}
