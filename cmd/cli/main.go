package main

import (
	"os"

	"github.com/reachly-dev/reachly/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
