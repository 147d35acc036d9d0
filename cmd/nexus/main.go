package main

import (
	"os"

	"github.com/nexusroot/nexus/cmd/nexus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
