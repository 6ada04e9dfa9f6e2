package main

import (
	"os"

	"traceblame/cmd/cli/cmd"
	"traceblame/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
