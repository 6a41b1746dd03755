package main

import (
	"os"

	"github.com/plata-app/plata-core/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
