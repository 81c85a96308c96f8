package main

import (
	"os"

	"sigsetup/cmd/sigsetup/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
