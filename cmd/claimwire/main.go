package main

import (
	"os"

	"claimwire/cmd/claimwire/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
