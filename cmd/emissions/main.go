package main

import (
	"os"

	"emissions/cmd/emissions/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
