package main

import (
	"os"

	"sanartes/cmd/sanartes/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
