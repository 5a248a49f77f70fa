package main

import (
	"os"

	"github.com/spigell/guest-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
