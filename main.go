package main

import (
	"os"

	"github.com/roadready/roadready/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
