package main

import (
	"os"

	"github.com/abhisek/pixengine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
