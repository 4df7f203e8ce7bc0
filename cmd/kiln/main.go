package main

import (
	"os"

	"github.com/querykiln/kiln/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
