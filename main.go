package main

import (
	"os"

	"github.com/dcamposl/ragdocs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
