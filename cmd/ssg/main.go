package main

import (
	"os"

	"github.com/dmitrymomot/ssgi18n/cmd/ssg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
