package main

import (
	"os"

	"github.com/msto63/livelog/cmd/livelog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
