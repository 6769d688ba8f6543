package main

import (
	"os"

	"github.com/slurmtools/sfollow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
