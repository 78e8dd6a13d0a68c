package main

import (
	"os"

	"github.com/mktautomations/opsc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
