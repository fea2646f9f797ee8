package main

import (
	"os"

	"github.com/irsalhamdi/learner-portal/cmd/portalctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
