package main

import (
	"os"

	"github.com/xavierca1/ligue-crm/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
