package main

import (
	"os"

	"github.com/dshills/spotreview/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
