package main

import (
	"os"

	"github.com/vppkit/sdkbuild/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
