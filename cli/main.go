package main

import (
	"os"

	"github.com/grafana/resolveref/cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
