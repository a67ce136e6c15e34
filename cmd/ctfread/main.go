package main

import (
	"os"

	"github.com/majorcontext/babeltrace/cmd/ctfread/cli"
	"github.com/majorcontext/babeltrace/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.Errorf("%v", err)
		os.Exit(1)
	}
}
