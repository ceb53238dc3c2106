package main

import (
	"os"

	"github.com/folio-web/folio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
