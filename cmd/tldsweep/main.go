package main

import (
	"os"

	"github.com/tldsweep/tldsweep/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
