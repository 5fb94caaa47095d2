// lexwatch is the command-line interface for the LexWatch deadline engine.
package main

import (
	"os"

	"github.com/lexwatch/lexwatch/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
