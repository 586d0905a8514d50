// Command ec is a line-oriented interpreter for integer variables.
package main

import (
	"os"

	"ec/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
