// Command entitychips renders entity chips from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-entitychips/cmd/entitychips/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "entitychips:", err)
		os.Exit(1)
	}
}
