// Command zeta evaluates the Riemann zeta function from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/riemann-research/zeta/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
