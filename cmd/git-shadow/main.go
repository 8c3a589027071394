// Command git-shadow is the CLI entry point. It wires the command tree
// defined in this package and hands off to cobra's Execute.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
