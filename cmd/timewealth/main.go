// Package main implements the timewealth CLI, which runs the tracker and the
// insight engines offline against a JSON snapshot file.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
