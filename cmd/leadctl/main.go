// Command leadctl is the operator CLI: bulk import from a file, pipeline
// stats, prompt rendering and password hashing.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
