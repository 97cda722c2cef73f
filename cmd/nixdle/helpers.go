package main

import (
	"fmt"
	"os"

	"github.com/joss/nixdle/internal/logging"
)

// exitOnError prints err to stderr and exits.
func exitOnError(err error) {
	logging.New("cli").Error("command_failed", nil, err)
	logging.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
