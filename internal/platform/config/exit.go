package config

import (
	"fmt"
	"os"
)

// Exitf reports a startup failure on stderr and exits the process with
// status 1. Only command mains call it; inside the consistency layer an
// invariant violation surfaces as a fatal error value and propagates up.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
