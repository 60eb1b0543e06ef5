// repoadvisor analyzes a codebase snapshot, recommends extend-or-create
// decisions for proposed changes, and generates nearest-wins guidance
// documents for coding agents.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

// exitError carries a process exit code alongside the underlying error:
// 2 for an unreadable snapshot, 1 for an invalid proposal, 3 for an
// unwritable output directory.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}
