package main

import (
	"errors"
	"fmt"
	"os"
)

// Process exit codes, so CI gates can distinguish a failed score
// from a broken invocation.
const (
	ExitSuccess    = 0 // Run completed and the quality gate passed
	ExitGateFailed = 1 // Run completed but the score fell below the gate
	ExitError      = 2 // Configuration or runtime error
)

// GateFailureError indicates the benchmark ran successfully but the score
// fell below the requested minimum.
type GateFailureError struct {
	Message string
}

func (e *GateFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var gateErr *GateFailureError
		if errors.As(err, &gateErr) {
			os.Exit(ExitGateFailed)
		}

		// Anything else is a configuration or runtime problem.
		os.Exit(ExitError)
	}
}
