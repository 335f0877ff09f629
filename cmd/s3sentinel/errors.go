package main

import (
	"errors"
	"fmt"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

const (
	exitFatal  = 1
	exitPolicy = 2
)

var errPolicyViolation = errors.New("policy enforcement failed")

// doctorHint follows fatal provider errors, which are almost always a
// credentials or permissions problem.
const doctorHint = `run "s3sentinel doctor" to check credentials and S3 access`

// exitError carries a process exit code through cobra. A silent exitError
// has already reported itself and prints nothing further.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// exitCode maps err to the process exit status: 2 for policy violations,
// 1 for everything else.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFatal
}

// errorMessage returns the line printed after "error:", or "" when err has
// already been reported.
func errorMessage(err error) string {
	var ee *exitError
	if errors.As(err, &ee) && ee.silent {
		return ""
	}
	if providers.IsFatal(err) {
		return err.Error() + "; " + doctorHint
	}
	return err.Error()
}
