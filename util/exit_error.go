package util

import (
	"fmt"
)

// ExitError carries a specific process exit code up to cmd.Execute.
type ExitError struct {
	ExitCode int
	Err      error
}

func (ee ExitError) Error() string {
	return fmt.Sprintf("exit with code %d: %v", ee.ExitCode, ee.Err)
}

func (ee ExitError) Unwrap() error {
	return ee.Err
}
