// Package common holds helpers shared by the command-line window backends.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its standard output. Backends take
// a Runner so tests can script the tool output.
type Runner func(name string, args ...string) ([]byte, error)

// ExitError is returned by Output when the command ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.Code, e.Stderr)
}

// CommandExists checks if a command is available in PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// Output runs name with args. A non-zero exit is reported as *ExitError
// carrying the trimmed stderr.
func Output(name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, &ExitError{
				Command: name,
				Code:    exitErr.ExitCode(),
				Stderr:  strings.TrimSpace(stderr.String()),
			}
		}
		return out, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return out, nil
}

// IsExit reports whether err is an *ExitError with the given code.
func IsExit(err error, code int) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Code == code
}

// StderrContains reports whether err is an *ExitError whose stderr mentions s.
func StderrContains(err error, s string) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && strings.Contains(exitErr.Stderr, s)
}
