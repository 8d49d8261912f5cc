package daemon

import (
	"fmt"
	"os"
	"path/filepath"
)

// Spawn re-executes the current binary with args in a new session. The
// child's stdout and stderr go to logFile.
func Spawn(args []string, logFile string) (*os.Process, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer out.Close()

	procAttr := &os.ProcAttr{
		Env:   append(os.Environ(), ChildEnv+"=1"),
		Files: []*os.File{nil, out, out},
		Sys:   sysProcAttr(),
	}

	process, err := os.StartProcess(exe, append([]string{exe}, args...), procAttr)
	if err != nil {
		return nil, fmt.Errorf("failed to start daemon process: %w", err)
	}
	return process, nil
}
