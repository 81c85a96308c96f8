package desktop

import (
	"errors"
	"os/exec"
)

// exitCode returns the process exit code behind err, or -1 when err does not
// carry one (start failure, missing binary).
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
