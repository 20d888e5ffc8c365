package pdftool

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result is the outcome of one external tool invocation
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes external commands. The error return covers failures to
// run the command at all (binary missing, context cancelled); a tool that
// ran and exited non-zero reports that through ExitCode.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
	LookPath(name string) (string, error)
}

type execRunner struct{}

// NewRunner returns a Runner backed by os/exec
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
