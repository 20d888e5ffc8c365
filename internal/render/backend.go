package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dyike/pdq/internal/pdftool"
)

// ErrNoBackend means neither terminal image backend is installed. Distinct
// from a backend that is installed but fails on a given image.
var ErrNoBackend = errors.New("no terminal image backend available (install wezterm or chafa)")

// Backend turns a PNG into printable terminal output via an external
// program, either wezterm's imgcat or chafa.
type Backend struct {
	name   string
	runner pdftool.Runner
}

// SelectBackend picks the terminal image backend once, up front. An explicit
// override names the backend unconditionally; otherwise wezterm is preferred
// when installed, falling back to chafa. Only absence triggers the fallback:
// a selected backend that later fails to render does not get swapped out.
func SelectBackend(runner pdftool.Runner, override string) (*Backend, error) {
	switch override {
	case "wezterm", "chafa":
		return &Backend{name: override, runner: runner}, nil
	case "":
	default:
		return nil, fmt.Errorf("unknown renderer %q (want wezterm or chafa)", override)
	}

	if _, err := runner.LookPath("wezterm"); err == nil {
		return &Backend{name: "wezterm", runner: runner}, nil
	}
	if _, err := runner.LookPath("chafa"); err == nil {
		return &Backend{name: "chafa", runner: runner}, nil
	}
	return nil, ErrNoBackend
}

// Name returns the selected backend's name
func (b *Backend) Name() string {
	return b.name
}

// Render returns the terminal representation of a PNG
func (b *Backend) Render(ctx context.Context, pngPath string) (string, error) {
	var args []string
	if b.name == "wezterm" {
		args = []string{"imgcat", pngPath}
	} else {
		args = []string{pngPath}
	}

	res, err := b.runner.Run(ctx, b.name, args...)
	if err != nil {
		return "", fmt.Errorf("running %s: %w", b.name, err)
	}
	if res.ExitCode != 0 {
		msg := strings.TrimSpace(string(res.Stderr))
		if msg == "" {
			msg = fmt.Sprintf("exit status %d", res.ExitCode)
		}
		return "", fmt.Errorf("%s failed: %s", b.name, msg)
	}
	return string(res.Stdout), nil
}
