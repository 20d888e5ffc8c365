package pdftool

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Tools adapts the external PDF binaries this program shells out to:
// pdfinfo for page counts, pdftotext for extraction, pdftoppm for
// rasterisation and rga for candidate discovery.
type Tools struct {
	runner Runner
	log    *zap.Logger
}

// New creates a Tools using the given runner
func New(runner Runner, log *zap.Logger) *Tools {
	return &Tools{runner: runner, log: log}
}

// Runner exposes the underlying runner (backend selection shares it)
func (t *Tools) Runner() Runner {
	return t.runner
}

// CountPages asks pdfinfo for a document's page count
func (t *Tools) CountPages(ctx context.Context, pdfPath string) (int, error) {
	res, err := t.runner.Run(ctx, "pdfinfo", pdfPath)
	if err != nil {
		return 0, fmt.Errorf("running pdfinfo: %w", err)
	}
	if res.ExitCode != 0 {
		return 0, fmt.Errorf("pdfinfo failed: %s", diag(res))
	}
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err != nil {
			return 0, fmt.Errorf("parsing pdfinfo page count: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("pdfinfo output for %s has no Pages line", pdfPath)
}

// ExtractPage runs pdftotext scoped to a single page and returns its stdout
// verbatim
func (t *Tools) ExtractPage(ctx context.Context, pdfPath string, page int) (string, error) {
	res, err := t.runner.Run(ctx, "pdftotext",
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		pdfPath, "-")
	if err != nil {
		return "", fmt.Errorf("running pdftotext: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("pdftotext failed: %s", diag(res))
	}
	return string(res.Stdout), nil
}

// RasterizePage runs pdftoppm for a single page, writing PNGs under prefix
func (t *Tools) RasterizePage(ctx context.Context, pdfPath string, page int, outPrefix string) error {
	return t.rasterize(ctx, pdfPath, outPrefix,
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page))
}

// RasterizeAll runs pdftoppm over the whole document in one invocation
func (t *Tools) RasterizeAll(ctx context.Context, pdfPath string, outPrefix string) error {
	return t.rasterize(ctx, pdfPath, outPrefix)
}

func (t *Tools) rasterize(ctx context.Context, pdfPath, outPrefix string, rangeArgs ...string) error {
	args := append(rangeArgs, "-png", pdfPath, outPrefix)
	res, err := t.runner.Run(ctx, "pdftoppm", args...)
	if err != nil {
		return fmt.Errorf("running pdftoppm: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("pdftoppm failed: %s", diag(res))
	}
	return nil
}

func diag(res Result) string {
	msg := strings.TrimSpace(string(res.Stderr))
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", res.ExitCode)
	}
	return msg
}
