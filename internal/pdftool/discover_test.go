package pdftool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestDiscoverSortsOutput(t *testing.T) {
	runner := &MockRunner{
		Available: map[string]bool{"rga": true},
		Handler: func(name string, args []string) (Result, error) {
			return Result{Stdout: []byte("/docs/b.pdf\n/docs/a.pdf\n\n")}, nil
		},
	}
	tools := New(runner, zap.NewNop())

	paths, err := tools.Discover(context.Background(), "term", "/docs")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "/docs/a.pdf" || paths[1] != "/docs/b.pdf" {
		t.Errorf("unexpected candidates %v", paths)
	}
}

func TestDiscoverNoMatches(t *testing.T) {
	runner := &MockRunner{
		Available: map[string]bool{"rga": true},
		Handler: func(name string, args []string) (Result, error) {
			// rga exits 1 when nothing matched; that is not an error
			return Result{ExitCode: 1}, nil
		},
	}
	tools := New(runner, zap.NewNop())

	paths, err := tools.Discover(context.Background(), "term", "/docs")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no candidates, got %v", paths)
	}
}

func TestDiscoverToolFailure(t *testing.T) {
	runner := &MockRunner{
		Available: map[string]bool{"rga": true},
		Handler: func(name string, args []string) (Result, error) {
			return Result{Stderr: []byte("permission denied"), ExitCode: 2}, nil
		},
	}
	tools := New(runner, zap.NewNop())

	if _, err := tools.Discover(context.Background(), "term", "/docs"); err == nil {
		t.Fatal("exit code 2 must be a failure")
	}
}

func TestDiscoverFallbackWalk(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.pdf", "a.pdf", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(sub, "deep.pdf"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &MockRunner{} // rga not installed
	tools := New(runner, zap.NewNop())

	paths, err := tools.Discover(context.Background(), "term", root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "a.pdf"),
		filepath.Join(root, "b.pdf"),
		filepath.Join(sub, "deep.pdf"),
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d candidates, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("candidate %d: got %s want %s", i, paths[i], want[i])
		}
	}
	if runner.CallCount("rga") != 0 {
		t.Error("rga must not be invoked when missing")
	}
}
