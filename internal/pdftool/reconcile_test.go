package pdftool

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReconcileRenames(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "page-1.png"))
	touch(t, filepath.Join(dir, "page-2.png"))

	found, err := ReconcileRenders(dir, []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, page := range []int{1, 2} {
		want := filepath.Join(dir, map[int]string{1: "page_1.png", 2: "page_2.png"}[page])
		if found[page] != want {
			t.Errorf("page %d: got %s want %s", page, found[page], want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("canonical file for page %d missing", page)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "page-1.png")); !os.IsNotExist(err) {
		t.Error("generated name should have been renamed away")
	}
}

func TestReconcileZeroPadded(t *testing.T) {
	dir := t.TempDir()
	// pdftoppm zero-pads by page-count width
	touch(t, filepath.Join(dir, "page-03.png"))

	found, err := ReconcileRenders(dir, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	if found[3] != filepath.Join(dir, "page_3.png") {
		t.Errorf("zero-padded name not reconciled: %v", found)
	}
}

func TestReconcileKeepsExistingCanonical(t *testing.T) {
	dir := t.TempDir()
	canonical := filepath.Join(dir, "page_1.png")
	if err := os.WriteFile(canonical, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "page-1.png"))

	found, err := ReconcileRenders(dir, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	if found[1] != canonical {
		t.Errorf("expected canonical path, got %s", found[1])
	}
	data, err := os.ReadFile(canonical)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old" {
		t.Error("existing canonical file should not be overwritten")
	}
	if _, err := os.Stat(filepath.Join(dir, "page-1.png")); !os.IsNotExist(err) {
		t.Error("duplicate generated file should be removed")
	}
}

func TestReconcileUnaccountedPage(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "page-1.png"))

	found, err := ReconcileRenders(dir, []int{1, 2})
	if !errors.Is(err, ErrPageUnaccounted) {
		t.Fatalf("expected ErrPageUnaccounted, got %v", err)
	}
	// Everything the tool did produce is still reported
	if found[1] == "" {
		t.Error("accounted page should be in the mapping despite the error")
	}
}

func TestReconcileAcceptsPriorCanonical(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "page_2.png"))

	found, err := ReconcileRenders(dir, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if found[2] != filepath.Join(dir, "page_2.png") {
		t.Errorf("pre-existing canonical file not accounted: %v", found)
	}
}
