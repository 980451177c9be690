package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("line\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpandGlobs_Literal(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "data.txt")
	file := filepath.Join(dir, "data.txt")

	result, err := ExpandGlobs([]string{file})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 1 || result[0] != file {
		t.Errorf("ExpandGlobs() = %v, want [%s]", result, file)
	}
}

func TestExpandGlobs_PatternSorted(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "c.txt", "a.txt", "b.txt", "skip.log")

	result, err := ExpandGlobs([]string{filepath.Join(dir, "*.txt")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	var bases []string
	for _, p := range result {
		bases = append(bases, filepath.Base(p))
	}
	if strings.Join(bases, ",") != "a.txt,b.txt,c.txt" {
		t.Errorf("ExpandGlobs() = %v, want a b c", bases)
	}
}

func TestExpandGlobs_KeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "z.txt", "a.txt")

	result, err := ExpandGlobs([]string{filepath.Join(dir, "z.txt"), filepath.Join(dir, "*.txt")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("ExpandGlobs() returned %d paths, want 2 (deduplicated)", len(result))
	}
	if filepath.Base(result[0]) != "z.txt" || filepath.Base(result[1]) != "a.txt" {
		t.Errorf("ExpandGlobs() = %v, want z.txt then a.txt", result)
	}
}

func TestExpandGlobs_NoMatchPassesThrough(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "*.missing")

	result, err := ExpandGlobs([]string{pattern})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 1 || result[0] != pattern {
		t.Errorf("ExpandGlobs() = %v, want [%s]", result, pattern)
	}
}

func TestExpandGlobs_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "sub.txt/inner")

	result, err := ExpandGlobs([]string{filepath.Join(dir, "*.txt")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 1 || filepath.Base(result[0]) != "a.txt" {
		t.Errorf("ExpandGlobs() = %v, want only a.txt", result)
	}
}

func TestExpandGlobs_InvalidPattern(t *testing.T) {
	if _, err := ExpandGlobs([]string{"[invalid"}); err == nil {
		t.Error("ExpandGlobs() expected error for invalid pattern")
	}
}

func TestExpandGlobs_EmptyInput(t *testing.T) {
	result, err := ExpandGlobs(nil)
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("ExpandGlobs(nil) = %v, want empty", result)
	}
}
