package cliutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fa")
	_ = os.WriteFile(a, []byte(">a\nA\n"), 0o644)
	_ = os.WriteFile(b, []byte(">b\nA\n"), 0o644)

	got, err := ExpandPaths([]string{b, filepath.Join(dir, "*.fa"), "-", "-"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{b, a, "-"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExpandPathsNoMatch(t *testing.T) {
	if _, err := ExpandPaths([]string{filepath.Join(t.TempDir(), "*.fa")}); err == nil {
		t.Fatal("want error for unmatched glob")
	}
}
