package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommandRegistersAllSubcommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"init", "build", "simulate", "upgrade-check", "report", "list"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Errorf("command %q not found: %v", name, err)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("Find(%q) returned command named %q", name, cmd.Name())
		}
	}
}

func TestInferChain(t *testing.T) {
	cases := map[string]string{
		"token.sol":    "evm",
		"vault.move":   "move",
		"program.rs":   "solana",
		"notes.txt":    "",
	}
	for path, want := range cases {
		got, err := inferChain(path)
		if want == "" {
			if err == nil {
				t.Errorf("inferChain(%q) expected error, got %q", path, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("inferChain(%q) unexpected error: %v", path, err)
		}
		if got != want {
			t.Errorf("inferChain(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSourceFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sol")
	if err := os.WriteFile(path, []byte("state x: u64\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	files, err := sourceFiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("got %v", files)
	}
}

func TestSourceFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.sol", "b.sol"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("state x: u64\n"), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
	}

	files, err := sourceFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files, got %d: %v", len(files), files)
	}
}

func TestSourceFilesMissingPath(t *testing.T) {
	if _, err := sourceFiles(filepath.Join(t.TempDir(), "missing.sol")); err == nil {
		t.Error("expected error for missing source")
	}
}
