package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Default()
	if cfg.RecursionLimit != want.RecursionLimit || cfg.Strict != want.Strict {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flo.yaml")
	contents := "recursionLimit: 500\nstrict: true\nprelude: prelude.flo\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RecursionLimit != 500 {
		t.Errorf("expected RecursionLimit 500, got %d", cfg.RecursionLimit)
	}
	if !cfg.Strict {
		t.Errorf("expected Strict true")
	}
	if cfg.Prelude != "prelude.flo" {
		t.Errorf("expected prelude.flo, got %q", cfg.Prelude)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flo.yaml")
	if err := os.WriteFile(path, []byte("not: [valid"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("expected a parse error for malformed YAML")
	}
}
