package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
sources:
  - "src/*.bs"
  - "tests/*.bs"
strict: true
language:
  min_version: "1.2.0"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[0] != "src/*.bs" {
		t.Errorf("sources = %v", cfg.Sources)
	}
	if !cfg.Strict {
		t.Errorf("strict not set")
	}
	if v := cfg.MinVersion(); v == nil || v.String() != "1.2.0" {
		t.Errorf("min version = %v", v)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "*.bs" {
		t.Errorf("default sources = %v", cfg.Sources)
	}
	if cfg.Strict {
		t.Errorf("default strict = true")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "sources: [\"*.bs\"]\noutput_dir: build\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("unknown field accepted")
	}
}

func TestLoadRejectsBadVersion(t *testing.T) {
	path := writeConfig(t, "language:\n  min_version: \"not-a-version\"\n")
	_, err := Load(path)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCheckVersion(t *testing.T) {
	cfg := &Config{Language: LanguageConfig{MinVersion: "1.5.0"}}
	if err := cfg.CheckVersion(semver.MustParse("1.5.0")); err != nil {
		t.Errorf("equal version rejected: %v", err)
	}
	if err := cfg.CheckVersion(semver.MustParse("2.0.0")); err != nil {
		t.Errorf("newer toolchain rejected: %v", err)
	}
	if err := cfg.CheckVersion(semver.MustParse("1.4.9")); err == nil {
		t.Errorf("older toolchain accepted")
	}

	unset := &Config{}
	if err := unset.CheckVersion(semver.MustParse("0.1.0")); err != nil {
		t.Errorf("unset gate rejected toolchain: %v", err)
	}
}

func TestExpandSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.bs", "b.bs", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := &Config{Sources: []string{"*.bs", "a.bs"}}
	files, err := cfg.ExpandSources(dir)
	if err != nil {
		t.Fatalf("ExpandSources: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want a.bs and b.bs", files)
	}
	if filepath.Base(files[0]) != "a.bs" || filepath.Base(files[1]) != "b.bs" {
		t.Errorf("files = %v", files)
	}
}
