// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/texelation/streamparse/streamparse"
)

const samplePack = `{
  "kinds": ["VENDOR_CUSTOM_1"],
  "rules": [
    {"family": "csi", "privateMode": "!", "finalChars": "z", "kind": "VENDOR_CUSTOM_1"}
  ]
}`

func writePack(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writePack: %v", err)
	}
	return path
}

func TestLoadAndApply(t *testing.T) {
	dir := t.TempDir()
	path := writePack(t, dir, "vendor.json", samplePack)

	r := New()
	if err := r.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", r.Count())
	}

	c := streamparse.NewClassifier()
	if err := r.Apply(c); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	kind, params := c.Classify("\x1b[!42z")
	if kind != "VENDOR_CUSTOM_1" {
		t.Fatalf("kind = %v, want VENDOR_CUSTOM_1", kind)
	}
	if len(params) != 1 || params[0] != "42" {
		t.Errorf("params = %v, want [42]", params)
	}
}

func TestApplyNeverShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()
	pack := `{
  "kinds": ["VENDOR_SGR_SHADOW"],
  "rules": [
    {"family": "csi", "finalChars": "m", "kind": "VENDOR_SGR_SHADOW"}
  ]
}`
	path := writePack(t, dir, "shadow.json", pack)

	r := New()
	if err := r.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	c := streamparse.NewClassifier()
	if err := r.Apply(c); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	kind, _ := c.Classify("\x1b[1m")
	if kind != streamparse.CharacterAttributes {
		t.Fatalf("kind = %v, want built-in CHARACTER_ATTRIBUTES to win", kind)
	}
}

func TestScanDirSkipsBadManifestsAndLoadsRest(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "good.json", samplePack)
	writePack(t, dir, "bad.json", "{not json")
	writePack(t, dir, "ignored.txt", "not a rule pack")

	r := New()
	if err := r.ScanDir(dir); err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 (bad.json should be skipped)", r.Count())
	}
}

func TestScanDirMissingDirectoryIsNotAnError(t *testing.T) {
	r := New()
	if err := r.ScanDir(filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Fatalf("ScanDir() error = %v, want nil", err)
	}
}
