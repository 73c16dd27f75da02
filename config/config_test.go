// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	want := Default()
	if got.Record != want.Record || got.RecorderDSN != want.RecorderDSN {
		t.Fatalf("got %#v, want default %#v", got, want)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Config{
		RulePacks:   []string{"vendor.json"},
		Record:      false,
		RecorderDSN: "custom.sqlite",
		MetricsAddr: ":9090",
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := Load(path)
	if len(got.RulePacks) != 1 || got.RulePacks[0] != "vendor.json" {
		t.Errorf("RulePacks = %v, want [vendor.json]", got.RulePacks)
	}
	if got.Record != false || got.RecorderDSN != "custom.sqlite" || got.MetricsAddr != ":9090" {
		t.Errorf("got %#v, want round-tripped %#v", got, cfg)
	}
}

func TestLoadMalformedJSONFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("setup error = %v", err)
	}

	got := Load(path)
	if got.RecorderDSN != Default().RecorderDSN {
		t.Fatalf("got %#v, want default", got)
	}
}
