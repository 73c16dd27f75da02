// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/manifest.go
// Summary: JSON rule pack manifest and compilation into catalog entries.

package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/texelation/streamparse/streamparse"
)

// Rule is one JSON-described catalog rule. Family selects the sequence
// shape (the same families the built-in catalog is built from); PrivateMode
// is the prefix appearing before the parameter digits (CSI/DCS only);
// FinalChars is the literal tail that closes the sequence, whose last byte
// selects the bucket.
type Rule struct {
	Family      string `json:"family"`
	PrivateMode string `json:"privateMode,omitempty"`
	FinalChars  string `json:"finalChars"`
	Kind        string `json:"kind"`
}

// RulePack is a manifest of vendor extension rules, loaded from a JSON
// file and compiled into streamparse.CatalogEntry values.
type RulePack struct {
	Kinds []string `json:"kinds"`
	Rules []Rule   `json:"rules"`
}

// LoadRulePack reads and parses a rule pack manifest from path.
func LoadRulePack(path string) (*RulePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule pack %s: %w", path, err)
	}
	var pack RulePack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse rule pack %s: %w", path, err)
	}
	return &pack, nil
}

// Compile turns every rule in the pack into a streamparse.CatalogEntry,
// building the same anchored-pattern shapes the built-in catalog uses per
// family, except that a csi rule with an empty PrivateMode accepts any
// parameter payload, including one that starts with a private-mode prefix
// character. An unknown family or an empty FinalChars is a programmer error
// in the manifest and is reported rather than silently skipped.
func (p *RulePack) Compile() ([]streamparse.CatalogEntry, error) {
	entries := make([]streamparse.CatalogEntry, 0, len(p.Rules))
	for _, r := range p.Rules {
		if r.FinalChars == "" {
			return nil, fmt.Errorf("rule pack: rule for kind %q has empty finalChars", r.Kind)
		}
		kind := streamparse.ControlSequenceType(r.Kind)
		bucket := rune(r.FinalChars[len(r.FinalChars)-1])

		var pattern *regexp.Regexp
		switch r.Family {
		case "scf":
			pattern = regexp.MustCompile("^" + regexp.QuoteMeta(r.FinalChars) + "$")
		case "esc":
			pattern = regexp.MustCompile(`^\x1b` + regexp.QuoteMeta(r.FinalChars) + `$`)
		case "csi":
			pattern = regexp.MustCompile(`^(?:\x1b\[|\x9b)` + regexp.QuoteMeta(r.PrivateMode) + `(?s)(.*)` + regexp.QuoteMeta(r.FinalChars) + `$`)
		case "dcs":
			pattern = regexp.MustCompile(`^(?:\x1bP|\x90)` + regexp.QuoteMeta(r.PrivateMode) + `(?s)(.*)\x9c$`)
			bucket = 0x9C
		case "osc":
			pattern = regexp.MustCompile(`^(?:\x1b\]|\x9d)(?s)(.*)` + regexp.QuoteMeta(r.FinalChars) + `$`)
		default:
			return nil, fmt.Errorf("rule pack: unknown family %q for kind %q", r.Family, r.Kind)
		}

		entries = append(entries, streamparse.CatalogEntry{Bucket: bucket, Kind: kind, Pattern: pattern})
	}
	return entries, nil
}
