// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/registry.go
// Summary: Loads classifier rule packs from JSON manifests and applies
// them to a streamparse.Classifier.

package registry

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/texelation/streamparse/streamparse"
)

// Registry holds the rule packs loaded for a host process, keyed by the
// path they were loaded from.
type Registry struct {
	mu    sync.RWMutex
	packs map[string]*RulePack
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{packs: make(map[string]*RulePack)}
}

// Load reads a single rule pack manifest and adds it to the registry.
func (r *Registry) Load(path string) error {
	pack, err := LoadRulePack(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.packs[path] = pack
	r.mu.Unlock()
	log.Printf("Registry: loaded rule pack %s (%d rule(s), %d kind(s))", path, len(pack.Rules), len(pack.Kinds))
	return nil
}

// ScanDir loads every *.json file directly under dir as a rule pack,
// skipping (and logging) any file that fails to parse so one bad manifest
// doesn't block the rest.
func (r *Registry) ScanDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("Registry: rule pack directory does not exist: %s", dir)
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read rule pack directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := r.Load(path); err != nil {
			log.Printf("Registry: failed to load rule pack %s: %v", path, err)
		}
	}
	return nil
}

// Apply compiles every loaded rule pack and extends c with the result.
// Built-in catalog entries always win a bucket collision because
// Classifier.Extend appends after them; Apply never touches that
// ordering, it only adds to it.
func (r *Registry) Apply(c *streamparse.Classifier) error {
	r.mu.RLock()
	paths := make([]string, 0, len(r.packs))
	for path := range r.packs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	packs := make([]*RulePack, len(paths))
	for i, path := range paths {
		packs[i] = r.packs[path]
	}
	r.mu.RUnlock()

	for i, pack := range packs {
		entries, err := pack.Compile()
		if err != nil {
			return fmt.Errorf("compile rule pack %s: %w", paths[i], err)
		}
		c.Extend(entries)
	}
	return nil
}

// Count returns the number of loaded rule packs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.packs)
}
