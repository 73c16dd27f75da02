package streamparse

import (
	"strings"
	"sync"
)

// Classifier maps a completed raw sequence to a ControlSequenceType and its
// ordered parameter list, by bucketing on the sequence's final character
// and trying each bucket rule in insertion order. It is a pure function of
// its catalog: Classify never mutates, and the built-in catalog is shared
// read-only across every Classifier unless Extend is called on a
// particular instance.
type Classifier struct {
	mu      sync.RWMutex
	buckets map[rune][]Rule
}

// NewClassifier returns a Classifier seeded with the built-in xterm/VT100
// catalog. Extend may be called afterward to register additional rule
// packs (see the registry package) without disturbing the built-in rules'
// first-match precedence.
func NewClassifier() *Classifier {
	c := &Classifier{buckets: make(map[rune][]Rule, len(builtinCatalog.buckets))}
	for k, v := range builtinCatalog.buckets {
		c.buckets[k] = append([]Rule(nil), v...)
	}
	return c
}

// Classify implements the classification algorithm: if the raw sequence's
// final character is not a bucket key, or no bucket rule matches, the
// result is (Unknown, nil).
func (c *Classifier) Classify(raw string) (ControlSequenceType, []string) {
	if raw == "" {
		return Unknown, nil
	}
	final := lastRune(raw)

	c.mu.RLock()
	rules := c.buckets[final]
	c.mu.RUnlock()

	for _, r := range rules {
		m := r.Pattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		if len(m) < 2 || m[1] == "" {
			return r.Kind, nil
		}
		return r.Kind, strings.Split(m[1], ";")
	}
	return Unknown, nil
}

// Extend appends a rule pack's compiled entries to this Classifier's
// buckets, after any already-present rules, so a registered extension kind
// is only reached once every built-in rule in the bucket has failed to
// match; built-ins always win a bucket collision.
func (c *Classifier) Extend(entries []CatalogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		c.buckets[e.Bucket] = append(c.buckets[e.Bucket], Rule{Kind: e.Kind, Pattern: e.Pattern})
	}
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
