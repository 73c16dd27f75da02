// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recorder

import (
	"path/filepath"
	"testing"

	"github.com/texelation/streamparse/streamparse"
)

func TestRecordAndReplayPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.sqlite")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	elems := []streamparse.StreamElement{
		streamparse.NewTextElement("hello "),
		streamparse.NewControlSequenceElement("\x1b[1;31m", streamparse.CharacterAttributes, []string{"1", "31"}),
		streamparse.NewTextElement("world"),
		streamparse.NewControlSequenceElement("\x1bc", streamparse.FullReset, nil),
	}

	for _, e := range elems {
		if err := r.Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := r.Replay(r.SessionID())
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(got) != len(elems) {
		t.Fatalf("Replay() returned %d elements, want %d", len(got), len(elems))
	}
	for i := range elems {
		if got[i].IsText != elems[i].IsText || got[i].Kind != elems[i].Kind ||
			got[i].RawText != elems[i].RawText || got[i].Text != elems[i].Text {
			t.Errorf("element[%d] = %#v, want %#v", i, got[i], elems[i])
		}
	}
}

func TestRecordAttachesToParser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.sqlite")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	p := streamparse.NewParser()
	p.OnElementAdded(func(e streamparse.StreamElement) {
		if err := r.Record(e); err != nil {
			t.Errorf("Record() error = %v", err)
		}
	})

	p.FeedString("hi\x1b[31mred\x1b[0m")

	got, err := r.Replay(r.SessionID())
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(got) != p.Store().Len() {
		t.Fatalf("Replay() returned %d elements, want %d matching the store", len(got), p.Store().Len())
	}
}

func TestDifferentSessionsDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.sqlite")

	r1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r1.Close()

	r2, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r2.Close()

	if err := r1.Record(streamparse.NewTextElement("from-1")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := r2.Record(streamparse.NewTextElement("from-2")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got1, err := r1.Replay(r1.SessionID())
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(got1) != 1 || got1[0].Text != "from-1" {
		t.Fatalf("session 1 replay = %v, want exactly [from-1]", got1)
	}
}
