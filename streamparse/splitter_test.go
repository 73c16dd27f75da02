package streamparse

import (
	"testing"
	"time"
)

// identityClassify is a stand-in classifier for tests that only care about
// splitter boundaries, not catalog semantics.
func identityClassify(raw string) (ControlSequenceType, []string) {
	return Unknown, nil
}

func TestSplitterTextUninterrupted(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	s.FeedString("plain text")

	if store.Len() != 1 || !store.Get(0).IsText || store.Get(0).Text != "plain text" {
		t.Fatalf("got %#v, want single Text element", store.All())
	}
}

func TestSplitterNoElementWhileSequenceOpen(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	s.FeedString("\x1b[31")

	if store.Len() != 0 {
		t.Fatalf("got %d elements with an unterminated CSI, want 0", store.Len())
	}
}

func TestSplitterCSITerminatesOnFinalByteRange(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	s.FeedString("\x1b[31m")

	if store.Len() != 1 || store.Get(0).RawText != "\x1b[31m" {
		t.Fatalf("got %#v, want one element with raw text \\x1b[31m", store.All())
	}
}

func TestSplitterReset(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	s.FeedString("\x1b[3")
	s.Reset()
	s.FeedString("done")

	if store.Len() != 1 || store.Get(0).Text != "done" {
		t.Fatalf("got %#v, want single Text \"done\" after Reset", store.All())
	}
}

func TestSplitterOSCBELTerminator(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	s.FeedString("\x1b]0;t\x07")

	if store.Len() != 1 || store.Get(0).RawText != "\x1b]0;t\x07" {
		t.Fatalf("got %#v, want one element terminated by BEL", store.All())
	}
}

func TestSplitterOSCSTTerminator(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	s.FeedString("\x1b]0;t\u009c")

	if store.Len() != 1 || store.Get(0).RawText != "\x1b]0;t\u009c" {
		t.Fatalf("got %#v, want one element terminated by ST", store.All())
	}
}

func TestSplitterOSCEscNotFollowedByBackslashStaysOpen(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	// An ESC inside OSC not immediately followed by '\\' does not terminate.
	s.FeedString("\x1b]0;t\x1bX")

	if store.Len() != 0 {
		t.Fatalf("got %d elements, want 0 (sequence still open)", store.Len())
	}
	s.FeedString("\u009c")
	if store.Len() != 1 {
		t.Fatalf("got %d elements after ST, want 1", store.Len())
	}
}

func TestSplitterTransientTextNotFiredForControlSequences(t *testing.T) {
	store := NewStreamStore()
	var transientCount int
	s := NewSplitter(store, identityClassify, WithTransientTextHandler(func(string) {
		transientCount++
	}))
	s.FeedString("\x1b[31m")

	if transientCount != 0 {
		t.Fatalf("transient fired %d times for a control sequence, want 0", transientCount)
	}
}

func TestSplitterClassifyDurationFiresOncePerControlSequence(t *testing.T) {
	store := NewStreamStore()
	var durations int
	s := NewSplitter(store, identityClassify, WithClassifyDurationHandler(func(d time.Duration) {
		durations++
	}))
	s.FeedString("\x1b[31mplain text")

	if durations != 1 {
		t.Fatalf("classify duration fired %d times, want 1", durations)
	}
}

func TestSplitterEmitIsNoOpOnEmptyBuffer(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	s.emit()

	if store.Len() != 0 {
		t.Fatalf("got %d elements from emit() on empty buffer, want 0", store.Len())
	}
}

func TestSplitterNoControlByteLeaksIntoText(t *testing.T) {
	store := NewStreamStore()
	s := NewSplitter(store, identityClassify)
	s.FeedString("ab\x07cd")

	all := store.All()
	for _, e := range all {
		if e.IsText {
			for _, r := range e.Text {
				if c0Set[r] {
					t.Fatalf("text element %q contains a C0 control byte", e.Text)
				}
			}
		}
	}
}
