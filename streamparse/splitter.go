package streamparse

import (
	"strings"
	"time"
)

type splitterState int

const (
	stateText splitterState = iota
	stateControlCharacter
	stateEscape
	stateDCS
	stateCSI
	stateOSC
)

const (
	escRune = 0x1B
	dcsRune = 0x90
	csiRune = 0x9B
	oscRune = 0x9D
	belRune = 0x07
	stRune  = 0x9C
)

var c0Set = map[rune]bool{
	0x07: true, 0x08: true, 0x0D: true, 0x05: true, 0x0C: true,
	0x0A: true, 0x0F: true, 0x0E: true, 0x09: true, 0x0B: true,
}

// escEndSet is the set of 7-bit ESC terminal characters that close an
// ESCAPE_SEQUENCE (everything except P, [, ] which route into DCS/CSI/OSC
// instead of terminating). Several of these characters have no catalog
// entry of their own and classify UNKNOWN; the splitter only needs to know
// where the envelope ends, not what it means.
var escEndSet = buildEscEndSet()

func buildEscEndSet() map[rune]bool {
	finals := []rune{
		// Standalone ESC-introduced control functions (IND, NEL, HTS, RI,
		// SS2, SS3, SPA, EPA, SOS, DECID, ST, PM, APC): terminators for
		// splitting purposes even though none of them has its own catalog
		// entry, so they classify UNKNOWN.
		'D', 'E', 'H', 'M', 'N', 'O', 'V', 'W', 'X', 'Z', '\\', '^', '_',
		// SEVEN/EIGHT_BIT_CONTROLS, ANSI conformance levels.
		'F', 'G', 'L',
		// DEC line attributes and screen alignment test finals.
		'3', '4', '5', '6', '8',
		// Character set selection finals.
		'@',
		// Designate character set finals (G0-G3 x VT100/VT220/VT300).
		'0', 'A', 'B', 'C', 'R', 'Q', 'K', 'Y', 'E', 'Z', 'H', '7', '=',
		// Back/forward index, save/restore cursor.
		'9',
		// Keypad mode.
		'>',
		// Cursor to lower-left, full reset, memory lock/unlock, invoke
		// G1-G3 as GL/GR.
		'c', 'l', 'm', 'n', 'o', '|', '}', '~',
	}
	set := make(map[rune]bool, len(finals))
	for _, c := range finals {
		set[c] = true
	}
	return set
}

// ClassifyFunc classifies a completed raw sequence into a kind and its
// parameter list; see Classifier.Classify.
type ClassifyFunc func(raw string) (ControlSequenceType, []string)

// Option configures a Splitter at construction time.
type Option func(*Splitter)

// WithTransientTextHandler registers a callback invoked with the current
// text-run buffer every time it grows by one character while in the TEXT
// state. No transient notification fires for control sequences.
func WithTransientTextHandler(f func(string)) Option {
	return func(s *Splitter) { s.onTransient = f }
}

// WithClassifyDurationHandler registers a callback invoked with the time
// spent in classify for every completed control sequence (not for text
// runs, which never reach classify).
func WithClassifyDurationHandler(f func(time.Duration)) Option {
	return func(s *Splitter) { s.onClassifyDuration = f }
}

// Splitter is the character-fed state machine that carves an input stream
// into maximal, non-overlapping raw sequences, classifies each completed
// sequence, and appends the resulting StreamElement to its Store.
type Splitter struct {
	state         splitterState
	buf           strings.Builder
	oscEscPending bool

	store              *StreamStore
	classify           ClassifyFunc
	onTransient        func(string)
	onClassifyDuration func(time.Duration)
}

// NewSplitter builds a Splitter that appends classified elements to store,
// using classify to identify completed control sequences.
func NewSplitter(store *StreamStore, classify ClassifyFunc, opts ...Option) *Splitter {
	s := &Splitter{state: stateText, store: store, classify: classify}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset clears parse_state back to TEXT and empties the sequence builder
// without emitting, for host-driven recovery from a stalled unterminated
// sequence. The splitter itself never fails or times out; recovery is the
// caller's call to make.
func (s *Splitter) Reset() {
	s.state = stateText
	s.buf.Reset()
	s.oscEscPending = false
}

// Feed advances the state machine by one character. It never fails, and
// produces zero or one transient text notification and zero or one
// appended StreamElement, or two when a C0 control character closes a
// pending text run (the text run first, then the control character).
func (s *Splitter) Feed(c rune) {
	switch s.state {
	case stateText:
		s.feedText(c)
	case stateEscape:
		s.feedEscape(c)
	case stateDCS:
		s.buf.WriteRune(c)
		if c == stRune {
			s.emit()
			s.state = stateText
		}
	case stateCSI:
		s.buf.WriteRune(c)
		if c >= 0x40 && c <= 0x7E {
			s.emit()
			s.state = stateText
		}
	case stateOSC:
		s.feedOSC(c)
	}
}

// FeedString feeds every rune of text in order, then emits the text run
// still pending at the end of text, if any, so input that ends in plain
// text leaves that text as a stored Text element. A control sequence still
// open at the end of text stays open. Feed alone never closes a text run;
// plain text split across two FeedString calls is stored as two elements.
func (s *Splitter) FeedString(text string) {
	for _, c := range text {
		s.Feed(c)
	}
	if s.state == stateText {
		s.emit()
	}
}

func (s *Splitter) feedText(c rune) {
	switch {
	case c0Set[c]:
		s.emit()
		s.buf.WriteRune(c)
		s.state = stateControlCharacter
		s.emit()
		s.state = stateText
	case c == escRune:
		s.emit()
		s.buf.WriteRune(c)
		s.state = stateEscape
	case c == dcsRune:
		s.emit()
		s.buf.WriteRune(c)
		s.state = stateDCS
	case c == csiRune:
		s.emit()
		s.buf.WriteRune(c)
		s.state = stateCSI
	case c == oscRune:
		s.emit()
		s.buf.WriteRune(c)
		s.state = stateOSC
	default:
		s.buf.WriteRune(c)
		if s.onTransient != nil {
			s.onTransient(s.buf.String())
		}
	}
}

func (s *Splitter) feedEscape(c rune) {
	switch c {
	case 'P':
		s.buf.WriteRune(c)
		s.state = stateDCS
	case '[':
		s.buf.WriteRune(c)
		s.state = stateCSI
	case ']':
		s.buf.WriteRune(c)
		s.state = stateOSC
	default:
		s.buf.WriteRune(c)
		if escEndSet[c] {
			s.emit()
			s.state = stateText
		}
	}
}

// feedOSC additionally recognizes the two-byte ESC \ terminator alongside
// the standard BEL and ST terminators: an ESC seen while in OSC does not by
// itself close the sequence, but marks a one-character lookahead so the
// very next character can be tested for '\\'.
func (s *Splitter) feedOSC(c rune) {
	s.buf.WriteRune(c)
	if s.oscEscPending {
		s.oscEscPending = false
		if c == '\\' {
			s.emit()
			s.state = stateText
		}
		return
	}
	switch c {
	case belRune, stRune:
		s.emit()
		s.state = stateText
	case escRune:
		s.oscEscPending = true
	}
}

// emit constructs a StreamElement from the buffer (Text if the current
// state is TEXT, a classified ControlSequence otherwise), appends it to the
// store, and clears the buffer. A no-op on an empty buffer. emit never
// changes parse_state; the caller handles that in the transitions above.
func (s *Splitter) emit() {
	if s.buf.Len() == 0 {
		return
	}
	raw := s.buf.String()
	s.buf.Reset()

	var elem StreamElement
	if s.state == stateText {
		elem = NewTextElement(raw)
	} else {
		start := time.Now()
		kind, params := s.classify(raw)
		if s.onClassifyDuration != nil {
			s.onClassifyDuration(time.Since(start))
		}
		elem = NewControlSequenceElement(raw, kind, params)
	}
	s.store.Append(elem)
}
