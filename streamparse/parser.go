// Package streamparse classifies a pseudo-terminal's output stream into a
// typed, append-only sequence of stream elements: plain text runs, the ten
// C0 single-character functions, and xterm/VT100/VT220/VT300 escape, CSI,
// DCS, and OSC control sequences (plus the Final Term shell-integration
// vendor extension). It does not execute control functions, rewrite
// sequences, decode UTF-8, or model a screen; it only recognizes and
// tags what the stream contains.
package streamparse

// Parser wires a Splitter, a Classifier, and a StreamStore into the single
// entry point a host embeds: feed it characters, read back classified
// elements. A Parser instance owns its own state, buffer, and store; the
// built-in catalog underlying its Classifier is shared read-only with
// every other Parser unless Extend is called.
type Parser struct {
	classifier *Classifier
	store      *StreamStore
	splitter   *Splitter
}

// NewParser returns a ready-to-feed Parser. opts configure the underlying
// Splitter (transient text and classify-duration notifications).
func NewParser(opts ...Option) *Parser {
	store := NewStreamStore()
	classifier := NewClassifier()
	splitter := NewSplitter(store, classifier.Classify, opts...)
	return &Parser{classifier: classifier, store: store, splitter: splitter}
}

// Feed advances the parser by one character.
func (p *Parser) Feed(c rune) { p.splitter.Feed(c) }

// FeedString advances the parser by every rune of s, in order, then stores
// any text run still pending at the end of s (see Splitter.FeedString).
func (p *Parser) FeedString(s string) { p.splitter.FeedString(s) }

// Reset clears the splitter's parse state and buffer without emitting,
// leaving the store's already-appended elements untouched. Use this to
// recover from a stalled, unterminated sequence.
func (p *Parser) Reset() { p.splitter.Reset() }

// Store returns the parser's append-only element store.
func (p *Parser) Store() *StreamStore { return p.store }

// Classifier returns the parser's classifier, so a caller can Extend it
// with registry rule packs before feeding any input.
func (p *Parser) Classifier() *Classifier { return p.classifier }

// OnElementAdded registers a callback fired after every element is
// appended to the store, in append order.
func (p *Parser) OnElementAdded(f func(StreamElement)) { p.store.OnElementAdded(f) }
