package streamparse

import "regexp"

// Rule is one entry of the pattern catalog: an anchored pattern and the kind
// it classifies to. Rules are grouped into buckets keyed by the final
// character of the raw sequence they match, giving O(1) bucket selection
// followed by a linear anchored-pattern scan within the bucket.
type Rule struct {
	Kind    ControlSequenceType
	Pattern *regexp.Regexp
}

// Catalog is the immutable, built-once multimap: final character -> ordered
// list of (kind, pattern). It is safe for concurrent read by many
// Classifiers/Parsers once built.
type Catalog struct {
	buckets map[rune][]Rule
}

// BuildCatalog constructs a Catalog as a pure function of an ordered rule
// list, keyed by the last rune of each rule's pattern bucket key. Exposing
// construction this way (rather than a process-wide mutable multimap
// populated by a static initializer, as the originating design used) lets a
// host build independent catalogs in tests without shared global state.
func BuildCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{buckets: make(map[rune][]Rule)}
	for _, e := range entries {
		c.buckets[e.Bucket] = append(c.buckets[e.Bucket], Rule{Kind: e.Kind, Pattern: e.Pattern})
	}
	return c
}

// CatalogEntry is a rule together with the bucket it files into. Bucket is
// computed by each rule family's constructor since it is derived
// differently per family (literal byte, final-chars set member, or fixed
// terminator); a registry rule pack builds these directly from its JSON
// description (family, private mode prefix, final characters, kind).
type CatalogEntry struct {
	Bucket  rune
	Kind    ControlSequenceType
	Pattern *regexp.Regexp
}

// builtinCatalog is the xterm/VT100/VT220/VT300 + Final Term catalog, built
// once and shared read-only across every Parser/Classifier that doesn't
// supply its own.
var builtinCatalog = BuildCatalog(builtinEntries())

func builtinEntries() []CatalogEntry {
	var entries []CatalogEntry
	entries = append(entries, scfEntries()...)
	entries = append(entries, escEntries()...)
	entries = append(entries, designateCharsetEntries()...)
	entries = append(entries, dcsEntries()...)
	entries = append(entries, csiEntries()...)
	entries = append(entries, oscEntries()...)
	return entries
}

func literal(b byte) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(string(rune(b))) + "$")
}

// scfEntries: the ten single-character C0 control functions, one literal
// byte each, bucketed on that same byte.
func scfEntries() []CatalogEntry {
	scf := []struct {
		b    byte
		kind ControlSequenceType
	}{
		{0x07, Bell},
		{0x08, Backspace},
		{0x0D, CR},
		{0x05, ReturnTerminalStatus},
		{0x0C, FormFeed},
		{0x0A, LineFeed},
		{0x0F, ShiftIn},
		{0x0E, ShiftOut},
		{0x09, HorizontalTab},
		{0x0B, VerticalTab},
	}
	out := make([]CatalogEntry, 0, len(scf))
	for _, s := range scf {
		out = append(out, CatalogEntry{Bucket: rune(s.b), Kind: s.kind, Pattern: literal(s.b)})
	}
	return out
}

// escSeq compiles an ESC-introduced pattern with no parameters: ESC followed
// by the literal tail bytes. Bucket is the tail's last byte.
func escSeq(kind ControlSequenceType, tail string) CatalogEntry {
	pat := regexp.MustCompile("^\x1b" + regexp.QuoteMeta(tail) + "$")
	return CatalogEntry{Bucket: rune(tail[len(tail)-1]), Kind: kind, Pattern: pat}
}

func escEntries() []CatalogEntry {
	specs := []struct {
		kind ControlSequenceType
		tail string
	}{
		{SevenBitControls, " F"},
		{EightBitControls, " G"},
		{SetAnsiConformanceLevel1, " L"},
		{SetAnsiConformanceLevel2, " M"},
		{SetAnsiConformanceLevel3, " N"},
		{DecDoubleHeightLineTopHalf, "#3"},
		{DecDoubleHeightLineBottomHalf, "#4"},
		{DecSingleWidthLine, "#5"},
		{DecDoubleWidthLine, "#6"},
		{DecScreenAlignmentTest, "#8"},
		{SelectDefaultCharacterSet, "%@"},
		{SelectUtf8CharacterSet, "%G"},
		{BackIndex, "6"},
		{SaveCursor, "7"},
		{RestoreCursor, "8"},
		{ForwardIndex, "9"},
		{ApplicationKeypad, "="},
		{NormalKeypad, ">"},
		{CursorToLowerLeftCornerOfScreen, "F"},
		{FullReset, "c"},
		{MemoryLock, "l"},
		{MemoryUnlock, "m"},
		{InvokeG2CharacterSetAsGL, "n"},
		{InvokeG3CharacterSetAsGL, "o"},
		{InvokeG3CharacterSetAsGR, "|"},
		{InvokeG2CharacterSetAsGR, "}"},
		{InvokeG1CharacterSetAsGR, "~"},
	}
	out := make([]CatalogEntry, 0, len(specs))
	for _, s := range specs {
		out = append(out, escSeq(s.kind, s.tail))
	}
	return out
}

// designateCharsetEntries implements the shared-regex designate family: a
// single compiled pattern per intermediate, registered into every final
// character's bucket that the charset-designation family accepts.
func designateCharsetEntries() []CatalogEntry {
	intermediates := []struct {
		intermediate string
		kind         ControlSequenceType
	}{
		{"(", DesignateG0CharacterSetVt100},
		{")", DesignateG1CharacterSetVt100},
		{"*", DesignateG2CharacterSetVt220},
		{"+", DesignateG3CharacterSetVt220},
		{"-", DesignateG1CharacterSetVt300},
		{".", DesignateG2CharacterSetVt300},
		{"/", DesignateG3CharacterSetVt300},
	}
	finals := []byte{'0', 'A', 'B', '4', 'C', '5', 'R', 'Q', 'K', 'Y', 'E', '6', 'Z', 'H', '7', '='}

	var out []CatalogEntry
	for _, im := range intermediates {
		finalClass := make([]byte, 0, len(finals))
		finalClass = append(finalClass, finals...)
		pat := regexp.MustCompile("^\x1b" + regexp.QuoteMeta(im.intermediate) + "[" + regexp.QuoteMeta(string(finalClass)) + "]$")
		for _, f := range finals {
			out = append(out, CatalogEntry{Bucket: rune(f), Kind: im.kind, Pattern: pat})
		}
	}
	return out
}

// dcsEntries implements the four DCS kinds, all bucketed on ST (0x9C). The
// three prefixed forms are registered before the unprefixed catch-all
// (USER_DEFINED_KEYS) so first-match in the bucket still picks the more
// specific kind when its prefix is present.
func dcsEntries() []CatalogEntry {
	dcsPattern := func(prefix string) *regexp.Regexp {
		return regexp.MustCompile(`^(?:\x1bP|\x90)` + regexp.QuoteMeta(prefix) + `(?s)(.*)\x9c$`)
	}
	return []CatalogEntry{
		{Bucket: 0x9C, Kind: RequestStatusString, Pattern: dcsPattern("$q")},
		{Bucket: 0x9C, Kind: SetTermcapData, Pattern: dcsPattern("+p")},
		{Bucket: 0x9C, Kind: RequestTermcapString, Pattern: dcsPattern("+q")},
		{Bucket: 0x9C, Kind: UserDefinedKeys, Pattern: dcsPattern("")},
	}
}

// csiEntries implements all CSI kinds. csiRule.private is the sequence's
// private-mode prefix (empty, "?", ">", "=", "!", "\"", "'", or a leading
// space), appearing before the parameter digits; final is the single final
// byte that selects the bucket.
type csiRule struct {
	private string
	final   byte
	kind    ControlSequenceType
}

// csiPattern builds the anchored pattern of one CSI rule. With an empty
// private mode the parameter payload may not start with a private-mode
// prefix character, so a plain rule never claims the prefixed variant that
// shares its final byte.
func csiPattern(private string, final byte) *regexp.Regexp {
	payload := `(?s)(.*)`
	if private == "" {
		payload = `(?s)((?:[^?>=!"' ].*)?)`
	}
	return regexp.MustCompile(`^(?:\x1b\[|\x9b)` + regexp.QuoteMeta(private) + payload + regexp.QuoteMeta(string(rune(final))) + `$`)
}

func csiEntries() []CatalogEntry {
	rules := []csiRule{
		{"", '@', InsertCharacters},
		{"", 'A', CursorUp},
		{"", 'B', CursorDown},
		{"", 'C', CursorForward},
		{"", 'D', CursorBackward},
		{"", 'E', CursorNextLine},
		{"", 'F', CursorPrecedingLine},
		{"", 'G', CursorCharacterAbsolute},
		{"", 'H', CursorPosition},
		{"", 'I', CursorForwardTabulation},
		{"", 'J', EraseInDisplayED},
		{"?", 'J', EraseInDisplayDECSED},
		{"", 'K', EraseInLineEL},
		{"?", 'K', EraseInLineDECSEL},
		{"", 'L', InsertLines},
		{"", 'M', DeleteLines},
		{"", 'P', DeleteCharacters},
		{"", 'S', ScrollUpLines},
		// SCROLL_DOWN_LINES and INITIATE_HIGHLIGHT_MOUSE_TRACKING share final
		// T with no private mode and an identical signature; bucket order
		// decides and SCROLL_DOWN_LINES wins (see DESIGN.md).
		{"", 'T', ScrollDownLines},
		{"", 'T', InitiateHighlightMouseTracking},
		{"", 'X', EraseCharacters},
		{"", 'Z', CursorBackwardTabulation},
		{"", '`', CharacterPositionAbsolute},
		{"", 'a', CharacterPositionForward},
		{"", 'b', RepeatPrecedingCharacter},
		{"", 'c', SendDeviceAttributesPrimary},
		{">", 'c', SendDeviceAttributesSecondary},
		{"=", 'c', SendDeviceAttributesTertiary},
		{"", 'd', LinePositionAbsolute},
		{"", 'e', LinePositionForward},
		{"", 'f', HorizontalAndVerticalPosition},
		{"", 'g', TabClear},
		{"", 'h', SetMode},
		{"?", 'h', DecPrivateModeSet},
		{"", 'i', MediaCopy},
		{"?", 'i', MediaCopyDEC},
		{"", 'l', ResetMode},
		{"?", 'l', DecPrivateModeReset},
		{"", 'm', CharacterAttributes},
		{">", 'm', SetKeyModifierOptions},
		{"", 'n', DeviceStatusReport},
		{"?", 'n', DeviceStatusReportDEC},
		{">", 'n', DisableKeyModifierOptions},
		{"!", 'p', SoftTerminalReset},
		{"\"", 'p', SetConformanceLevel},
		{"\"", 'q', SelectCharacterProtectionAttribute},
		{" ", 'q', CursorStyle},
		{"", 'r', SetScrollingRegion},
		{"?", 'r', RestoreDecPrivateModeValues},
		{"", 's', SaveCursorAnsiSys},
		{"?", 's', SaveDecPrivateModeValues},
		{"", 't', WindowManipulation},
		{">", 't', SetTitleMode},
		{"", 'u', RestoreCursorAnsiSys},
		{"'", '}', InsertColumns},
		{"'", '~', DeleteColumns},
		// Final Term shell-integration markers (vendor extension).
		{"?", 'Y', FinalTerm},
	}
	out := make([]CatalogEntry, 0, len(rules))
	for _, r := range rules {
		out = append(out, CatalogEntry{Bucket: rune(r.final), Kind: r.kind, Pattern: csiPattern(r.private, r.final)})
	}
	return out
}

// oscEntries implements the two standard OSC terminators (BEL, ST) plus the
// two-byte `ESC \` terminator: since that terminator's last byte is '\\'
// rather than ST, it needs its own bucket entry.
func oscEntries() []CatalogEntry {
	oscPattern := func(tail string) *regexp.Regexp {
		return regexp.MustCompile(`^(?:\x1b\]|\x9d)(?s)(.*)` + tail + `$`)
	}
	return []CatalogEntry{
		{Bucket: 0x07, Kind: SetTextParameters, Pattern: oscPattern(`\x07`)},
		{Bucket: 0x9C, Kind: SetTextParameters, Pattern: oscPattern(`\x9c`)},
		{Bucket: '\\', Kind: SetTextParameters, Pattern: oscPattern(`\x1b\\`)},
	}
}
