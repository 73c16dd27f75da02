package streamparse

import "strconv"

// ControlSequenceType tags a classified control sequence. It is string-backed
// rather than an int iota so that a Registry-provided rule pack (see the
// registry package) can introduce extension kinds without a parallel "is this
// built in" branch anywhere a kind is consumed: the classifier, the parameter
// accessors, and the wire protocol all treat built-in and extension kinds
// uniformly.
type ControlSequenceType string

// Single-character functions (C0 control codes).
const (
	Bell                    ControlSequenceType = "BELL"
	Backspace               ControlSequenceType = "BACKSPACE"
	CR                      ControlSequenceType = "CR"
	ReturnTerminalStatus    ControlSequenceType = "RETURN_TERMINAL_STATUS"
	FormFeed                ControlSequenceType = "FORM_FEED"
	LineFeed                ControlSequenceType = "LINE_FEED"
	ShiftIn                 ControlSequenceType = "SHIFT_IN"
	ShiftOut                ControlSequenceType = "SHIFT_OUT"
	HorizontalTab           ControlSequenceType = "HORIZONTAL_TAB"
	VerticalTab             ControlSequenceType = "VERTICAL_TAB"
)

// ESC sequences (VT100-mode).
const (
	SevenBitControls                  ControlSequenceType = "SEVEN_BIT_CONTROLS"
	EightBitControls                  ControlSequenceType = "EIGHT_BIT_CONTROLS"
	SetAnsiConformanceLevel1          ControlSequenceType = "SET_ANSI_CONFORMANCE_LEVEL_1"
	SetAnsiConformanceLevel2          ControlSequenceType = "SET_ANSI_CONFORMANCE_LEVEL_2"
	SetAnsiConformanceLevel3          ControlSequenceType = "SET_ANSI_CONFORMANCE_LEVEL_3"
	DecDoubleHeightLineTopHalf        ControlSequenceType = "DEC_DOUBLE_HEIGHT_LINE_TOP_HALF"
	DecDoubleHeightLineBottomHalf     ControlSequenceType = "DEC_DOUBLE_HEIGHT_LINE_BOTTOM_HALF"
	DecSingleWidthLine                ControlSequenceType = "DEC_SINGLE_WIDTH_LINE"
	DecDoubleWidthLine                ControlSequenceType = "DEC_DOUBLE_WIDTH_LINE"
	DecScreenAlignmentTest            ControlSequenceType = "DEC_SCREEN_ALIGNMENT_TEST"
	SelectDefaultCharacterSet         ControlSequenceType = "SELECT_DEFAULT_CHARACTER_SET"
	SelectUtf8CharacterSet            ControlSequenceType = "SELECT_UTF8_CHARACTER_SET"
	DesignateG0CharacterSetVt100      ControlSequenceType = "DESIGNATE_G0_CHARACTER_SET_VT100"
	DesignateG1CharacterSetVt100      ControlSequenceType = "DESIGNATE_G1_CHARACTER_SET_VT100"
	DesignateG2CharacterSetVt220      ControlSequenceType = "DESIGNATE_G2_CHARACTER_SET_VT220"
	DesignateG3CharacterSetVt220      ControlSequenceType = "DESIGNATE_G3_CHARACTER_SET_VT220"
	DesignateG1CharacterSetVt300      ControlSequenceType = "DESIGNATE_G1_CHARACTER_SET_VT300"
	DesignateG2CharacterSetVt300      ControlSequenceType = "DESIGNATE_G2_CHARACTER_SET_VT300"
	DesignateG3CharacterSetVt300      ControlSequenceType = "DESIGNATE_G3_CHARACTER_SET_VT300"
	BackIndex                         ControlSequenceType = "BACK_INDEX"
	SaveCursor                        ControlSequenceType = "SAVE_CURSOR"
	RestoreCursor                     ControlSequenceType = "RESTORE_CURSOR"
	ForwardIndex                      ControlSequenceType = "FORWARD_INDEX"
	ApplicationKeypad                 ControlSequenceType = "APPLICATION_KEYPAD"
	NormalKeypad                      ControlSequenceType = "NORMAL_KEYPAD"
	CursorToLowerLeftCornerOfScreen   ControlSequenceType = "CURSOR_TO_LOWER_LEFT_CORNER_OF_SCREEN"
	FullReset                         ControlSequenceType = "FULL_RESET"
	MemoryLock                        ControlSequenceType = "MEMORY_LOCK"
	MemoryUnlock                      ControlSequenceType = "MEMORY_UNLOCK"
	InvokeG1CharacterSetAsGR          ControlSequenceType = "INVOKE_G1_CHARACTER_SET_AS_GR"
	InvokeG2CharacterSetAsGL          ControlSequenceType = "INVOKE_G2_CHARACTER_SET_AS_GL"
	InvokeG2CharacterSetAsGR          ControlSequenceType = "INVOKE_G2_CHARACTER_SET_AS_GR"
	InvokeG3CharacterSetAsGL          ControlSequenceType = "INVOKE_G3_CHARACTER_SET_AS_GL"
	InvokeG3CharacterSetAsGR          ControlSequenceType = "INVOKE_G3_CHARACTER_SET_AS_GR"
)

// DCS sequences.
const (
	UserDefinedKeys        ControlSequenceType = "USER_DEFINED_KEYS"
	RequestStatusString    ControlSequenceType = "REQUEST_STATUS_STRING"
	SetTermcapData         ControlSequenceType = "SET_TERMCAP_DATA"
	RequestTermcapString   ControlSequenceType = "REQUEST_TERMCAP_STRING"
)

// CSI sequences. Where xterm overloads a final character across a plain and a
// private-mode-prefixed variant, both kinds are listed; see catalog.go for how
// the private-mode prefix disambiguates them.
const (
	InsertCharacters                  ControlSequenceType = "INSERT_CHARACTERS"
	CursorUp                          ControlSequenceType = "CURSOR_UP"
	CursorDown                        ControlSequenceType = "CURSOR_DOWN"
	CursorForward                     ControlSequenceType = "CURSOR_FORWARD"
	CursorBackward                    ControlSequenceType = "CURSOR_BACKWARD"
	CursorNextLine                    ControlSequenceType = "CURSOR_NEXT_LINE"
	CursorPrecedingLine               ControlSequenceType = "CURSOR_PRECEDING_LINE"
	CursorCharacterAbsolute           ControlSequenceType = "CURSOR_CHARACTER_ABSOLUTE"
	CursorPosition                    ControlSequenceType = "CURSOR_POSITION"
	CursorForwardTabulation           ControlSequenceType = "CURSOR_FORWARD_TABULATION"
	EraseInDisplayED                  ControlSequenceType = "ERASE_IN_DISPLAY_ED"
	EraseInDisplayDECSED              ControlSequenceType = "ERASE_IN_DISPLAY_DECSED"
	EraseInLineEL                     ControlSequenceType = "ERASE_IN_LINE_EL"
	EraseInLineDECSEL                 ControlSequenceType = "ERASE_IN_LINE_DECSEL"
	InsertLines                       ControlSequenceType = "INSERT_LINES"
	DeleteLines                       ControlSequenceType = "DELETE_LINES"
	DeleteCharacters                  ControlSequenceType = "DELETE_CHARACTERS"
	ScrollUpLines                     ControlSequenceType = "SCROLL_UP_LINES"
	ScrollDownLines                   ControlSequenceType = "SCROLL_DOWN_LINES"
	InitiateHighlightMouseTracking    ControlSequenceType = "INITIATE_HIGHLIGHT_MOUSE_TRACKING"
	EraseCharacters                   ControlSequenceType = "ERASE_CHARACTERS"
	CursorBackwardTabulation          ControlSequenceType = "CURSOR_BACKWARD_TABULATION"
	CharacterPositionAbsolute         ControlSequenceType = "CHARACTER_POSITION_ABSOLUTE"
	CharacterPositionForward          ControlSequenceType = "CHARACTER_POSITION_FORWARD"
	RepeatPrecedingCharacter          ControlSequenceType = "REPEAT_PRECEDING_CHARACTER"
	SendDeviceAttributesPrimary       ControlSequenceType = "SEND_DEVICE_ATTRIBUTES_PRIMARY"
	SendDeviceAttributesSecondary     ControlSequenceType = "SEND_DEVICE_ATTRIBUTES_SECONDARY"
	SendDeviceAttributesTertiary      ControlSequenceType = "SEND_DEVICE_ATTRIBUTES_TERTIARY"
	LinePositionAbsolute              ControlSequenceType = "LINE_POSITION_ABSOLUTE"
	LinePositionForward               ControlSequenceType = "LINE_POSITION_FORWARD"
	HorizontalAndVerticalPosition     ControlSequenceType = "HORIZONTAL_AND_VERTICAL_POSITION"
	TabClear                          ControlSequenceType = "TAB_CLEAR"
	SetMode                           ControlSequenceType = "SET_MODE"
	DecPrivateModeSet                 ControlSequenceType = "DEC_PRIVATE_MODE_SET"
	MediaCopy                         ControlSequenceType = "MEDIA_COPY"
	MediaCopyDEC                      ControlSequenceType = "MEDIA_COPY_DEC"
	ResetMode                         ControlSequenceType = "RESET_MODE"
	DecPrivateModeReset               ControlSequenceType = "DEC_PRIVATE_MODE_RESET"
	CharacterAttributes               ControlSequenceType = "CHARACTER_ATTRIBUTES"
	SetKeyModifierOptions             ControlSequenceType = "SET_KEY_MODIFIER_OPTIONS"
	DeviceStatusReport                ControlSequenceType = "DEVICE_STATUS_REPORT"
	DeviceStatusReportDEC             ControlSequenceType = "DEVICE_STATUS_REPORT_DEC"
	DisableKeyModifierOptions         ControlSequenceType = "DISABLE_KEY_MODIFIER_OPTIONS"
	SoftTerminalReset                 ControlSequenceType = "SOFT_TERMINAL_RESET"
	SetConformanceLevel               ControlSequenceType = "SET_CONFORMANCE_LEVEL"
	SelectCharacterProtectionAttribute ControlSequenceType = "SELECT_CHARACTER_PROTECTION_ATTRIBUTE"
	CursorStyle                       ControlSequenceType = "CURSOR_STYLE"
	SetScrollingRegion                ControlSequenceType = "SET_SCROLLING_REGION"
	RestoreDecPrivateModeValues       ControlSequenceType = "RESTORE_DEC_PRIVATE_MODE_VALUES"
	SaveCursorAnsiSys                 ControlSequenceType = "SAVE_CURSOR_ANSI_SYS"
	SaveDecPrivateModeValues          ControlSequenceType = "SAVE_DEC_PRIVATE_MODE_VALUES"
	WindowManipulation                ControlSequenceType = "WINDOW_MANIPULATION"
	SetTitleMode                      ControlSequenceType = "SET_TITLE_MODE"
	RestoreCursorAnsiSys              ControlSequenceType = "RESTORE_CURSOR_ANSI_SYS"
	InsertColumns                     ControlSequenceType = "INSERT_COLUMNS"
	DeleteColumns                     ControlSequenceType = "DELETE_COLUMNS"
)

// OSC sequences.
const SetTextParameters ControlSequenceType = "SET_TEXT_PARAMETERS"

// Vendor extension (Final Term shell-integration markers).
const FinalTerm ControlSequenceType = "FINAL_TERM"

// Unknown is used iff the final character does not index any catalog bucket,
// or no pattern in the indexed bucket matches.
const Unknown ControlSequenceType = "UNKNOWN"

// StreamElement is an immutable entry appended to a StreamStore: either a
// maximal run of non-control text, or a classified control sequence.
//
// Once constructed a StreamElement never mutates; RawText is always
// non-empty. IsText distinguishes the two cases instead of a nil-checkable
// field so the zero value can never be silently misread as "control
// sequence with no kind".
type StreamElement struct {
	IsText     bool
	Text       string
	RawText    string
	Kind       ControlSequenceType
	Parameters []string
}

// NewTextElement builds a Text stream element.
func NewTextElement(text string) StreamElement {
	return StreamElement{IsText: true, Text: text, RawText: text}
}

// NewControlSequenceElement builds a classified control-sequence element.
func NewControlSequenceElement(raw string, kind ControlSequenceType, params []string) StreamElement {
	return StreamElement{RawText: raw, Kind: kind, Parameters: params}
}

// NumericParameter returns the parsed decimal value of parameter i, or
// def if the index is out of range. A present-but-unparseable parameter
// returns 0.
func (e StreamElement) NumericParameter(i int, def int) int {
	if i < 0 || i >= len(e.Parameters) {
		return def
	}
	s := e.Parameters[i]
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// TextParameter returns parameter i, or def if the index is out of range.
func (e StreamElement) TextParameter(i int, def string) string {
	if i < 0 || i >= len(e.Parameters) {
		return def
	}
	return e.Parameters[i]
}
