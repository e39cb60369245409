package atto

// Status is the mutable back-channel described in 4.C: a handler may set
// its fields from within an event callback to influence how the tokenizer
// and auto-balancer behave on the next iteration, without requiring the
// parser to reparse anything. The parser owns the Status for the duration
// of a single Parse call and consults it after every dispatched event.
type Status struct {
	// limitSequence, when non-empty, disables structure recognition: the
	// tokenizer scans for a case-insensitive literal match of this
	// sequence and emits everything up to the match as a single text
	// event. It is set by the auto-balancer when opening a raw-text
	// element and cleared once the matching close is found.
	limitSequence string

	// autoOpenName, when non-empty, requests that the parser synthesize
	// an auto-open for the named element before processing the next
	// token.
	autoOpenName string

	// autoCloseRequested requests that the parser synthesize an
	// auto-close of the current stack top before processing the next
	// token.
	autoCloseRequested bool

	// avoidStackingOpenElement suppresses pushing the next opened
	// element onto the open-element stack.
	avoidStackingOpenElement bool
}

// SetLimitSequence arms raw-text mode: the tokenizer will treat everything
// up to the next case-insensitive occurrence of seq as opaque text.
func (s *Status) SetLimitSequence(seq string) { s.limitSequence = seq }

// LimitSequence returns the currently armed raw-text terminator, or "" if
// structure recognition is active.
func (s *Status) LimitSequence() string { return s.limitSequence }

// ClearLimitSequence disarms raw-text mode.
func (s *Status) ClearLimitSequence() { s.limitSequence = "" }

// RequestAutoOpen asks the parser to synthesize an auto-open of name
// before the next token is processed. Used by handlers that need to
// establish an implicit parent context (e.g. a <tr> seen outside <table>).
func (s *Status) RequestAutoOpen(name string) { s.autoOpenName = name }

// RequestAutoClose asks the parser to synthesize an auto-close of the
// current stack top before the next token is processed.
func (s *Status) RequestAutoClose() { s.autoCloseRequested = true }

// SuppressStacking prevents the next opened element from being pushed onto
// the open-element stack, without affecting whether its events are
// emitted.
func (s *Status) SuppressStacking() { s.avoidStackingOpenElement = true }

// consumeAutoOpen returns and clears the pending auto-open request, if
// any.
func (s *Status) consumeAutoOpen() (string, bool) {
	name := s.autoOpenName
	s.autoOpenName = ""
	return name, name != ""
}

// consumeAutoClose returns and clears the pending auto-close request.
func (s *Status) consumeAutoClose() bool {
	v := s.autoCloseRequested
	s.autoCloseRequested = false
	return v
}

// consumeSuppressStacking returns and clears the stacking-suppression
// flag.
func (s *Status) consumeSuppressStacking() bool {
	v := s.avoidStackingOpenElement
	s.avoidStackingOpenElement = false
	return v
}
