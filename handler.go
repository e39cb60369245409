package atto

// Selection is an opaque per-parse context a handler chain can use to
// coordinate state across calls (for example, a selector-filtering
// collaborator recording which elements are currently "of interest"). The
// parser never reads or writes its contents; it only allocates one per
// Parse call and offers it to handlers that ask for it.
type Selection struct {
	values map[string]interface{}
}

// NewSelection returns an empty Selection.
func NewSelection() *Selection {
	return &Selection{values: make(map[string]interface{})}
}

// Get returns a value previously stored under key.
func (s *Selection) Get(key string) (interface{}, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key.
func (s *Selection) Set(key string, v interface{}) {
	s.values[key] = v
}

// Handler is the event interface described in 6. Every method receives a
// borrowed view of the parser's buffer (via the Partition arguments, or
// directly for Text/InnerWhiteSpace); that view is invalid once the method
// returns, since the buffer may shift or refill before the next call.
// Implementations must copy any substring they intend to retain.
//
// A nil error return means "continue"; any non-nil error is a fatal abort
// (HandlerError, 7) propagated from Parse.
type Handler interface {
	DocumentStart(startTimeNanos int64, line, col int) error
	DocumentEnd(endTimeNanos, totalTimeNanos int64, line, col int) error

	XMLDeclaration(buf []byte, keyword, version, encoding, standalone, outer Partition) error
	DocType(buf []byte, keyword, elementName, typ, publicID, systemID, internalSubset, outer Partition) error

	CDATASection(buf []byte, content, outer Partition) error
	Comment(buf []byte, content, outer Partition) error
	ProcessingInstruction(buf []byte, target, content, outer Partition) error

	Text(buf []byte, content Partition) error
	InnerWhiteSpace(buf []byte, content Partition) error

	StandaloneElementStart(buf []byte, name Partition, minimized bool) error
	StandaloneElementEnd(buf []byte, name Partition, minimized bool) error

	OpenElementStart(buf []byte, name Partition) error
	OpenElementEnd(buf []byte, name Partition) error
	CloseElementStart(buf []byte, name Partition) error
	CloseElementEnd(buf []byte, name Partition) error

	Attribute(buf []byte, name, operator, valueContent, valueOuter Partition) error

	// AutoOpenElementStart/End and AutoCloseElementStart/End report
	// synthetic events injected by the auto-balancer; they have no
	// backing source text, so they carry the element name directly
	// rather than a Partition, plus the line/col at which they were
	// synthesized so the monotonic-position property still holds across
	// synthetic and real events alike.
	AutoOpenElementStart(name string, line, col int) error
	AutoOpenElementEnd(name string, line, col int) error
	AutoCloseElementStart(name string, line, col int) error
	AutoCloseElementEnd(name string, line, col int) error

	// UnmatchedCloseElementStart/End report a real </name> close tag
	// (backed by source text) that did not match anything on the open
	// stack.
	UnmatchedCloseElementStart(buf []byte, name Partition) error
	UnmatchedCloseElementEnd(buf []byte, name Partition) error
}

// ConfigAware, StatusAware, SelectionAware, ParserAware, and ChainAware
// are the optional back-channel setters from 4.I. The parser calls each,
// in this order, before the first event, but only on handlers that
// implement them -- most handlers need none of them, so unlike Handler
// they are not part of the required interface.
type ConfigAware interface{ SetParseConfiguration(*Config) }
type StatusAware interface{ SetParseStatus(*Status) }
type SelectionAware interface{ SetParseSelection(*Selection) }
type ParserAware interface{ SetParser(*Parser) }
type ChainAware interface{ SetHandlerChain([]Handler) }

func wireBackChannel(h Handler, cfg *Config, st *Status, sel *Selection, p *Parser, chain []Handler) {
	if a, ok := h.(ConfigAware); ok {
		a.SetParseConfiguration(cfg)
	}
	if a, ok := h.(StatusAware); ok {
		a.SetParseStatus(st)
	}
	if a, ok := h.(SelectionAware); ok {
		a.SetParseSelection(sel)
	}
	if a, ok := h.(ParserAware); ok {
		a.SetParser(p)
	}
	if a, ok := h.(ChainAware); ok {
		a.SetHandlerChain(chain)
	}
}
