package atto

import (
	"io"
	"strings"
	"time"

	"golang.org/x/net/html/atom"
)

// Parser is the parser core described in 4.H: it owns the buffer, the
// open-element stack, and the mutable status for the duration of a single
// Parse call, drives the tokenizer, and dispatches recognized structures
// to a Handler, consulting the auto-balancer when the configured dialect
// is HTML. A Parser is not reentrant for concurrent Parse calls; separate
// Parser values are independent (5).
type Parser struct {
	cfg       *Config
	status    *Status
	selection *Selection
	handler   Handler
	buf       *Buffer
	stack     elementStack

	sawRootOpen     bool
	sawDocType      bool
	sawXMLDecl      bool
	topLevelOpens   int
}

// NewParser constructs a Parser bound to cfg. A nil cfg defaults to lenient
// HTML.
func NewParser(cfg *Config) *Parser {
	if cfg == nil {
		cfg = NewHTMLConfig()
	}
	return &Parser{cfg: cfg}
}

// Parse is the parser core's only entrypoint (4.H): it wires config,
// status, selection, and the handler chain, then drains source to
// completion, dispatching every recognized structure to handler in strict
// source order. It returns the first fatal error raised by tokenization,
// configuration validation, or the handler itself; no event is emitted
// after a fatal error (7).
func Parse(source io.Reader, handler Handler, cfg *Config) error {
	return NewParser(cfg).Parse(source, handler)
}

func (p *Parser) Parse(source io.Reader, handler Handler) error {
	p.status = &Status{}
	p.selection = NewSelection()
	p.handler = handler
	p.buf = NewBuffer(source)
	p.stack = elementStack{}

	wireBackChannel(handler, p.cfg, p.status, p.selection, p, []Handler{handler})

	start := time.Now()
	if err := p.call(handler.DocumentStart(start.UnixNano(), 1, 1)); err != nil {
		return err
	}

	for {
		if err := p.enactStatusDirectives(); err != nil {
			return err
		}
		tok, err := p.next()
		if err != nil {
			return asParseError(err, p.buf.Line(), p.buf.Col())
		}
		if tok.kind == tokEOF {
			break
		}
		if err := p.dispatch(tok); err != nil {
			return err
		}
	}

	if err := p.drainStack(); err != nil {
		return err
	}
	if err := p.checkDocumentEndPolicy(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	return p.call(handler.DocumentEnd(time.Now().UnixNano(), elapsed.Nanoseconds(), p.buf.Line(), p.buf.Col()))
}

// call wraps a non-nil handler-returned error as a HandlerError carrying
// the parser's current position (7).
func (p *Parser) call(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ParseError); ok {
		return err
	}
	return handlerErr(p.buf.Line(), p.buf.Col(), err)
}

// asParseError ensures a tokenizer-raised error carries ParseError
// position/kind information even if it bubbled up as a plain error (e.g.
// an I/O error from the underlying source).
func asParseError(err error, line, col int) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	return malformedStructureErr(line, col, "%v", err)
}

// enactStatusDirectives applies any pending handler-requested auto-open or
// auto-close before the next token is tokenized, per 4.H step 2.
func (p *Parser) enactStatusDirectives() error {
	if name, ok := p.status.consumeAutoOpen(); ok {
		if err := p.emitAutoOpen(name); err != nil {
			return err
		}
	}
	if p.status.consumeAutoClose() {
		if top, ok := p.stack.top(); ok {
			p.stack.pop()
			line, col := p.buf.Line(), p.buf.Col()
			if err := p.emitAutoClose(top, line, col); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Parser) dispatch(tok token) error {
	switch tok.kind {
	case tokComment:
		if err := p.checkProlog(tok.comment.outer.Line, tok.comment.outer.Col); err != nil {
			return err
		}
		return p.call(p.handler.Comment(p.buf.Bytes(), tok.comment.content, tok.comment.outer))
	case tokCDATA:
		return p.call(p.handler.CDATASection(p.buf.Bytes(), tok.cdata.content, tok.cdata.outer))
	case tokPI:
		if err := p.checkProlog(tok.pi.outer.Line, tok.pi.outer.Col); err != nil {
			return err
		}
		return p.call(p.handler.ProcessingInstruction(p.buf.Bytes(), tok.pi.target, tok.pi.content, tok.pi.outer))
	case tokDocType:
		return p.dispatchDocType(tok.doctype)
	case tokXMLDecl:
		return p.dispatchXMLDecl(tok.xmldecl)
	case tokText:
		if err := p.closeColgroupOnText(tok.text.content); err != nil {
			return err
		}
		return p.call(p.handler.Text(p.buf.Bytes(), tok.text.content))
	case tokTag:
		return p.dispatchTag(tok.tag)
	}
	return nil
}

func (p *Parser) checkProlog(line, col int) error {
	if p.sawRootOpen {
		return nil
	}
	if p.cfg.PrologPresence == Forbidden {
		return configurationViolationErr(line, col, "prolog content forbidden by configuration")
	}
	return nil
}

func (p *Parser) dispatchDocType(d docTypeToken) error {
	if p.cfg.DoctypePresence == Forbidden {
		return configurationViolationErr(d.outer.Line, d.outer.Col, "DOCTYPE forbidden by configuration")
	}
	if err := p.checkProlog(d.outer.Line, d.outer.Col); err != nil {
		return err
	}
	p.sawDocType = true
	return p.call(p.handler.DocType(p.buf.Bytes(), d.keyword, d.elementName, d.typ, d.publicID, d.systemID, d.internalSubset, d.outer))
}

func (p *Parser) dispatchXMLDecl(d xmlDeclToken) error {
	if p.cfg.XMLDeclarationPresence == Forbidden {
		return configurationViolationErr(d.outer.Line, d.outer.Col, "XML declaration forbidden by configuration")
	}
	if err := p.checkProlog(d.outer.Line, d.outer.Col); err != nil {
		return err
	}
	p.sawXMLDecl = true
	return p.call(p.handler.XMLDeclaration(p.buf.Bytes(), d.keyword, d.version, d.encoding, d.standalone, d.outer))
}

func (p *Parser) dispatchTag(tok tagToken) error {
	buf := p.buf.Bytes()
	nameLower := lowerCopy(buf, tok.name)
	desc, a := descriptorFor(p.cfg, nameLower)

	if tok.isClose {
		return p.dispatchCloseTag(tok, string(nameLower))
	}
	return p.dispatchOpenTag(tok, desc, a, nameLower)
}

func (p *Parser) dispatchOpenTag(tok tagToken, desc *ElementDescriptor, a atom.Atom, nameLower []byte) error {
	buf := p.buf.Bytes()

	isVoid := desc != nil && desc.IsVoid
	minimized := tok.selfClosing
	standalone := minimized || (p.cfg.Dialect == HTML && isVoid)

	if p.cfg.UniqueRootPresence == RootRequired && p.stack.empty() {
		p.topLevelOpens++
		if p.topLevelOpens > 1 {
			return configurationViolationErr(tok.name.Line, tok.name.Col, "more than one root element")
		}
	}
	p.sawRootOpen = true

	if standalone {
		if err := p.call(p.handler.StandaloneElementStart(buf, tok.name, minimized)); err != nil {
			return err
		}
		if err := p.dispatchAttrsAndWS(tok); err != nil {
			return err
		}
		return p.call(p.handler.StandaloneElementEnd(p.buf.Bytes(), tok.name, minimized))
	}

	if p.cfg.Dialect == HTML && p.cfg.ElementBalancing == BalancingAutoOpenAndClose {
		for _, e := range p.stack.popImplicitClosures(a) {
			if err := p.emitAutoClose(e, tok.name.Line, tok.name.Col); err != nil {
				return err
			}
		}
	}

	if err := p.call(p.handler.OpenElementStart(buf, tok.name)); err != nil {
		return err
	}
	if err := p.dispatchAttrsAndWS(tok); err != nil {
		return err
	}
	if err := p.call(p.handler.OpenElementEnd(p.buf.Bytes(), tok.name)); err != nil {
		return err
	}

	suppress := p.status.consumeSuppressStacking()
	if p.cfg.ElementBalancing != BalancingNone && !suppress {
		p.stack.push(stackEntry{name: string(nameLower), atom: a})
	}

	if desc != nil && (desc.IsRawText || desc.IsEscapableRawText) {
		p.status.SetLimitSequence("</" + string(nameLower) + ">")
	}
	return nil
}

func (p *Parser) dispatchCloseTag(tok tagToken, name string) error {
	buf := p.buf.Bytes()

	if p.cfg.ElementBalancing == BalancingNone {
		if err := p.call(p.handler.CloseElementStart(buf, tok.name)); err != nil {
			return err
		}
		if err := p.dispatchAttrsAndWS(tok); err != nil {
			return err
		}
		return p.call(p.handler.CloseElementEnd(p.buf.Bytes(), tok.name))
	}

	top, hasTop := p.stack.top()
	idx := p.stack.indexOf(name)

	switch {
	case hasTop && top.name == name:
		p.stack.pop()
	case idx >= 0:
		if !p.cfg.lenient() {
			return unexpectedStructureErr(tok.name.Line, tok.name.Col, "close tag %q does not match open element %q", name, top.name)
		}
		for _, e := range p.stack.popAbove(idx) {
			if err := p.emitAutoClose(e, tok.name.Line, tok.name.Col); err != nil {
				return err
			}
		}
		p.stack.pop()
	default:
		if !p.cfg.lenient() && p.cfg.NoUnmatchedCloseElementsRequired {
			return unexpectedStructureErr(tok.name.Line, tok.name.Col, "unmatched close tag %q", name)
		}
		if err := p.call(p.handler.UnmatchedCloseElementStart(buf, tok.name)); err != nil {
			return err
		}
		if err := p.dispatchAttrsAndWS(tok); err != nil {
			return err
		}
		return p.call(p.handler.UnmatchedCloseElementEnd(p.buf.Bytes(), tok.name))
	}

	p.status.ClearLimitSequence()
	if err := p.call(p.handler.CloseElementStart(buf, tok.name)); err != nil {
		return err
	}
	if err := p.dispatchAttrsAndWS(tok); err != nil {
		return err
	}
	return p.call(p.handler.CloseElementEnd(p.buf.Bytes(), tok.name))
}

func (p *Parser) dispatchAttrsAndWS(tok tagToken) error {
	var seen map[string]bool
	if p.cfg.UniqueAttributesRequired {
		seen = make(map[string]bool)
	}
	for _, part := range tok.parts {
		buf := p.buf.Bytes()
		if part.isWhitespace {
			if err := p.call(p.handler.InnerWhiteSpace(buf, part.ws)); err != nil {
				return err
			}
			continue
		}
		if seen != nil {
			key := part.name.String(buf)
			if !p.cfg.CaseSensitive {
				key = strings.ToLower(key)
			}
			if seen[key] {
				return configurationViolationErr(part.name.Line, part.name.Col, "duplicate attribute %q", key)
			}
			seen[key] = true
		}
		if err := p.call(p.handler.Attribute(buf, part.name, part.operator, part.valueContent, part.valueOuter)); err != nil {
			return err
		}
	}
	return nil
}

// closeColgroupOnText implements the one half of the "<colgroup> contains
// nothing but <col> and whitespace" rule (SPEC_FULL.md §5) that
// closesOnOpen cannot express, since closesOnOpen is only ever consulted
// against an incoming tag atom and text has none. <caption> is not covered
// here: unlike <colgroup>, it legitimately holds text content, so it is
// only closed by the table-structural tags closesOnOpen already lists.
func (p *Parser) closeColgroupOnText(content Partition) error {
	if p.cfg.Dialect != HTML || p.cfg.ElementBalancing != BalancingAutoOpenAndClose {
		return nil
	}
	top, ok := p.stack.top()
	if !ok || top.atom != atom.Colgroup {
		return nil
	}
	if isAllWhitespace(content.Slice(p.buf.Bytes())) {
		return nil
	}
	p.stack.pop()
	return p.emitAutoClose(top, content.Line, content.Col)
}

func isAllWhitespace(b []byte) bool {
	for _, c := range b {
		if !isWS(c) {
			return false
		}
	}
	return true
}

// emitAutoClose reports a synthetic close for e at (line, col). Callers pass
// the position of whatever real structure triggered the auto-close (the
// incoming open tag, the matching close tag, or the current read head at
// document end) rather than the parser's current position, since
// tokenization has already fully consumed that triggering structure by the
// time dispatch runs -- using the live buffer position here would report
// the synthetic event after the real one it logically precedes, breaking
// the monotonic-position guarantee (3).
func (p *Parser) emitAutoClose(e stackEntry, line, col int) error {
	if err := p.call(p.handler.AutoCloseElementStart(e.name, line, col)); err != nil {
		return err
	}
	return p.call(p.handler.AutoCloseElementEnd(e.name, line, col))
}

func (p *Parser) emitAutoOpen(name string) error {
	line, col := p.buf.Line(), p.buf.Col()
	if err := p.call(p.handler.AutoOpenElementStart(name, line, col)); err != nil {
		return err
	}
	if err := p.call(p.handler.AutoOpenElementEnd(name, line, col)); err != nil {
		return err
	}
	p.stack.push(stackEntry{name: name, atom: atom.Lookup([]byte(name))})
	return nil
}

// drainStack closes out any elements still open at document end, innermost
// first, restoring the invariant that the stack is empty at document end
// (3, 4.G). Outside lenient HTML balancing, an element still open at
// document end is an UnexpectedStructure error instead.
func (p *Parser) drainStack() error {
	line, col := p.buf.Line(), p.buf.Col()
	if top, ok := p.stack.top(); ok && !p.cfg.lenient() {
		return unexpectedStructureErr(line, col, "element %q not closed at end of document", top.name)
	}
	for _, e := range p.stack.drain() {
		if err := p.emitAutoClose(e, line, col); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) checkDocumentEndPolicy() error {
	line, col := p.buf.Line(), p.buf.Col()
	if p.cfg.DoctypePresence == Required && !p.sawDocType {
		return configurationViolationErr(line, col, "DOCTYPE required but not present")
	}
	if p.cfg.XMLDeclarationPresence == Required && !p.sawXMLDecl {
		return configurationViolationErr(line, col, "XML declaration required but not present")
	}
	if p.cfg.UniqueRootPresence == RootRequired && p.topLevelOpens == 0 {
		return configurationViolationErr(line, col, "document has no root element")
	}
	return nil
}

// lowerCopy returns an ASCII-lowercased copy of the bytes named by p. The
// allocation is small (element/attribute names are short) and mirrors the
// teacher lineage's own use of per-name string builders during
// tokenization.
func lowerCopy(buf []byte, part Partition) []byte {
	out := make([]byte, part.Length)
	for i := 0; i < part.Length; i++ {
		out[i] = asciiLower(buf[part.Offset+i])
	}
	return out
}
