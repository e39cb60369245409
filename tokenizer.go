package atto

// This file is the structure tokenizer (4.E): it recognizes markup
// primitives at the current read position and computes the partitions
// that describe them, without copying any input. It holds every
// recognized structure entirely within the buffer before reporting it
// (4.D policy) and never mutates the buffer except by calling Advance
// once a structure is fully validated.

// token mirrors the teacher lineage's single-struct-many-kinds Token: one
// recognized artifact, tagged by kind, with only the fields relevant to
// that kind populated.
type tokenKind int

const (
	tokComment tokenKind = iota
	tokCDATA
	tokDocType
	tokXMLDecl
	tokPI
	tokTag
	tokText
	tokEOF
)

type tagPart struct {
	isWhitespace                             bool
	ws                                        Partition
	name, operator, valueContent, valueOuter Partition
}

type tagToken struct {
	isClose     bool
	selfClosing bool
	name        Partition
	parts       []tagPart
}

type docTypeToken struct {
	keyword, elementName, typ, publicID, systemID, internalSubset, outer Partition
}

type xmlDeclToken struct {
	keyword, version, encoding, standalone, outer Partition
}

type piToken struct {
	target, content, outer Partition
}

type commentToken struct {
	content, outer Partition
}

type cdataToken struct {
	content, outer Partition
}

type textToken struct {
	content Partition
}

type token struct {
	kind     tokenKind
	comment  commentToken
	cdata    cdataToken
	doctype  docTypeToken
	xmldecl  xmlDeclToken
	pi       piToken
	tag      tagToken
	text     textToken
}

func isWS(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// charAt returns the character at offset i relative to the read head,
// growing the buffer as needed. ok is false at end-of-input.
func (p *Parser) charAt(i int) (byte, bool, error) {
	ok, err := p.buf.Ensure(i + 1)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	c, _ := p.buf.At(i)
	return c, true, nil
}

func (p *Parser) matchFold(i int, lit string) (bool, error) {
	for j := 0; j < len(lit); j++ {
		c, ok, err := p.charAt(i + j)
		if err != nil || !ok {
			return false, err
		}
		if !asciiEqualFold(c, lit[j]) {
			return false, nil
		}
	}
	return true, nil
}

func (p *Parser) matchExact(i int, lit string) (bool, error) {
	for j := 0; j < len(lit); j++ {
		c, ok, err := p.charAt(i + j)
		if err != nil || !ok {
			return false, err
		}
		if c != lit[j] {
			return false, nil
		}
	}
	return true, nil
}

func (p *Parser) skipWS(i int) (int, error) {
	for {
		c, ok, err := p.charAt(i)
		if err != nil {
			return i, err
		}
		if !ok || !isWS(c) {
			return i, nil
		}
		i++
	}
}

// partitionAtRel builds a Partition for the range [relOffset,
// relOffset+length) relative to the current read head, computing its
// line/col by replaying newline accounting from the read head without
// mutating the buffer.
func partitionAtRel(buf *Buffer, relOffset, length int) Partition {
	line, col := buf.Line(), buf.Col()
	data := buf.Bytes()
	base := buf.Pos()
	i := base
	end := base + relOffset
	for i < end {
		switch data[i] {
		case '\n':
			line++
			col = 1
		case '\r':
			line++
			col = 1
			if i+1 < end && data[i+1] == '\n' {
				i++
			}
		default:
			col++
		}
		i++
	}
	return partitionAt(base+relOffset, length, line, col)
}

// structureStartsAt reports whether a recognizable structure (any of the
// seven structure kinds) begins at relative offset rel, without consuming
// anything. It is used by the text scanner to find where a text run must
// end.
func (p *Parser) structureStartsAt(rel int) (bool, error) {
	c0, ok, err := p.charAt(rel)
	if err != nil || !ok {
		return false, err
	}
	if c0 != '<' {
		return false, nil
	}
	c1, ok, err := p.charAt(rel + 1)
	if err != nil || !ok {
		return false, nil
	}
	switch {
	case c1 == '!' || c1 == '?':
		return true, nil
	case c1 == '/':
		c2, ok, err := p.charAt(rel + 2)
		if err != nil || !ok {
			return false, err
		}
		return isNameStart(c2), nil
	default:
		return isNameStart(c1), nil
	}
}

// next recognizes and consumes the next structure or text run from the
// current read position, returning tokEOF once the buffer is exhausted.
// Raw-text mode (status.LimitSequence) is handled first, since it
// disables ordinary structure recognition entirely (4.E "Raw-text mode").
func (p *Parser) next() (token, error) {
	if lim := p.status.LimitSequence(); lim != "" {
		return p.scanRawText(lim)
	}

	c, ok, err := p.charAt(0)
	if err != nil {
		return token{}, err
	}
	if !ok {
		return token{kind: tokEOF}, nil
	}
	if c != '<' {
		return p.scanText(0)
	}

	for _, try := range []func() (token, bool, error){
		p.tryComment,
		p.tryCDATA,
		p.tryDocType,
		p.tryXMLDecl,
		p.tryPI,
		p.tryCloseTag,
		p.tryOpenTag,
	} {
		tok, matched, err := try()
		if matched {
			return tok, err
		}
		if err != nil {
			return token{}, err
		}
	}

	if p.cfg.lenient() {
		return p.scanText(1)
	}
	line, col := p.buf.Line(), p.buf.Col()
	return token{}, malformedStructureErr(line, col, "unrecognized markup at '<'")
}

// scanText extends a text run from startAt (relative to the read head,
// already known not to begin a structure) up to the next position that
// begins a recognizable structure, or end-of-input.
func (p *Parser) scanText(startAt int) (token, error) {
	// Bound memory against a text run with no structure in sight: stop at
	// maxBufferCap worth of content from the current read head and let
	// the caller ask again, continuing as a second text token, rather
	// than growing the buffer without limit or (now that the buffer
	// itself enforces the cap) erroring out on otherwise well-formed text.
	limit := maxBufferCap - p.buf.Pos()
	i := startAt
	for i < limit {
		c, ok, err := p.charAt(i)
		if err != nil {
			return token{}, err
		}
		if !ok {
			break
		}
		if c == '<' {
			starts, err := p.structureStartsAt(i)
			if err != nil {
				return token{}, err
			}
			if starts {
				break
			}
		}
		i++
	}
	content := partitionAtRel(p.buf, 0, i)
	p.buf.Advance(i)
	return token{kind: tokText, text: textToken{content: content}}, nil
}

// scanRawText implements the raw-text half of 4.E: it emits everything up
// to (not including) the next case-insensitive literal match of limit as
// a single text token. The close tag at the match itself is left for the
// ordinary tag tokenizer to pick up on the following call, so that its
// inner whitespace is reported normally; the caller clears
// status.LimitSequence once it sees that close.
func (p *Parser) scanRawText(limit string) (token, error) {
	i := 0
	for {
		_, ok, err := p.charAt(i)
		if err != nil {
			return token{}, err
		}
		if !ok {
			break
		}
		matched, err := p.matchFold(i, limit)
		if err != nil {
			return token{}, err
		}
		if matched {
			break
		}
		i++
	}
	if i == 0 {
		// The limit sequence is right at the read head (or EOF with
		// nothing buffered): fall through to tag tokenization directly.
		c, ok, err := p.charAt(0)
		if err != nil || !ok {
			p.status.ClearLimitSequence()
			return token{kind: tokEOF}, err
		}
		_ = c
		tok, matched, err := p.tryCloseTag()
		if err != nil {
			return token{}, err
		}
		if !matched {
			line, col := p.buf.Line(), p.buf.Col()
			return token{}, malformedStructureErr(line, col, "raw-text close sequence did not tokenize as a close tag")
		}
		p.status.ClearLimitSequence()
		return tok, nil
	}
	content := partitionAtRel(p.buf, 0, i)
	p.buf.Advance(i)
	return token{kind: tokText, text: textToken{content: content}}, nil
}

func (p *Parser) tryComment() (token, bool, error) {
	ok, err := p.matchExact(0, "<!--")
	if err != nil || !ok {
		return token{}, false, err
	}
	line, col := p.buf.Line(), p.buf.Col()
	i := 4
	for {
		c, ok, err := p.charAt(i + 2)
		if err != nil {
			return token{}, true, err
		}
		_ = c
		if !ok {
			if p.cfg.lenient() {
				tok, err := p.scanText(1)
				return tok, true, err
			}
			return token{}, true, malformedStructureErr(line, col, "unterminated comment")
		}
		matched, err := p.matchExact(i, "-->")
		if err != nil {
			return token{}, true, err
		}
		if matched {
			content := partitionAtRel(p.buf, 4, i-4)
			outer := partitionAtRel(p.buf, 0, i+3)
			tok := token{kind: tokComment, comment: commentToken{content: content, outer: outer}}
			p.buf.Advance(i + 3)
			return tok, true, nil
		}
		i++
	}
}

func (p *Parser) tryCDATA() (token, bool, error) {
	ok, err := p.matchExact(0, "<![CDATA[")
	if err != nil || !ok {
		return token{}, false, err
	}
	line, col := p.buf.Line(), p.buf.Col()
	i := 9
	for {
		c, ok, err := p.charAt(i + 2)
		if err != nil {
			return token{}, true, err
		}
		_ = c
		if !ok {
			if p.cfg.lenient() {
				tok, err := p.scanText(1)
				return tok, true, err
			}
			return token{}, true, malformedStructureErr(line, col, "unterminated CDATA section")
		}
		matched, err := p.matchExact(i, "]]>")
		if err != nil {
			return token{}, true, err
		}
		if matched {
			content := partitionAtRel(p.buf, 9, i-9)
			outer := partitionAtRel(p.buf, 0, i+3)
			tok := token{kind: tokCDATA, cdata: cdataToken{content: content, outer: outer}}
			p.buf.Advance(i + 3)
			return tok, true, nil
		}
		i++
	}
}

// tryDocType recognizes "<!DOCTYPE name [PUBLIC "pub" ["sys"]] [SYSTEM
// "sys"] [ internalSubset ] >", with every piece but the element name
// optional, per 4.E item 3.
func (p *Parser) tryDocType() (token, bool, error) {
	ok, err := p.matchFold(0, "<!DOCTYPE")
	if err != nil || !ok {
		return token{}, false, err
	}
	next, ok, err := p.charAt(9)
	if err != nil {
		return token{}, true, err
	}
	if ok && !isWS(next) && next != '>' {
		// "<!DOCTYPEX..." isn't a DOCTYPE after all.
		return token{}, false, nil
	}
	line, col := p.buf.Line(), p.buf.Col()
	keyword := partitionAtRel(p.buf, 0, 9)

	i, err := p.skipWS(9)
	if err != nil {
		return token{}, true, err
	}
	nameStart := i
	for {
		c, ok, err := p.charAt(i)
		if err != nil {
			return token{}, true, err
		}
		if !ok || isWS(c) || c == '>' || c == '[' {
			break
		}
		i++
	}
	if i == nameStart {
		return token{}, true, malformedStructureErr(line, col, "DOCTYPE missing element name")
	}
	elementName := partitionAtRel(p.buf, nameStart, i-nameStart)

	i, err = p.skipWS(i)
	if err != nil {
		return token{}, true, err
	}

	var typ, publicID, systemID Partition
	isPublic, err := p.matchFold(i, "PUBLIC")
	if err != nil {
		return token{}, true, err
	}
	isSystem := false
	if !isPublic {
		isSystem, err = p.matchFold(i, "SYSTEM")
		if err != nil {
			return token{}, true, err
		}
	}
	if isPublic || isSystem {
		kwLen := 6
		typ = partitionAtRel(p.buf, i, kwLen)
		i, err = p.skipWS(i + kwLen)
		if err != nil {
			return token{}, true, err
		}
		if isPublic {
			publicID, i, err = p.scanQuoted(i)
			if err != nil {
				return token{}, true, err
			}
			i, err = p.skipWS(i)
			if err != nil {
				return token{}, true, err
			}
		}
		c, ok, err := p.charAt(i)
		if err != nil {
			return token{}, true, err
		}
		if ok && (c == '"' || c == '\'') {
			systemID, i, err = p.scanQuoted(i)
			if err != nil {
				return token{}, true, err
			}
			i, err = p.skipWS(i)
			if err != nil {
				return token{}, true, err
			}
		}
	}

	var internalSubset Partition
	c, ok, err := p.charAt(i)
	if err != nil {
		return token{}, true, err
	}
	if ok && c == '[' {
		start := i
		i++
		for {
			c, ok, err := p.charAt(i)
			if err != nil {
				return token{}, true, err
			}
			if !ok {
				return token{}, true, malformedStructureErr(line, col, "unterminated DOCTYPE internal subset")
			}
			if c == ']' {
				i++
				break
			}
			i++
		}
		internalSubset = partitionAtRel(p.buf, start+1, i-start-2)
		i, err = p.skipWS(i)
		if err != nil {
			return token{}, true, err
		}
	}

	c, ok, err = p.charAt(i)
	if err != nil {
		return token{}, true, err
	}
	if !ok || c != '>' {
		return token{}, true, malformedStructureErr(line, col, "unterminated DOCTYPE")
	}
	outer := partitionAtRel(p.buf, 0, i+1)
	tok := token{kind: tokDocType, doctype: docTypeToken{
		keyword: keyword, elementName: elementName, typ: typ,
		publicID: publicID, systemID: systemID, internalSubset: internalSubset,
		outer: outer,
	}}
	p.buf.Advance(i + 1)
	return tok, true, nil
}

// scanQuoted reads a single- or double-quoted literal starting at i,
// returning a Partition over its content (quotes excluded) and the index
// just past the closing quote.
func (p *Parser) scanQuoted(i int) (Partition, int, error) {
	line, col := p.buf.Line(), p.buf.Col()
	q, ok, err := p.charAt(i)
	if err != nil {
		return Partition{}, i, err
	}
	if !ok || (q != '"' && q != '\'') {
		return Partition{}, i, malformedStructureErr(line, col, "expected quoted literal")
	}
	start := i + 1
	j := start
	for {
		c, ok, err := p.charAt(j)
		if err != nil {
			return Partition{}, i, err
		}
		if !ok {
			return Partition{}, i, malformedStructureErr(line, col, "unterminated quoted literal")
		}
		if c == q {
			break
		}
		j++
	}
	content := partitionAtRel(p.buf, start, j-start)
	return content, j + 1, nil
}

// tryXMLDecl recognizes "<?xml version="..." [encoding="..."]
// [standalone="..."]?>" (4.E item 4). The keyword "xml" must match
// exactly (case-insensitively) and nothing else may follow before
// whitespace, distinguishing it from an ordinary processing instruction
// whose target merely starts with "xml".
func (p *Parser) tryXMLDecl() (token, bool, error) {
	ok, err := p.matchFold(0, "<?xml")
	if err != nil || !ok {
		return token{}, false, err
	}
	afterKeyword, ok, err := p.charAt(5)
	if err != nil {
		return token{}, true, err
	}
	if ok && !isWS(afterKeyword) {
		return token{}, false, nil
	}
	line, col := p.buf.Line(), p.buf.Col()
	keyword := partitionAtRel(p.buf, 2, 3)

	i, err := p.skipWS(5)
	if err != nil {
		return token{}, true, err
	}

	var version, encoding, standalone Partition
	for {
		c, ok, err := p.charAt(i)
		if err != nil {
			return token{}, true, err
		}
		if !ok {
			return token{}, true, malformedStructureErr(line, col, "unterminated XML declaration")
		}
		if c == '?' {
			break
		}
		attrName, valueContent, next, err := p.scanDeclAttr(i)
		if err != nil {
			return token{}, true, err
		}
		switch {
		case nameEqual(p.buf.Bytes(), attrName, "version", true):
			version = valueContent
		case nameEqual(p.buf.Bytes(), attrName, "encoding", true):
			encoding = valueContent
		case nameEqual(p.buf.Bytes(), attrName, "standalone", true):
			standalone = valueContent
		}
		i, err = p.skipWS(next)
		if err != nil {
			return token{}, true, err
		}
	}
	matched, err := p.matchExact(i, "?>")
	if err != nil {
		return token{}, true, err
	}
	if !matched {
		return token{}, true, malformedStructureErr(line, col, "unterminated XML declaration")
	}
	outer := partitionAtRel(p.buf, 0, i+2)
	tok := token{kind: tokXMLDecl, xmldecl: xmlDeclToken{
		keyword: keyword, version: version, encoding: encoding,
		standalone: standalone, outer: outer,
	}}
	p.buf.Advance(i + 2)
	return tok, true, nil
}

// scanDeclAttr reads one "name=\"value\"" pair as used inside an XML
// declaration, returning the name partition, the value-content partition
// (quotes excluded), and the index just past the closing quote.
func (p *Parser) scanDeclAttr(i int) (Partition, Partition, int, error) {
	line, col := p.buf.Line(), p.buf.Col()
	start := i
	for {
		c, ok, err := p.charAt(i)
		if err != nil {
			return Partition{}, Partition{}, i, err
		}
		if !ok || isWS(c) || c == '=' {
			break
		}
		i++
	}
	name := partitionAtRel(p.buf, start, i-start)
	i, err := p.skipWS(i)
	if err != nil {
		return Partition{}, Partition{}, i, err
	}
	matched, err := p.matchExact(i, "=")
	if err != nil {
		return Partition{}, Partition{}, i, err
	}
	if !matched {
		return Partition{}, Partition{}, i, malformedStructureErr(line, col, "expected '=' in declaration attribute")
	}
	i, err = p.skipWS(i + 1)
	if err != nil {
		return Partition{}, Partition{}, i, err
	}
	value, next, err := p.scanQuoted(i)
	if err != nil {
		return Partition{}, Partition{}, i, err
	}
	return name, value, next, nil
}

// tryPI recognizes "<?target content?>" for any target other than the
// exact keyword "xml" (which tryXMLDecl, tried first, already claims).
func (p *Parser) tryPI() (token, bool, error) {
	ok, err := p.matchExact(0, "<?")
	if err != nil || !ok {
		return token{}, false, err
	}
	c, ok, err := p.charAt(2)
	if err != nil {
		return token{}, true, err
	}
	if !ok || !isNameStart(c) {
		return token{}, false, nil
	}
	line, col := p.buf.Line(), p.buf.Col()
	i := 2
	for {
		c, ok, err := p.charAt(i)
		if err != nil {
			return token{}, true, err
		}
		if !ok || isWS(c) || c == '?' {
			break
		}
		i++
	}
	target := partitionAtRel(p.buf, 2, i-2)
	i, err = p.skipWS(i)
	if err != nil {
		return token{}, true, err
	}
	contentStart := i
	for {
		c, ok, err := p.charAt(i)
		if err != nil {
			return token{}, true, err
		}
		if !ok {
			return token{}, true, malformedStructureErr(line, col, "unterminated processing instruction")
		}
		if c == '?' {
			matched, err := p.matchExact(i, "?>")
			if err != nil {
				return token{}, true, err
			}
			if matched {
				break
			}
		}
		i++
	}
	content := partitionAtRel(p.buf, contentStart, i-contentStart)
	outer := partitionAtRel(p.buf, 0, i+2)
	tok := token{kind: tokPI, pi: piToken{target: target, content: content, outer: outer}}
	p.buf.Advance(i + 2)
	return tok, true, nil
}

// tryOpenTag and tryCloseTag recognize element tags (4.E item 6-7).
// Attribute and inner-whitespace parts are collected in source order so
// the parser core can dispatch them between openStart/openEnd in the
// same order they appeared.
func (p *Parser) tryOpenTag() (token, bool, error) {
	c, ok, err := p.charAt(1)
	if err != nil || !ok || !isNameStart(c) {
		return token{}, false, err
	}
	return p.scanTag(false)
}

func (p *Parser) tryCloseTag() (token, bool, error) {
	ok, err := p.matchExact(0, "</")
	if err != nil || !ok {
		return token{}, false, err
	}
	c, ok, err := p.charAt(2)
	if err != nil {
		return token{}, true, err
	}
	if !ok || !isNameStart(c) {
		return token{}, false, nil
	}
	return p.scanTag(true)
}

func (p *Parser) scanTag(isClose bool) (token, bool, error) {
	line, col := p.buf.Line(), p.buf.Col()
	start := 1
	if isClose {
		start = 2
	}
	i := start
	for {
		c, ok, err := p.charAt(i)
		if err != nil {
			return token{}, true, err
		}
		if !ok || isWS(c) || c == '/' || c == '>' {
			break
		}
		i++
	}
	name := partitionAtRel(p.buf, start, i-start)

	var parts []tagPart
	selfClosing := false
	var err error
	for {
		wsStart := i
		i, err = p.skipWS(i)
		if err != nil {
			return token{}, true, err
		}
		if i > wsStart {
			parts = append(parts, tagPart{isWhitespace: true, ws: partitionAtRel(p.buf, wsStart, i-wsStart)})
		}

		c, ok, err := p.charAt(i)
		if err != nil {
			return token{}, true, err
		}
		if !ok {
			return token{}, true, malformedStructureErr(line, col, "unterminated tag")
		}
		if c == '>' {
			i++
			break
		}
		if c == '/' {
			nc, ok2, err := p.charAt(i + 1)
			if err != nil {
				return token{}, true, err
			}
			if ok2 && nc == '>' {
				selfClosing = true
				i += 2
				break
			}
			// A lone '/' not followed by '>' is consumed as if it
			// were whitespace, matching lenient HTML tokenizers.
			i++
			continue
		}
		if isClose {
			// Close tags carry no attributes; skip anything else up
			// to '>' as the original spec allows trailing junk there.
			i++
			continue
		}

		attrName, operator, valueContent, valueOuter, next, err := p.scanAttribute(i)
		if err != nil {
			return token{}, true, err
		}
		parts = append(parts, tagPart{
			name: attrName, operator: operator,
			valueContent: valueContent, valueOuter: valueOuter,
		})
		i = next
	}

	tok := token{kind: tokTag, tag: tagToken{
		isClose: isClose, selfClosing: selfClosing, name: name, parts: parts,
	}}
	p.buf.Advance(i)
	return tok, true, nil
}

// scanAttribute reads one attribute starting at i, per 4.E: a name, an
// optional '=' operator (with its surrounding whitespace folded into the
// operator partition), and an optional quoted or unquoted value.
func (p *Parser) scanAttribute(i int) (name, operator, valueContent, valueOuter Partition, next int, err error) {
	start := i
	for {
		c, ok, e := p.charAt(i)
		if e != nil {
			return Partition{}, Partition{}, Partition{}, Partition{}, i, e
		}
		if !ok || isWS(c) || c == '=' || c == '/' || c == '>' {
			break
		}
		i++
	}
	name = partitionAtRel(p.buf, start, i-start)

	opStart := i
	j, e := p.skipWS(i)
	if e != nil {
		return Partition{}, Partition{}, Partition{}, Partition{}, i, e
	}
	c, ok, e := p.charAt(j)
	if e != nil {
		return Partition{}, Partition{}, Partition{}, Partition{}, i, e
	}
	if !ok || c != '=' {
		// No '=' follows: this is a value-less attribute. Return next = i,
		// before the lookahead whitespace skip, so the caller's own
		// per-part whitespace scan (scanTag's loop) captures and emits
		// the run between this attribute and whatever follows, instead of
		// it being silently discarded here.
		return name, Partition{}, Partition{}, Partition{}, i, nil
	}
	j++
	j, e = p.skipWS(j)
	if e != nil {
		return Partition{}, Partition{}, Partition{}, Partition{}, i, e
	}
	operator = partitionAtRel(p.buf, opStart, j-opStart)

	vc, ok, e := p.charAt(j)
	if e != nil {
		return Partition{}, Partition{}, Partition{}, Partition{}, i, e
	}
	if ok && (vc == '"' || vc == '\'') {
		content, endQuote, e := p.scanQuoted(j)
		if e != nil {
			return Partition{}, Partition{}, Partition{}, Partition{}, i, e
		}
		valueContent = content
		valueOuter = partitionAtRel(p.buf, j, endQuote-j)
		return name, operator, valueContent, valueOuter, endQuote, nil
	}

	vstart := j
	for {
		c, ok, e := p.charAt(j)
		if e != nil {
			return Partition{}, Partition{}, Partition{}, Partition{}, i, e
		}
		if !ok || isWS(c) || c == '>' || c == '/' {
			break
		}
		j++
	}
	valueContent = partitionAtRel(p.buf, vstart, j-vstart)
	valueOuter = valueContent
	return name, operator, valueContent, valueOuter, j, nil
}
