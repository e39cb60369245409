package atto

import (
	"golang.org/x/net/html/atom"
)

// ElementCategory is the coarse block/inline classification carried by an
// element descriptor. It is informational only; the auto-balancer keys
// its decisions off the optional-close rule table, not off category.
type ElementCategory int

const (
	CategoryInline ElementCategory = iota
	CategoryBlock
)

// ElementDescriptor is the HTML element registry entry described in 3 and
// 4.F: flags that drive the auto-balancer and tokenizer raw-text handling.
type ElementDescriptor struct {
	Name               string
	IsVoid             bool
	IsRawText          bool
	IsEscapableRawText bool
	Category           ElementCategory
}

// registry is the fixed, case-folded dictionary consulted only when the
// configured dialect is HTML (4.F); in XML every element is uniform, so
// lookups always go through descriptorFor which checks the dialect first.
var registry = buildRegistry()

func buildRegistry() map[atom.Atom]*ElementDescriptor {
	m := make(map[atom.Atom]*ElementDescriptor)

	void := []atom.Atom{
		atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr,
	}
	for _, a := range void {
		m[a] = &ElementDescriptor{Name: a.String(), IsVoid: true, Category: CategoryBlock}
	}

	rawText := []atom.Atom{atom.Script, atom.Style}
	for _, a := range rawText {
		m[a] = &ElementDescriptor{Name: a.String(), IsRawText: true, Category: CategoryBlock}
	}

	escapableRawText := []atom.Atom{atom.Textarea, atom.Title}
	for _, a := range escapableRawText {
		m[a] = &ElementDescriptor{Name: a.String(), IsEscapableRawText: true, Category: CategoryInline}
	}

	block := []atom.Atom{
		atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Body,
		atom.Caption, atom.Colgroup, atom.Dd, atom.Details, atom.Div,
		atom.Dl, atom.Dt, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4,
		atom.H5, atom.H6, atom.Head, atom.Header, atom.Hgroup, atom.Html,
		atom.Li, atom.Main, atom.Nav, atom.Ol, atom.Option, atom.Optgroup,
		atom.P, atom.Pre, atom.Section, atom.Select, atom.Table, atom.Tbody,
		atom.Td, atom.Tfoot, atom.Th, atom.Thead, atom.Tr, atom.Ul,
	}
	for _, a := range block {
		if _, exists := m[a]; exists {
			continue
		}
		m[a] = &ElementDescriptor{Name: a.String(), Category: CategoryBlock}
	}

	return m
}

// blockOpeners is the set of elements whose opening implicitly closes a
// still-open <p>, per the HTML5 "optional tags" rules for paragraphs
// (SPEC_FULL.md §5).
var blockOpeners = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true,
	atom.Blockquote: true, atom.Details: true, atom.Div: true,
	atom.Dl: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hgroup: true,
	atom.Hr: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Ul: true,
}

// closesOnOpen implements "Implicit closes ... is a pure function of
// (incomingName, stackTopName)" from 4.G / design note 9: for a given
// incoming open-tag atom, which stack-top atoms it implicitly closes.
func closesOnOpen(incoming, stackTop atom.Atom) bool {
	// <colgroup> contains nothing but <col> and whitespace (SPEC_FULL.md
	// §5), so any other incoming tag closes it. This has to run before
	// the incoming-keyed switch below, since that switch would otherwise
	// return early (e.g. on <tr>) without ever considering what stackTop
	// actually is.
	if stackTop == atom.Colgroup {
		return incoming != atom.Col
	}
	switch incoming {
	case atom.Li:
		return stackTop == atom.Li
	case atom.Dt, atom.Dd:
		return stackTop == atom.Dt || stackTop == atom.Dd
	case atom.Option:
		return stackTop == atom.Option
	case atom.Optgroup:
		return stackTop == atom.Option || stackTop == atom.Optgroup
	case atom.Tr:
		return stackTop == atom.Tr || stackTop == atom.Td || stackTop == atom.Th || stackTop == atom.Caption
	case atom.Td, atom.Th:
		return stackTop == atom.Td || stackTop == atom.Th || stackTop == atom.Caption
	case atom.Tbody, atom.Tfoot, atom.Thead:
		return stackTop == atom.Tbody || stackTop == atom.Tfoot ||
			stackTop == atom.Thead || stackTop == atom.Tr ||
			stackTop == atom.Td || stackTop == atom.Th || stackTop == atom.Caption
	case atom.Caption, atom.Colgroup, atom.Col:
		// <caption> contains ordinary flow content, so it is only closed
		// by a following table-structural tag, not by arbitrary markup.
		return stackTop == atom.Caption
	}
	if blockOpeners[incoming] && stackTop == atom.P {
		return true
	}
	return false
}

// descriptorFor looks up the registry entry for nameLower. atom.Lookup is
// ASCII case-sensitive, so callers pass the tag name already lowercased
// (dispatchTag's lowerCopy); that is what makes HTML tag names match the
// registry case-insensitively. Dialect gates the whole lookup: XML never
// consults the registry.
func descriptorFor(cfg *Config, nameLower []byte) (*ElementDescriptor, atom.Atom) {
	if cfg.Dialect != HTML {
		return nil, 0
	}
	a := atom.Lookup(nameLower)
	if a == 0 {
		return nil, 0
	}
	return registry[a], a
}
