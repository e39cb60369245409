// Package handlers collects ambient, reusable Handler implementations that
// sit outside the parser core: a no-op base to embed, a chain that fans
// events out to multiple handlers, a logrus-backed tracer, and an
// etree-backed DOM builder. None of these are required to drive a Parse
// call; they exist as the kind of collaborators 4.I anticipates a handler
// chain being built from.
package handlers

import "github.com/ashkart/attoparser"

// Base is a Handler whose every method returns nil. Embed it in a struct
// that only cares about a handful of events, overriding just those
// methods, rather than implementing the full interface by hand.
type Base struct{}

var _ atto.Handler = Base{}

func (Base) DocumentStart(startTimeNanos int64, line, col int) error { return nil }
func (Base) DocumentEnd(endTimeNanos, totalTimeNanos int64, line, col int) error { return nil }

func (Base) XMLDeclaration(buf []byte, keyword, version, encoding, standalone, outer atto.Partition) error {
	return nil
}
func (Base) DocType(buf []byte, keyword, elementName, typ, publicID, systemID, internalSubset, outer atto.Partition) error {
	return nil
}

func (Base) CDATASection(buf []byte, content, outer atto.Partition) error { return nil }
func (Base) Comment(buf []byte, content, outer atto.Partition) error      { return nil }
func (Base) ProcessingInstruction(buf []byte, target, content, outer atto.Partition) error {
	return nil
}

func (Base) Text(buf []byte, content atto.Partition) error            { return nil }
func (Base) InnerWhiteSpace(buf []byte, content atto.Partition) error { return nil }

func (Base) StandaloneElementStart(buf []byte, name atto.Partition, minimized bool) error {
	return nil
}
func (Base) StandaloneElementEnd(buf []byte, name atto.Partition, minimized bool) error {
	return nil
}

func (Base) OpenElementStart(buf []byte, name atto.Partition) error  { return nil }
func (Base) OpenElementEnd(buf []byte, name atto.Partition) error    { return nil }
func (Base) CloseElementStart(buf []byte, name atto.Partition) error { return nil }
func (Base) CloseElementEnd(buf []byte, name atto.Partition) error   { return nil }

func (Base) Attribute(buf []byte, name, operator, valueContent, valueOuter atto.Partition) error {
	return nil
}

func (Base) AutoOpenElementStart(name string, line, col int) error  { return nil }
func (Base) AutoOpenElementEnd(name string, line, col int) error    { return nil }
func (Base) AutoCloseElementStart(name string, line, col int) error { return nil }
func (Base) AutoCloseElementEnd(name string, line, col int) error   { return nil }

func (Base) UnmatchedCloseElementStart(buf []byte, name atto.Partition) error { return nil }
func (Base) UnmatchedCloseElementEnd(buf []byte, name atto.Partition) error   { return nil }
