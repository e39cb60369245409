package handlers

import (
	"github.com/beevik/etree"

	"github.com/ashkart/attoparser"
)

// EtreeBuilder demonstrates the kind of external collaborator SPEC_FULL.md
// keeps DOM construction as: it is not part of the parser core, just a
// Handler that happens to build a beevik/etree tree out of the events it
// receives. Attributes and auto-balanced elements are attached the same
// way real ones are, so the resulting tree reflects whatever repair the
// auto-balancer performed.
type EtreeBuilder struct {
	Base

	Document *etree.Document

	stack []*etree.Element
}

var _ atto.Handler = (*EtreeBuilder)(nil)

// NewEtreeBuilder returns an EtreeBuilder with a fresh, empty document.
func NewEtreeBuilder() *EtreeBuilder {
	return &EtreeBuilder{Document: etree.NewDocument()}
}

func (b *EtreeBuilder) parentElement() *etree.Element {
	if len(b.stack) == 0 {
		return &b.Document.Element
	}
	return b.stack[len(b.stack)-1]
}

func (b *EtreeBuilder) open(name string) *etree.Element {
	el := b.parentElement().CreateElement(name)
	b.stack = append(b.stack, el)
	return el
}

func (b *EtreeBuilder) closeTop() {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *EtreeBuilder) OpenElementStart(buf []byte, name atto.Partition) error {
	b.open(name.String(buf))
	return nil
}

func (b *EtreeBuilder) StandaloneElementStart(buf []byte, name atto.Partition, minimized bool) error {
	b.open(name.String(buf))
	return nil
}

func (b *EtreeBuilder) StandaloneElementEnd(buf []byte, name atto.Partition, minimized bool) error {
	b.closeTop()
	return nil
}

func (b *EtreeBuilder) CloseElementEnd(buf []byte, name atto.Partition) error {
	b.closeTop()
	return nil
}

func (b *EtreeBuilder) AutoOpenElementStart(name string, line, col int) error {
	b.open(name)
	return nil
}

func (b *EtreeBuilder) AutoCloseElementEnd(name string, line, col int) error {
	b.closeTop()
	return nil
}

func (b *EtreeBuilder) Attribute(buf []byte, name, operator, valueContent, valueOuter atto.Partition) error {
	b.parentElement().CreateAttr(name.String(buf), valueContent.String(buf))
	return nil
}

func (b *EtreeBuilder) Text(buf []byte, content atto.Partition) error {
	b.parentElement().CreateText(content.String(buf))
	return nil
}

func (b *EtreeBuilder) Comment(buf []byte, content, outer atto.Partition) error {
	b.parentElement().CreateComment(content.String(buf))
	return nil
}

func (b *EtreeBuilder) ProcessingInstruction(buf []byte, target, content, outer atto.Partition) error {
	b.parentElement().CreateProcInst(target.String(buf), content.String(buf))
	return nil
}
