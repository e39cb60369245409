package handlers

import "github.com/ashkart/attoparser"

// Chain fans every event out to a fixed list of handlers, in order,
// stopping at the first one that returns an error. It is itself a Handler,
// so it can be passed directly to atto.Parse, and it implements the
// optional back-channel setters so each link still receives whatever the
// parser core offers -- a link that wants the Config, Status, or Selection
// gets it exactly as if it had been driven alone.
type Chain struct {
	links []atto.Handler
}

var _ atto.Handler = (*Chain)(nil)
var _ atto.ConfigAware = (*Chain)(nil)
var _ atto.StatusAware = (*Chain)(nil)
var _ atto.SelectionAware = (*Chain)(nil)
var _ atto.ParserAware = (*Chain)(nil)
var _ atto.ChainAware = (*Chain)(nil)

// NewChain returns a Chain that dispatches to links in order.
func NewChain(links ...atto.Handler) *Chain {
	return &Chain{links: links}
}

func (c *Chain) SetParseConfiguration(cfg *atto.Config) {
	for _, h := range c.links {
		if a, ok := h.(atto.ConfigAware); ok {
			a.SetParseConfiguration(cfg)
		}
	}
}

func (c *Chain) SetParseStatus(st *atto.Status) {
	for _, h := range c.links {
		if a, ok := h.(atto.StatusAware); ok {
			a.SetParseStatus(st)
		}
	}
}

func (c *Chain) SetParseSelection(sel *atto.Selection) {
	for _, h := range c.links {
		if a, ok := h.(atto.SelectionAware); ok {
			a.SetParseSelection(sel)
		}
	}
}

func (c *Chain) SetParser(p *atto.Parser) {
	for _, h := range c.links {
		if a, ok := h.(atto.ParserAware); ok {
			a.SetParser(p)
		}
	}
}

func (c *Chain) SetHandlerChain(chain []atto.Handler) {
	for _, h := range c.links {
		if a, ok := h.(atto.ChainAware); ok {
			a.SetHandlerChain(c.links)
		}
	}
}

func (c *Chain) DocumentStart(startTimeNanos int64, line, col int) error {
	for _, h := range c.links {
		if err := h.DocumentStart(startTimeNanos, line, col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) DocumentEnd(endTimeNanos, totalTimeNanos int64, line, col int) error {
	for _, h := range c.links {
		if err := h.DocumentEnd(endTimeNanos, totalTimeNanos, line, col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) XMLDeclaration(buf []byte, keyword, version, encoding, standalone, outer atto.Partition) error {
	for _, h := range c.links {
		if err := h.XMLDeclaration(buf, keyword, version, encoding, standalone, outer); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) DocType(buf []byte, keyword, elementName, typ, publicID, systemID, internalSubset, outer atto.Partition) error {
	for _, h := range c.links {
		if err := h.DocType(buf, keyword, elementName, typ, publicID, systemID, internalSubset, outer); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) CDATASection(buf []byte, content, outer atto.Partition) error {
	for _, h := range c.links {
		if err := h.CDATASection(buf, content, outer); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) Comment(buf []byte, content, outer atto.Partition) error {
	for _, h := range c.links {
		if err := h.Comment(buf, content, outer); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) ProcessingInstruction(buf []byte, target, content, outer atto.Partition) error {
	for _, h := range c.links {
		if err := h.ProcessingInstruction(buf, target, content, outer); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) Text(buf []byte, content atto.Partition) error {
	for _, h := range c.links {
		if err := h.Text(buf, content); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) InnerWhiteSpace(buf []byte, content atto.Partition) error {
	for _, h := range c.links {
		if err := h.InnerWhiteSpace(buf, content); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) StandaloneElementStart(buf []byte, name atto.Partition, minimized bool) error {
	for _, h := range c.links {
		if err := h.StandaloneElementStart(buf, name, minimized); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) StandaloneElementEnd(buf []byte, name atto.Partition, minimized bool) error {
	for _, h := range c.links {
		if err := h.StandaloneElementEnd(buf, name, minimized); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) OpenElementStart(buf []byte, name atto.Partition) error {
	for _, h := range c.links {
		if err := h.OpenElementStart(buf, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) OpenElementEnd(buf []byte, name atto.Partition) error {
	for _, h := range c.links {
		if err := h.OpenElementEnd(buf, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) CloseElementStart(buf []byte, name atto.Partition) error {
	for _, h := range c.links {
		if err := h.CloseElementStart(buf, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) CloseElementEnd(buf []byte, name atto.Partition) error {
	for _, h := range c.links {
		if err := h.CloseElementEnd(buf, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) Attribute(buf []byte, name, operator, valueContent, valueOuter atto.Partition) error {
	for _, h := range c.links {
		if err := h.Attribute(buf, name, operator, valueContent, valueOuter); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) AutoOpenElementStart(name string, line, col int) error {
	for _, h := range c.links {
		if err := h.AutoOpenElementStart(name, line, col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) AutoOpenElementEnd(name string, line, col int) error {
	for _, h := range c.links {
		if err := h.AutoOpenElementEnd(name, line, col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) AutoCloseElementStart(name string, line, col int) error {
	for _, h := range c.links {
		if err := h.AutoCloseElementStart(name, line, col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) AutoCloseElementEnd(name string, line, col int) error {
	for _, h := range c.links {
		if err := h.AutoCloseElementEnd(name, line, col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) UnmatchedCloseElementStart(buf []byte, name atto.Partition) error {
	for _, h := range c.links {
		if err := h.UnmatchedCloseElementStart(buf, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) UnmatchedCloseElementEnd(buf []byte, name atto.Partition) error {
	for _, h := range c.links {
		if err := h.UnmatchedCloseElementEnd(buf, name); err != nil {
			return err
		}
	}
	return nil
}
