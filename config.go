package atto

// Dialect selects the markup family a Parser tokenizes against. It governs
// whether the HTML element registry and auto-balancer (4.F, 4.G) are
// consulted at all; in the XML dialect every element is treated uniformly.
type Dialect int

const (
	HTML Dialect = iota
	XML
)

func (d Dialect) String() string {
	if d == XML {
		return "xml"
	}
	return "html"
}

// Presence constrains whether an optional artifact (the prolog, an XML
// declaration, a DOCTYPE) may, must, or must not appear.
type Presence int

const (
	Allowed Presence = iota
	Required
	Forbidden
)

// ElementBalancingMode selects how aggressively the auto-balancer repairs
// unbalanced HTML.
type ElementBalancingMode int

const (
	// BalancingNone performs no stack tracking at all; open/close events
	// are reported exactly as tokenized.
	BalancingNone ElementBalancingMode = iota
	// BalancingRequired tracks the open-element stack and raises
	// UnexpectedStructure on mismatch rather than recovering from it.
	BalancingRequired
	// BalancingAutoOpenAndClose is full lenient HTML auto-balancing:
	// implicit closes, auto-opens, and a synthetic close-out at EOF.
	BalancingAutoOpenAndClose
)

// UniqueRootPresence constrains how many top-level elements a document may
// contain.
type UniqueRootPresence int

const (
	// RootRequired mandates exactly one top-level element, independent of
	// whether a prolog or doctype was present.
	RootRequired UniqueRootPresence = iota
	// RootDependsOnPrologDoctype places no limit on the number of
	// top-level elements: the parser enforces a single root only under
	// RootRequired, whether or not a prolog or doctype was seen.
	RootDependsOnPrologDoctype
)

// Config carries the dialect switches and strict/lenient policy flags
// described in 4.B. The zero value is not a usable configuration; use
// NewHTMLConfig or NewXMLConfig, optionally adjusted with With* options.
type Config struct {
	Dialect       Dialect
	CaseSensitive bool

	ElementBalancing ElementBalancingMode

	UniqueAttributesRequired bool

	PrologPresence          Presence
	XMLDeclarationPresence  Presence
	DoctypePresence         Presence
	UniqueRootPresence      UniqueRootPresence

	NoUnmatchedCloseElementsRequired bool
}

// Option adjusts a Config produced by NewHTMLConfig or NewXMLConfig.
type Option func(*Config)

// NewHTMLConfig returns the lenient HTML defaults: case-insensitive names,
// full auto-balancing, unmatched closes tolerated, no prolog requirements.
func NewHTMLConfig(opts ...Option) *Config {
	c := &Config{
		Dialect:                 HTML,
		CaseSensitive:           false,
		ElementBalancing:        BalancingAutoOpenAndClose,
		PrologPresence:          Allowed,
		XMLDeclarationPresence:  Forbidden,
		DoctypePresence:         Allowed,
		UniqueRootPresence:      RootDependsOnPrologDoctype,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewXMLConfig returns the strict XML defaults: case-sensitive attribute
// names (see WithCaseSensitive), no
// balancing recovery (malformed nesting is an error), unique attributes
// required, and unmatched close tags forbidden.
func NewXMLConfig(opts ...Option) *Config {
	c := &Config{
		Dialect:                          XML,
		CaseSensitive:                    true,
		ElementBalancing:                 BalancingRequired,
		UniqueAttributesRequired:         true,
		PrologPresence:                   Allowed,
		XMLDeclarationPresence:           Allowed,
		DoctypePresence:                  Allowed,
		UniqueRootPresence:               RootRequired,
		NoUnmatchedCloseElementsRequired: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCaseSensitive overrides the case sensitivity of attribute-name
// comparison in duplicate-attribute detection. Element names are always
// lowercased before they are matched against the open-element stack, so
// this setting does not affect element matching.
func WithCaseSensitive(v bool) Option { return func(c *Config) { c.CaseSensitive = v } }

// WithElementBalancing overrides the balancing mode.
func WithElementBalancing(m ElementBalancingMode) Option {
	return func(c *Config) { c.ElementBalancing = m }
}

// WithUniqueAttributesRequired toggles duplicate-attribute detection.
func WithUniqueAttributesRequired(v bool) Option {
	return func(c *Config) { c.UniqueAttributesRequired = v }
}

// WithDoctypePresence overrides whether a DOCTYPE may, must, or must not
// appear.
func WithDoctypePresence(p Presence) Option { return func(c *Config) { c.DoctypePresence = p } }

// WithXMLDeclarationPresence overrides whether an XML declaration may,
// must, or must not appear.
func WithXMLDeclarationPresence(p Presence) Option {
	return func(c *Config) { c.XMLDeclarationPresence = p }
}

// lenient reports whether the configured balancing mode recovers from
// malformed nesting instead of raising UnexpectedStructure.
func (c *Config) lenient() bool {
	return c.Dialect == HTML && c.ElementBalancing == BalancingAutoOpenAndClose
}
