package atto_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	atto "github.com/ashkart/attoparser"
	"github.com/ashkart/attoparser/handlers"
)

// event is a flattened record of one dispatched call, used across the
// scenario tests below to assert on ordering, names, and position
// monotonicity without each test needing its own bespoke recorder.
type event struct {
	kind      string
	name      string
	line, col int
}

type recorder struct {
	handlers.Base
	events []event
}

func (r *recorder) OpenElementStart(buf []byte, name atto.Partition) error {
	r.events = append(r.events, event{"open", name.String(buf), name.Line, name.Col})
	return nil
}

func (r *recorder) CloseElementStart(buf []byte, name atto.Partition) error {
	r.events = append(r.events, event{"close", name.String(buf), name.Line, name.Col})
	return nil
}

func (r *recorder) StandaloneElementStart(buf []byte, name atto.Partition, minimized bool) error {
	r.events = append(r.events, event{"standalone", name.String(buf), name.Line, name.Col})
	return nil
}

func (r *recorder) AutoOpenElementStart(name string, line, col int) error {
	r.events = append(r.events, event{"auto-open", name, line, col})
	return nil
}

func (r *recorder) AutoCloseElementStart(name string, line, col int) error {
	r.events = append(r.events, event{"auto-close", name, line, col})
	return nil
}

func (r *recorder) UnmatchedCloseElementStart(buf []byte, name atto.Partition) error {
	r.events = append(r.events, event{"unmatched-close", name.String(buf), name.Line, name.Col})
	return nil
}

func (r *recorder) Text(buf []byte, content atto.Partition) error {
	r.events = append(r.events, event{"text", content.String(buf), content.Line, content.Col})
	return nil
}

func (r *recorder) names(kind string) []string {
	var out []string
	for _, e := range r.events {
		if e.kind == kind {
			out = append(out, e.name)
		}
	}
	return out
}

func (r *recorder) assertMonotonic(t *testing.T) {
	t.Helper()
	for i := 1; i < len(r.events); i++ {
		prev, cur := r.events[i-1], r.events[i]
		if cur.line < prev.line || (cur.line == prev.line && cur.col < prev.col) {
			t.Fatalf("event %d (%+v) regresses position before event %d (%+v)", i, cur, i-1, prev)
		}
	}
}

func parseHTML(t *testing.T, src string) *recorder {
	t.Helper()
	r := &recorder{}
	err := atto.Parse(strings.NewReader(src), r, atto.NewHTMLConfig())
	require.NoError(t, err)
	return r
}

func TestSimpleElement(t *testing.T) {
	r := parseHTML(t, "<p>hi</p>")
	assert.Equal(t, []string{"p"}, r.names("open"))
	assert.Equal(t, []string{"p"}, r.names("close"))
	assert.Equal(t, []string{"hi"}, r.names("text"))
	r.assertMonotonic(t)
}

func TestVoidElementIsStandalone(t *testing.T) {
	r := parseHTML(t, "<br>")
	assert.Equal(t, []string{"br"}, r.names("standalone"))
	assert.Empty(t, r.names("open"))
	assert.Empty(t, r.names("close"))
}

func TestLiAutoClosesPriorLi(t *testing.T) {
	r := parseHTML(t, "<ul><li>a<li>b</ul>")
	// The second <li> implicitly closes the first; the closing </ul> then
	// implicitly closes the still-open second <li> before matching <ul>
	// itself, which is an explicit close, not an auto-close.
	assert.Equal(t, []string{"ul", "li", "li"}, r.names("open"))
	assert.Equal(t, []string{"li", "li"}, r.names("auto-close"))
	assert.Equal(t, []string{"ul"}, r.names("close"))
	r.assertMonotonic(t)
}

func TestRawTextScriptIsOpaque(t *testing.T) {
	r := parseHTML(t, "<script>if (a<b) {}</script>")
	assert.Equal(t, []string{"script"}, r.names("open"))
	assert.Equal(t, []string{"script"}, r.names("close"))
	// The "<b" inside the script body must not be mistaken for a tag.
	texts := r.names("text")
	require.Len(t, texts, 1)
	assert.Equal(t, "if (a<b) {}", texts[0])
}

func TestDoctypeThenElement(t *testing.T) {
	r := parseHTML(t, "<!DOCTYPE html><p>x</p>")
	assert.Equal(t, []string{"p"}, r.names("open"))
	assert.Equal(t, []string{"x"}, r.names("text"))
}

func TestWellNestedAtDocumentEnd(t *testing.T) {
	r := parseHTML(t, "<div><span>unterminated")
	// Neither element is explicitly closed; the balancer must still
	// restore the empty-stack invariant via synthetic auto-closes.
	assert.Equal(t, []string{"span", "div"}, r.names("auto-close"))
}

func TestUnmatchedCloseTagIsReportedNotFatal(t *testing.T) {
	r := parseHTML(t, "<p>hi</span></p>")
	assert.Equal(t, []string{"span"}, r.names("unmatched-close"))
	assert.Equal(t, []string{"p"}, r.names("close"))
}

func TestAttributeParsing(t *testing.T) {
	ch := &captureHandler{}
	err := atto.Parse(strings.NewReader(`<a href="x" data-id=42 disabled>t</a>`), ch, atto.NewHTMLConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"href=x", "data-id=42", "disabled="}, ch.pairs)
}

type captureHandler struct {
	handlers.Base
	pairs []string
}

func (c *captureHandler) Attribute(buf []byte, name, operator, valueContent, valueOuter atto.Partition) error {
	c.pairs = append(c.pairs, name.String(buf)+"="+valueContent.String(buf))
	return nil
}

// TestValuelessAttributeWhitespaceSurvivesRoundTrip guards against the
// whitespace after a value-less attribute (e.g. "disabled") being dropped
// on the floor instead of reported as InnerWhiteSpace: concatenating every
// partition a tag reports must reproduce the tag's exact source bytes
// (spec.md §8's round-trip invariant).
func TestValuelessAttributeWhitespaceSurvivesRoundTrip(t *testing.T) {
	src := `<input disabled   class="x">`
	rt := &roundTripHandler{}
	err := atto.Parse(strings.NewReader(src), rt, atto.NewHTMLConfig())
	require.NoError(t, err)
	assert.Equal(t, src, rt.rebuilt)
}

type roundTripHandler struct {
	handlers.Base
	rebuilt string
}

func (r *roundTripHandler) StandaloneElementStart(buf []byte, name atto.Partition, minimized bool) error {
	r.rebuilt += "<" + name.String(buf)
	return nil
}

func (r *roundTripHandler) StandaloneElementEnd(buf []byte, name atto.Partition, minimized bool) error {
	r.rebuilt += ">"
	return nil
}

func (r *roundTripHandler) OpenElementStart(buf []byte, name atto.Partition) error {
	r.rebuilt += "<" + name.String(buf)
	return nil
}

func (r *roundTripHandler) OpenElementEnd(buf []byte, name atto.Partition) error {
	r.rebuilt += ">"
	return nil
}

func (r *roundTripHandler) InnerWhiteSpace(buf []byte, content atto.Partition) error {
	r.rebuilt += content.String(buf)
	return nil
}

func (r *roundTripHandler) Attribute(buf []byte, name, operator, valueContent, valueOuter atto.Partition) error {
	r.rebuilt += name.String(buf) + operator.String(buf) + valueOuter.String(buf)
	return nil
}

func TestXMLDeclarationAndSelfClosingRoot(t *testing.T) {
	var decl string
	h := &xmlDeclHandler{}
	err := atto.Parse(strings.NewReader(`<?xml version="1.0"?><r/>`), h, atto.NewXMLConfig())
	require.NoError(t, err)
	decl = h.version
	assert.Equal(t, "1.0", decl)
	assert.Equal(t, []string{"r"}, h.standalone)
}

type xmlDeclHandler struct {
	handlers.Base
	version    string
	standalone []string
}

func (x *xmlDeclHandler) XMLDeclaration(buf []byte, keyword, version, encoding, standalone, outer atto.Partition) error {
	x.version = version.String(buf)
	return nil
}

func (x *xmlDeclHandler) StandaloneElementStart(buf []byte, name atto.Partition, minimized bool) error {
	x.standalone = append(x.standalone, name.String(buf))
	return nil
}

func TestMultipleRootsRejectedInXML(t *testing.T) {
	err := atto.Parse(strings.NewReader(`<a/><b/>`), &handlers.Base{}, atto.NewXMLConfig())
	require.Error(t, err)
	pe, ok := err.(*atto.ParseError)
	require.True(t, ok)
	assert.Equal(t, atto.ConfigurationViolation, pe.Kind)
}

func TestCommentAndCDATA(t *testing.T) {
	var comments, cdata []string
	h := &commentHandler{}
	err := atto.Parse(strings.NewReader(`<!-- hi --><![CDATA[raw<data]]>`), h, atto.NewHTMLConfig())
	require.NoError(t, err)
	comments = h.comments
	cdata = h.cdata
	assert.Equal(t, []string{" hi "}, comments)
	assert.Equal(t, []string{"raw<data"}, cdata)
}

type commentHandler struct {
	handlers.Base
	comments []string
	cdata    []string
}

func (c *commentHandler) Comment(buf []byte, content, outer atto.Partition) error {
	c.comments = append(c.comments, content.String(buf))
	return nil
}

func (c *commentHandler) CDATASection(buf []byte, content, outer atto.Partition) error {
	c.cdata = append(c.cdata, content.String(buf))
	return nil
}

func TestHandlerErrorAbortsParse(t *testing.T) {
	boom := assert.AnError
	h := &erroringHandler{err: boom}
	err := atto.Parse(strings.NewReader("<p>hi</p>"), h, atto.NewHTMLConfig())
	require.Error(t, err)
	pe, ok := err.(*atto.ParseError)
	require.True(t, ok)
	assert.Equal(t, atto.HandlerError, pe.Kind)
}

type erroringHandler struct {
	handlers.Base
	err error
}

func (h *erroringHandler) OpenElementStart(buf []byte, name atto.Partition) error {
	return h.err
}

func TestIdempotentParseOfSameInput(t *testing.T) {
	src := "<div class=\"a\"><p>one</p><p>two</p></div>"
	r1 := parseHTML(t, src)
	r2 := parseHTML(t, src)
	if diff := cmp.Diff(r1.events, r2.events, cmp.AllowUnexported(event{})); diff != "" {
		t.Errorf("two parses of the same input diverged:\n%s", diff)
	}
}

func TestFullEventTraceForNestedLists(t *testing.T) {
	r := parseHTML(t, "<ul><li>a<li>b</ul>")
	// Every synthetic auto-close takes the position of whatever real tag
	// triggered it (the incoming <li>, or the closing </ul>), which is why
	// an auto-close and the event right after it can land on the same
	// column rather than strictly advancing.
	want := []event{
		{kind: "open", name: "ul", line: 1, col: 2},
		{kind: "open", name: "li", line: 1, col: 6},
		{kind: "text", name: "a", line: 1, col: 9},
		{kind: "auto-close", name: "li", line: 1, col: 11},
		{kind: "open", name: "li", line: 1, col: 11},
		{kind: "text", name: "b", line: 1, col: 14},
		{kind: "auto-close", name: "li", line: 1, col: 17},
		{kind: "close", name: "ul", line: 1, col: 17},
	}
	if diff := cmp.Diff(want, r.events, cmp.AllowUnexported(event{})); diff != "" {
		t.Errorf("event trace mismatch (-want +got):\n%s", diff)
	}
}

func TestColgroupAutoClosesOnNonWhitespaceText(t *testing.T) {
	r := parseHTML(t, "<table><colgroup><col>x</table>")
	assert.Equal(t, []string{"table", "colgroup"}, r.names("open"))
	assert.Equal(t, []string{"col"}, r.names("standalone"))
	assert.Equal(t, []string{"colgroup"}, r.names("auto-close"))
	assert.Equal(t, []string{"table"}, r.names("close"))
	r.assertMonotonic(t)
}

func TestColgroupAutoClosesOnFollowingTableRow(t *testing.T) {
	r := parseHTML(t, "<table><colgroup><col><tr><td>a</td></tr></table>")
	assert.Equal(t, []string{"table", "colgroup", "tr", "td"}, r.names("open"))
	assert.Equal(t, []string{"col"}, r.names("standalone"))
	assert.Equal(t, []string{"colgroup"}, r.names("auto-close"))
	r.assertMonotonic(t)
}

func TestCaptionDoesNotCloseOnOrdinaryText(t *testing.T) {
	r := parseHTML(t, "<table><caption>Totals</caption><tr><td>a</td></tr></table>")
	assert.Equal(t, []string{"Totals"}, r.names("text")[:1])
	assert.Empty(t, r.names("auto-close"))
	assert.Equal(t, []string{"table", "caption", "tr", "td"}, r.names("open"))
	assert.Equal(t, []string{"caption", "td", "tr", "table"}, r.names("close"))
	r.assertMonotonic(t)
}

func TestCaptionAutoClosesOnFollowingTableRow(t *testing.T) {
	r := parseHTML(t, "<table><caption>Totals<tr><td>a</td></tr></table>")
	assert.Equal(t, []string{"table", "caption", "tr", "td"}, r.names("open"))
	assert.Equal(t, []string{"caption"}, r.names("auto-close"))
	r.assertMonotonic(t)
}
