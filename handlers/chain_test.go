package handlers_test

import (
	"strings"
	"testing"

	atto "github.com/ashkart/attoparser"
	"github.com/ashkart/attoparser/handlers"
)

type orderRecorder struct {
	handlers.Base
	calls *[]string
	label string
}

func (o *orderRecorder) OpenElementStart(buf []byte, name atto.Partition) error {
	*o.calls = append(*o.calls, o.label+":"+name.String(buf))
	return nil
}

func TestChainFansOutInOrder(t *testing.T) {
	var calls []string
	chain := handlers.NewChain(
		&orderRecorder{calls: &calls, label: "a"},
		&orderRecorder{calls: &calls, label: "b"},
	)
	if err := atto.Parse(strings.NewReader("<p>x</p>"), chain, atto.NewHTMLConfig()); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"a:p", "b:p"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

type erroringLink struct {
	handlers.Base
	err error
}

func (e *erroringLink) OpenElementStart(buf []byte, name atto.Partition) error {
	return e.err
}

func TestChainStopsAtFirstError(t *testing.T) {
	var calls []string
	boom := errTest("boom")
	chain := handlers.NewChain(
		&erroringLink{err: boom},
		&orderRecorder{calls: &calls, label: "never"},
	)
	err := atto.Parse(strings.NewReader("<p>x</p>"), chain, atto.NewHTMLConfig())
	if err == nil {
		t.Fatalf("expected an error from the first link")
	}
	if len(calls) != 0 {
		t.Fatalf("second link should never have run, got %v", calls)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

type configCapturer struct {
	handlers.Base
	cfg *atto.Config
}

func (c *configCapturer) SetParseConfiguration(cfg *atto.Config) {
	c.cfg = cfg
}

func TestChainPropagatesBackChannelToLinksThatWantIt(t *testing.T) {
	capturer := &configCapturer{}
	chain := handlers.NewChain(capturer, &handlers.Base{})
	cfg := atto.NewHTMLConfig()
	if err := atto.Parse(strings.NewReader("<p></p>"), chain, cfg); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if capturer.cfg != cfg {
		t.Errorf("SetParseConfiguration was not propagated to the link that implements ConfigAware")
	}
}
