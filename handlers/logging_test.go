package handlers_test

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	atto "github.com/ashkart/attoparser"
	"github.com/ashkart/attoparser/handlers"
)

func TestLoggingEmitsElementAndTextEntries(t *testing.T) {
	log, hook := logrustest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	h := handlers.NewLogging(log)
	err := atto.Parse(strings.NewReader("<p>hi</p>"), h, atto.NewHTMLConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}

	wantSubset := []string{"document start", "open element", "text", "close element", "document end"}
	for _, want := range wantSubset {
		found := false
		for _, got := range messages {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("log entries %v missing %q", messages, want)
		}
	}
}

func TestLoggingWarnsOnUnmatchedClose(t *testing.T) {
	log, hook := logrustest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	h := handlers.NewLogging(log)
	err := atto.Parse(strings.NewReader("<p>hi</span></p>"), h, atto.NewHTMLConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	found := false
	for _, e := range hook.AllEntries() {
		if e.Message == "unmatched close tag" && e.Level == logrus.WarnLevel {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Warn-level \"unmatched close tag\" entry")
	}
}

func TestNewLoggingDefaultsToStandardLogger(t *testing.T) {
	h := handlers.NewLogging(nil)
	if h.Log != logrus.StandardLogger() {
		t.Fatalf("NewLogging(nil) set Log to %v, want logrus.StandardLogger()", h.Log)
	}
}
