package atto

import "golang.org/x/net/html/atom"

// stackEntry is one frame of the open-element stack (3): the lowercased
// element name as tokenized, plus its interned atom for fast rule lookups
// (0 for names outside the well-known HTML vocabulary).
type stackEntry struct {
	name string
	atom atom.Atom
}

// elementStack is the open-element stack maintained by the auto-balancer.
// It is empty at document start and must be empty at document end (3);
// Parser.Parse drives that closing itself (via drainStack) by consulting
// it after the last token.
type elementStack struct {
	entries []stackEntry
}

func (s *elementStack) push(e stackEntry) {
	s.entries = append(s.entries, e)
}

func (s *elementStack) pop() stackEntry {
	n := len(s.entries) - 1
	e := s.entries[n]
	s.entries = s.entries[:n]
	return e
}

func (s *elementStack) top() (stackEntry, bool) {
	if len(s.entries) == 0 {
		return stackEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *elementStack) empty() bool { return len(s.entries) == 0 }

// indexOf returns the index of the nearest (topmost) stack entry with the
// given name, or -1 if none is open.
func (s *elementStack) indexOf(name string) int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].name == name {
			return i
		}
	}
	return -1
}

// popImplicitClosures returns, innermost first, the sequence of stack-top
// entries that should be popped before opening incoming, applying the
// optional-close rule table to a fixed point (4.G step 2, design note 9).
func (s *elementStack) popImplicitClosures(incoming atom.Atom) []stackEntry {
	var popped []stackEntry
	for {
		top, ok := s.top()
		if !ok || !closesOnOpen(incoming, top.atom) {
			break
		}
		popped = append(popped, s.pop())
	}
	return popped
}

// popAbove returns, innermost first, the entries strictly above the stack
// entry at idx, popping them from the stack. Used when a close tag
// matches an element lower in the stack than the current top (4.G: "else
// if e appears lower in the stack").
func (s *elementStack) popAbove(idx int) []stackEntry {
	var popped []stackEntry
	for len(s.entries)-1 > idx {
		popped = append(popped, s.pop())
	}
	return popped
}

// drain pops every remaining entry, innermost first, for the
// document-end auto-close described in 4.G.
func (s *elementStack) drain() []stackEntry {
	var popped []stackEntry
	for !s.empty() {
		popped = append(popped, s.pop())
	}
	return popped
}
