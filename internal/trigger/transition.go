// internal/trigger/transition.go
package trigger

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/avocetlabs/songwatch/internal/action"
)

// Transition fires whenever the stream contains an occurrence of the
// "from" pattern immediately followed by the "to" pattern, anywhere in
// the stream so far. Both patterns are regular expressions over the
// symbol alphabet, so "from" can describe whole families of segments.
//
// Because the full stream is rescanned on every update, a transition
// that stays present in the stream keeps matching on every later
// update. See Engine.OnNewSymbol.
type Transition struct {
	from   string
	to     string
	action action.Func

	// Compiled lazily on first Check so a pattern that cannot compile
	// surfaces as an evaluation error for this trigger only, without
	// taking down the rest of the trigger list.
	re *regexp.Regexp
}

// NewTransition creates a transition trigger with a bound action.
func NewTransition(from, to string, fn action.Func) (*Transition, error) {
	if fn == nil {
		return nil, fmt.Errorf("transition trigger %s -> %s: action must not be nil", from, to)
	}
	if to == "" {
		return nil, fmt.Errorf("transition trigger from %s: 'to' pattern must not be empty", from)
	}
	return &Transition{from: from, to: to, action: fn}, nil
}

func (t *Transition) Type() string {
	return "transition"
}

func (t *Transition) String() string {
	return fmt.Sprintf("Trigger: %s -> %s", t.from, t.to)
}

// Check searches the whole stream for the from/to transition. On a
// match it invokes the bound action with the matched symbol span and
// returns the symbol index just past the match.
func (t *Transition) Check(stream []string) (int, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.from + t.to)
		if err != nil {
			return NotTriggered, fmt.Errorf("compiling pattern: %w", err)
		}
		t.re = re
	}

	joined, offsets := joinStream(stream)
	loc := t.re.FindStringIndex(joined)
	if loc == nil {
		return NotTriggered, nil
	}

	m := action.Match{
		Start: symbolAt(offsets, loc[0]),
		End:   symbolEnd(offsets, loc[1]),
	}
	t.action(t, stream, m)
	return m.End, nil
}

// joinStream concatenates the stream symbols into one string for regex
// search and records the byte offset where each symbol starts.
// offsets has len(stream)+1 entries; the last is the total length.
func joinStream(stream []string) (string, []int) {
	offsets := make([]int, len(stream)+1)
	total := 0
	for i, sym := range stream {
		offsets[i] = total
		total += len(sym)
	}
	offsets[len(stream)] = total
	return strings.Join(stream, ""), offsets
}

// symbolAt maps a byte offset in the joined string to the index of the
// symbol containing it.
func symbolAt(offsets []int, byteOff int) int {
	i := sort.SearchInts(offsets, byteOff)
	if i < len(offsets) && offsets[i] == byteOff {
		return i
	}
	// The offset falls inside symbol i-1.
	return i - 1
}

// symbolEnd maps the exclusive byte end of a match to the exclusive
// symbol index: a symbol only partially covered still counts as part
// of the match.
func symbolEnd(offsets []int, byteEnd int) int {
	return sort.SearchInts(offsets, byteEnd)
}
