// internal/action/registry.go
// Actions are the side effects triggers fire. The registry maps the
// callback names used in trigger configuration to functions, so a bad
// name is caught at load time instead of the first time a trigger
// matches mid-session.
package action

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Trigger is the view of a firing trigger an action receives.
type Trigger interface {
	String() string
}

// Match is the half-open span [Start, End) of stream symbols a trigger
// matched.
type Match struct {
	Start int
	End   int
}

// Func is a side-effecting action invoked when a trigger matches.
// Actions must not mutate the stream.
type Func func(trig Trigger, stream []string, m Match)

// Registry maps action names to functions. Populate it at process
// start, before loading triggers; it must not change during a session.
type Registry struct {
	actions map[string]Func
}

// contextSymbols is how many symbols print_to_screen shows on each
// side of the match.
const contextSymbols = 10

// NewRegistry returns a registry holding the built-in actions, with
// print_to_screen writing to out. A nil out means os.Stdout.
func NewRegistry(out io.Writer) *Registry {
	if out == nil {
		out = os.Stdout
	}
	return &Registry{
		actions: map[string]Func{
			"print_to_screen": printToScreen(out),
		},
	}
}

// Register adds a named action. Registering a name twice is an error
// so a caller cannot silently shadow a built-in.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("action name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("action %q: function must not be nil", name)
	}
	if _, ok := r.actions[name]; ok {
		return fmt.Errorf("action %q is already registered", name)
	}
	r.actions[name] = fn
	return nil
}

// Get returns the action registered under name.
func (r *Registry) Get(name string) (Func, bool) {
	fn, ok := r.actions[name]
	return fn, ok
}

// Names returns the registered action names, unordered.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	return names
}

// printToScreen builds the built-in action that prints the matched
// region with up to contextSymbols symbols of context on each side,
// and notes how many stream symbols fall outside the printed window.
func printToScreen(out io.Writer) Func {
	return func(trig Trigger, stream []string, m Match) {
		start := m.Start - contextSymbols
		if start < 0 {
			start = 0
		}
		end := m.End + contextSymbols
		if end > len(stream) {
			end = len(stream)
		}

		hidden := len(stream) - (end - start)
		fmt.Fprintf(out, "%s was triggered! State:\n\t...%s\n\t(%d segments not printed)\n",
			trig, strings.Join(stream[start:end], "-"), hidden)
	}
}
