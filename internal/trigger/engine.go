// internal/trigger/engine.go
package trigger

import (
	"fmt"
	"io"
	"log/slog"
)

// EvaluationError reports that a single trigger failed to evaluate
// against the current stream. It is isolated to that trigger: the
// engine keeps evaluating the remaining triggers and stays usable for
// future updates.
type EvaluationError struct {
	Trigger string
	Err     error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating %s: %v", e.Trigger, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of evaluating one trigger against the stream.
type Result struct {
	Trigger Trigger
	End     int // stream index just past the match, or NotTriggered
	Err     error
}

// Fired reports whether the trigger matched (and so its action ran).
func (r Result) Fired() bool {
	return r.Err == nil && r.End != NotTriggered
}

// Engine evaluates a fixed, ordered trigger list against the label
// stream. The trigger list must not change once the engine is built.
type Engine struct {
	triggers []Trigger
	logger   *slog.Logger
}

// NewEngine creates an engine over the given triggers. A nil logger
// discards evaluation-error logs.
func NewEngine(triggers []Trigger, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{triggers: triggers, logger: logger}
}

// Triggers returns the engine's trigger list in declaration order.
func (e *Engine) Triggers() []Trigger {
	return e.triggers
}

// OnNewSymbol evaluates every trigger, in declaration order, against
// the stream as it stands after the latest append. Matching triggers
// invoke their actions before their Result is recorded. The caller
// must not mutate the stream while a call is in progress.
//
// Each call rescans the full stream, so a transition that remains
// present keeps firing on every later update. A trigger that fails to
// evaluate yields a Result carrying an *EvaluationError; the failure
// does not suppress the remaining triggers.
func (e *Engine) OnNewSymbol(stream []string) []Result {
	results := make([]Result, 0, len(e.triggers))
	for _, trig := range e.triggers {
		end, err := trig.Check(stream)
		if err != nil {
			err = &EvaluationError{Trigger: trig.String(), Err: err}
			e.logger.Warn("trigger evaluation failed", "trigger", trig.String(), "error", err)
			results = append(results, Result{Trigger: trig, End: NotTriggered, Err: err})
			continue
		}
		results = append(results, Result{Trigger: trig, End: end})
	}
	return results
}
