// internal/trigger/factory.go
package trigger

import (
	"fmt"

	"github.com/avocetlabs/songwatch/internal/action"
)

// Spec is the raw parsed form of one trigger declaration. It only
// lives long enough to construct a Trigger from it.
type Spec struct {
	Type     string `yaml:"type"`
	Callback string `yaml:"callback"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// New creates a trigger from a spec, resolving its callback against
// the registry.
func New(spec Spec, reg *action.Registry) (Trigger, error) {
	fn, ok := reg.Get(spec.Callback)
	if !ok {
		return nil, fmt.Errorf("unknown callback: %s", spec.Callback)
	}

	switch spec.Type {
	case "transition":
		return NewTransition(spec.From, spec.To, fn)
	default:
		return nil, fmt.Errorf("unknown trigger type: %s", spec.Type)
	}
}
