// internal/trigger/loader.go
package trigger

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avocetlabs/songwatch/internal/action"
)

// triggerTypes is the closed set of recognized trigger types.
var triggerTypes = map[string]bool{
	"transition": true,
}

// ConfigError reports an invalid trigger configuration. Loading is all
// or nothing: when a ConfigError is returned, no trigger was
// constructed.
type ConfigError struct {
	Path   string
	Entry  int // index of the offending entry, -1 for file-level problems
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Entry < 0 {
		return fmt.Sprintf("trigger config %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("trigger config %s: entry %d: %s", e.Path, e.Entry, e.Reason)
}

// LoadTriggers parses the trigger configuration file and returns the
// triggers in declaration order, each bound to its resolved action.
//
// All entries are validated before any trigger is constructed, so a
// session never starts with a partially configured trigger list. The
// first violation found, in declaration order, aborts the load with a
// *ConfigError.
func LoadTriggers(path string, reg *action.Registry) ([]Trigger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Entry: -1, Reason: fmt.Sprintf("reading file: %v", err)}
	}

	var doc struct {
		Triggers *[]map[string]string `yaml:"triggers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Path: path, Entry: -1, Reason: fmt.Sprintf("parsing file: %v", err)}
	}
	if doc.Triggers == nil {
		return nil, &ConfigError{Path: path, Entry: -1, Reason: "no 'triggers' list in this file"}
	}

	entries := *doc.Triggers
	for i, entry := range entries {
		if err := validateEntry(entry, reg); err != nil {
			return nil, &ConfigError{Path: path, Entry: i, Reason: err.Error()}
		}
	}

	triggers := make([]Trigger, 0, len(entries))
	for i, entry := range entries {
		trig, err := New(Spec{
			Type:     entry["type"],
			Callback: entry["callback"],
			From:     entry["from"],
			To:       entry["to"],
		}, reg)
		if err != nil {
			// Validation should have caught anything New can reject.
			return nil, &ConfigError{Path: path, Entry: i, Reason: err.Error()}
		}
		triggers = append(triggers, trig)
	}
	return triggers, nil
}

// validateEntry checks one raw trigger declaration against the
// registry and the per-type field requirements.
func validateEntry(entry map[string]string, reg *action.Registry) error {
	typ, ok := entry["type"]
	if !ok {
		return fmt.Errorf("trigger has no type")
	}
	if !triggerTypes[typ] {
		return fmt.Errorf("no such trigger type as %q", typ)
	}

	callback, ok := entry["callback"]
	if !ok {
		return fmt.Errorf("trigger has no callback")
	}
	if _, ok := reg.Get(callback); !ok {
		return fmt.Errorf("%q is an unknown callback", callback)
	}

	switch typ {
	case "transition":
		if _, ok := entry["from"]; !ok {
			return fmt.Errorf("transition triggers need a 'from' field")
		}
		// An empty 'to' would match trivially and fire on every
		// update, so it is rejected here rather than at fire time.
		if to, ok := entry["to"]; !ok || to == "" {
			return fmt.Errorf("transition triggers need a non-empty 'to' field")
		}
	}
	return nil
}
