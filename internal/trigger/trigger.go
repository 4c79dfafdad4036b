// internal/trigger/trigger.go
package trigger

// NotTriggered is returned by Check when the stream does not contain
// the trigger's pattern.
const NotTriggered = -1

// Trigger is the interface all triggers must implement. A trigger
// watches the growing label stream for a condition and fires its bound
// action when the condition holds.
type Trigger interface {
	// Check scans the full stream accumulated so far. On a match it
	// invokes the bound action and returns the stream index just past
	// the matched symbols; otherwise it returns NotTriggered. A non-nil
	// error means this trigger could not be evaluated against the
	// current stream.
	Check(stream []string) (int, error)
	// Type returns the configuration type name, e.g. "transition".
	Type() string
	// String identifies the trigger in logs and action output.
	String() string
}
