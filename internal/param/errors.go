package param

import "fmt"

// ConfigError reports a broken parameter declaration on a job type: an xor
// list names a parameter that does not exist anywhere among the type's
// discovered parameters. It is detected at introspection time and is fatal
// for that job type, never deferred to freeze time.
type ConfigError struct {
	Type  string // job type name
	Param string // the parameter carrying the bad xor list
	Ref   string // the non-existent name it references
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("job type %s: parameter %q excludes unknown parameter %q", e.Type, e.Param, e.Ref)
}

// ExtractError reports a role-tagged parameter whose run-time value has no
// supported file shape. It is fatal to freezing the specification that holds
// the value.
type ExtractError struct {
	Param string
	Value any
}

// Error implements the error interface for ExtractError.
func (e *ExtractError) Error() string {
	return fmt.Sprintf(
		"parameter %q holds %T (%v), which is not a file and exposes no file capability; re-tag the field as an argument or implement fileref.Holder on the value type",
		e.Param, e.Value, e.Value)
}
