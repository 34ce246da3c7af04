package param

import (
	"fmt"
	"reflect"
)

// Role classifies what a parameter contributes to the dependency graph.
type Role int

const (
	// RoleInput marks a parameter whose files the job reads.
	RoleInput Role = iota
	// RoleOutput marks a parameter whose files the job produces.
	RoleOutput
	// RoleArgument marks a plain command argument with no graph meaning.
	RoleArgument
)

// String returns the role name as it appears in tags and violation messages.
func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	case RoleArgument:
		return "argument"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Descriptor is the static metadata for one role-tagged field of a job type.
// Descriptors are derived once per type, cached, and shared read-only across
// every instance of that type; nothing instance-specific is ever stored here.
type Descriptor struct {
	// Name is the declared parameter name (tag name or derived snake_case).
	Name string
	// Role is the parameter's graph role.
	Role Role
	// Required marks the parameter as mandatory unless an Excludes partner
	// holds a value.
	Required bool
	// Excludes names the mutually exclusive partner parameters.
	Excludes []string
	// Doc is the human-readable description carried into violation messages.
	Doc string

	// index is the field-index chain from the job struct down through nested
	// holder structs to the field that actually holds the value. Pointer
	// intermediates are dereferenced (and allocated on write paths) step by
	// step, which is why this is walked manually rather than handed to
	// reflect.Value.FieldByIndex.
	index []int
	// typ is the declared type of the target field.
	typ reflect.Type
}

// FieldType returns the declared Go type of the parameter's field.
func (d *Descriptor) FieldType() reflect.Type {
	return d.typ
}

// value walks the access path for reading. The returned value is invalid
// when a nil pointer sits anywhere along the chain.
func (d *Descriptor) value(job reflect.Value) reflect.Value {
	v := job
	for _, i := range d.index {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

// settable walks the access path for writing, allocating any nil pointer
// intermediates so the target field is addressable.
func (d *Descriptor) settable(job reflect.Value) (reflect.Value, error) {
	v := job
	for _, i := range d.index {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("parameter %q: nil holder is not settable", d.Name)
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	if !v.CanSet() {
		return reflect.Value{}, fmt.Errorf("parameter %q: field is not settable", d.Name)
	}
	return v, nil
}

// Value returns the parameter's current value on job. The boolean is false
// when a nil holder along the access path makes the value unreachable.
func (d *Descriptor) Value(job any) (any, bool) {
	v := d.value(instanceOf(job))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// Addr returns a pointer to the parameter's field on job, allocating nil
// holder intermediates as needed. Front ends use it to bind decoded values
// through the access path.
func (d *Descriptor) Addr(job any) (any, error) {
	v, err := d.settable(instanceOf(job))
	if err != nil {
		return nil, err
	}
	return v.Addr().Interface(), nil
}

// instanceOf unwraps a job instance to its addressable struct value. Job
// instances are always pointers to structs; anything else is a programmer
// error surfaced by the subsequent reflect calls.
func instanceOf(job any) reflect.Value {
	v := reflect.ValueOf(job)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v
}
