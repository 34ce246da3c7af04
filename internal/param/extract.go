package param

import (
	"fmt"
	"reflect"

	"github.com/vk/pipewright/internal/fileref"
)

// Files resolves the parameter's current value on job into zero or more file
// references. Supported shapes: absent, a single fileref.Ref, a single
// fileref.Holder, or a slice/array/map of either. Anything else is an
// ExtractError naming the parameter and the offending value. Order of the
// result is not meaningful; callers treat it as a set.
func Files(job any, d *Descriptor) ([]fileref.Ref, error) {
	v := d.value(instanceOf(job))
	return filesOf(v, d)
}

// FileOf is the exactly-one variant of Files, for contexts such as
// relocation that require a single file.
func FileOf(job any, d *Descriptor) (fileref.Ref, error) {
	refs, err := Files(job, d)
	if err != nil {
		return "", err
	}
	if len(refs) != 1 {
		return "", fmt.Errorf("parameter %q: expected exactly one file, resolved %d", d.Name, len(refs))
	}
	return refs[0], nil
}

// HasValue reports whether the parameter currently holds a value on job.
// Nil pointers, empty strings and collections, empty references and holders
// delegating to an empty reference all count as absent. This presence
// predicate never fails and is shared by the validation engine and the
// command-fragment builders.
func HasValue(job any, d *Descriptor) bool {
	v := d.value(instanceOf(job))
	return hasValue(v)
}

func filesOf(v reflect.Value, d *Descriptor) ([]fileref.Ref, error) {
	v = deref(v)
	if !v.IsValid() {
		return nil, nil
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		var refs []fileref.Ref
		for i := 0; i < v.Len(); i++ {
			ref, ok, err := scalarFile(v.Index(i), d)
			if err != nil {
				return nil, err
			}
			if ok {
				refs = append(refs, ref)
			}
		}
		return refs, nil
	case reflect.Map:
		var refs []fileref.Ref
		iter := v.MapRange()
		for iter.Next() {
			ref, ok, err := scalarFile(iter.Value(), d)
			if err != nil {
				return nil, err
			}
			if ok {
				refs = append(refs, ref)
			}
		}
		return refs, nil
	default:
		ref, ok, err := scalarFile(v, d)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return []fileref.Ref{ref}, nil
	}
}

// scalarFile resolves one non-container value to its file reference. The
// boolean is false when the value is absent (empty reference, nil holder).
func scalarFile(v reflect.Value, d *Descriptor) (fileref.Ref, bool, error) {
	v = deref(v)
	if !v.IsValid() {
		return "", false, nil
	}
	if v.Type() == refType {
		ref := v.Interface().(fileref.Ref)
		return ref, ref != "", nil
	}
	if h, ok := asHolder(v); ok {
		ref := h.FileRef()
		return ref, ref != "", nil
	}
	return "", false, &ExtractError{Param: d.Name, Value: v.Interface()}
}

// asHolder extracts the fileref.Holder capability from a value, taking the
// address when the interface is implemented on the pointer receiver. A
// non-addressable value (a map element, say) is copied first so the
// pointer-receiver methods remain callable for reads.
func asHolder(v reflect.Value) (fileref.Holder, bool) {
	if v.Type().Implements(holderType) {
		return v.Interface().(fileref.Holder), true
	}
	if reflect.PointerTo(v.Type()).Implements(holderType) {
		if !v.CanAddr() {
			copied := reflect.New(v.Type())
			copied.Elem().Set(v)
			v = copied.Elem()
		}
		return v.Addr().Interface().(fileref.Holder), true
	}
	return nil, false
}

func hasValue(v reflect.Value) bool {
	v = deref(v)
	if !v.IsValid() {
		return false
	}
	if v.Type() == refType {
		return v.Interface().(fileref.Ref) != ""
	}
	if h, ok := asHolder(v); ok {
		return h.FileRef() != ""
	}
	switch v.Kind() {
	case reflect.String:
		return v.Len() > 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len() > 0
	default:
		// Scalars (numbers, bools, structs) count as present once reachable;
		// "unset" for them is expressed with a pointer field.
		return true
	}
}

// deref unwraps pointers and interfaces, returning an invalid value on nil.
func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
