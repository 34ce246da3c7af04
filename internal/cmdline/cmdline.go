// Package cmdline provides pure command-fragment builders for job kinds
// that render a command line. Every builder is a function over an explicit
// has-value predicate: absent values yield empty fragments that Join then
// drops, so optional parameters disappear from the rendered command instead
// of leaving dangling flags. Nothing here executes or touches a shell.
package cmdline

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/pipewright/internal/fileref"
)

// Has reports whether v carries a value: nil, empty strings, empty
// references, empty collections and holders delegating to an empty
// reference are all absent.
func Has(v any) bool {
	if v == nil {
		return false
	}
	if h, ok := v.(fileref.Holder); ok {
		return h.FileRef() != ""
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() > 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	default:
		return true
	}
}

// Optional renders prefix followed by v, or the empty fragment when v is
// absent.
func Optional(prefix string, v any) string {
	if !Has(v) {
		return ""
	}
	return prefix + format(v)
}

// Flag renders a flag and its file reference, or the empty fragment when
// the reference is unset.
func Flag(flag string, ref fileref.Ref) string {
	if ref == "" {
		return ""
	}
	return flag + " " + Quote(ref.String())
}

// Repeat renders one flag per reference.
func Repeat(flag string, refs []fileref.Ref) string {
	frags := make([]string, 0, len(refs))
	for _, ref := range refs {
		frags = append(frags, Flag(flag, ref))
	}
	return Join(frags...)
}

// Join assembles fragments into one command line, dropping empties.
func Join(frags ...string) string {
	kept := frags[:0:0]
	for _, f := range frags {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// Quote wraps a fragment in single quotes when it contains characters the
// shell would otherwise interpret.
func Quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t'\"$&|;<>()*?#") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

func format(v any) string {
	if h, ok := v.(fileref.Holder); ok {
		return Quote(h.FileRef().String())
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String {
		return Quote(rv.String())
	}
	return Quote(fmt.Sprintf("%v", rv.Interface()))
}
