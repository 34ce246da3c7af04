package param

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/vk/pipewright/internal/fileref"
)

// descriptorCache holds the per-type introspection result for the lifetime
// of the process, keyed by reflect.Type. Write-once per type, read-shared
// across arbitrarily many concurrent job instances (same pattern as
// encoding/json's field cache).
var descriptorCache sync.Map // reflect.Type -> cacheEntry

type cacheEntry struct {
	descs []Descriptor
	err   error
}

var (
	refType    = reflect.TypeOf(fileref.Ref(""))
	holderType = reflect.TypeOf((*fileref.Holder)(nil)).Elem()
	timeType   = reflect.TypeOf(time.Time{})
)

// Of returns the ordered parameter descriptors for a job instance or type.
// The result is computed once per distinct type and cached; the returned
// slice is shared and must be treated as read-only.
func Of(job any) ([]Descriptor, error) {
	t := reflect.TypeOf(job)
	if rt, ok := job.(reflect.Type); ok {
		t = rt
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("job type %s is not a struct", t)
	}

	if entry, ok := descriptorCache.Load(t); ok {
		e := entry.(cacheEntry)
		return e.descs, e.err
	}

	descs, err := introspect(t)
	entry, _ := descriptorCache.LoadOrStore(t, cacheEntry{descs: descs, err: err})
	e := entry.(cacheEntry)
	return e.descs, e.err
}

// introspect walks the declared type graph of t, collecting role-tagged
// fields in declaration order, outer struct first. It descends into nested
// value-holder structs, recording the full access path, then verifies every
// xor reference resolves to a discovered parameter.
func introspect(t reflect.Type) ([]Descriptor, error) {
	var descs []Descriptor
	visited := map[reflect.Type]bool{}
	if err := collect(t, nil, visited, &descs); err != nil {
		return nil, err
	}

	names := make(map[string]bool, len(descs))
	for i := range descs {
		names[descs[i].Name] = true
	}
	for i := range descs {
		for _, ref := range descs[i].Excludes {
			if !names[ref] {
				return nil, &ConfigError{Type: t.String(), Param: descs[i].Name, Ref: ref}
			}
		}
	}
	return descs, nil
}

func collect(t reflect.Type, path []int, visited map[reflect.Type]bool, descs *[]Descriptor) error {
	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		index := append(append([]int{}, path...), i)

		tag, tagged := field.Tag.Lookup("pipe")
		if tagged {
			d, err := parseTag(t, field, tag)
			if err != nil {
				return err
			}
			d.index = index
			d.typ = field.Type
			*descs = append(*descs, d)
			continue
		}

		// Untagged structured value-holders (plain structs, not files, not
		// holders, not containers) may declare parameters of their own.
		if nested := holderStruct(field.Type); nested != nil {
			if err := collect(nested, index, visited, descs); err != nil {
				return err
			}
		}
	}
	return nil
}

// holderStruct returns the struct type to descend into, or nil when the
// field type is a leaf (file, primitive, container, capability value).
func holderStruct(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return nil
	}
	if t.Implements(holderType) || reflect.PointerTo(t).Implements(holderType) {
		return nil
	}
	return t
}

// parseTag decodes `pipe:"<name>,<role>[,required]"` plus the sibling doc
// and xor tags into a Descriptor.
func parseTag(owner reflect.Type, field reflect.StructField, tag string) (Descriptor, error) {
	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		name = snakeCase(field.Name)
	}

	d := Descriptor{Name: name, Doc: field.Tag.Get("doc")}

	if len(parts) < 2 {
		return d, fmt.Errorf("job type %s: parameter %q declares no role", owner, name)
	}
	switch role := strings.TrimSpace(parts[1]); role {
	case "input":
		d.Role = RoleInput
	case "output":
		d.Role = RoleOutput
	case "arg", "argument":
		d.Role = RoleArgument
	default:
		return d, fmt.Errorf("job type %s: parameter %q declares unknown role %q", owner, name, role)
	}

	for _, opt := range parts[2:] {
		switch opt = strings.TrimSpace(opt); opt {
		case "required":
			d.Required = true
		default:
			return d, fmt.Errorf("job type %s: parameter %q declares unknown option %q", owner, name, opt)
		}
	}

	if xor, ok := field.Tag.Lookup("xor"); ok {
		for _, ref := range strings.Split(xor, ",") {
			if ref = strings.TrimSpace(ref); ref != "" {
				d.Excludes = append(d.Excludes, ref)
			}
		}
	}
	return d, nil
}

// snakeCase derives the declared name for an unnamed tag from the Go field
// name, e.g. PatternFile -> pattern_file. Initialism runs stay together:
// TLSCert -> tls_cert, not t_l_s_cert.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			boundary := i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if boundary {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
