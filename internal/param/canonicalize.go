package param

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/vk/pipewright/internal/fileref"
)

// Canonicalize rewrites every discovered parameter of every role on job so
// that file-shaped values hold absolute references resolved against dir.
// Non-file argument values pass through unchanged; an input or output
// parameter holding a non-file shape is an ExtractError. Already-absolute
// references are untouched, so canonicalizing twice is a no-op.
func Canonicalize(job any, dir string) error {
	descs, err := Of(job)
	if err != nil {
		return err
	}
	root := instanceOf(job)
	for i := range descs {
		d := &descs[i]
		err := rewrite(root, d, func(r fileref.Ref) fileref.Ref {
			return r.Abs(dir)
		})
		if err != nil {
			var extractErr *ExtractError
			if errors.As(err, &extractErr) && d.Role == RoleArgument {
				continue
			}
			return err
		}
	}
	return nil
}

// Relocate rewrites each of the parameter's resolved references to live
// under newRoot, writes the results back through the access path, and
// returns the new references. A reference under oldRoot keeps its
// oldRoot-relative remainder; one outside oldRoot keeps its base name only.
// This is the one extractor operation that mutates the job instance, used
// when staging per-shard working copies.
func Relocate(job any, d *Descriptor, oldRoot, newRoot string) ([]fileref.Ref, error) {
	var moved []fileref.Ref
	err := rewrite(instanceOf(job), d, func(r fileref.Ref) fileref.Ref {
		rebased := rebase(r, oldRoot, newRoot)
		moved = append(moved, rebased)
		return rebased
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

func rebase(r fileref.Ref, oldRoot, newRoot string) fileref.Ref {
	rel, err := filepath.Rel(oldRoot, string(r))
	if err == nil && rel != "." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != ".." {
		return fileref.Ref(filepath.Join(newRoot, rel))
	}
	return fileref.Ref(filepath.Join(newRoot, r.Base()))
}

// rewrite applies fn to every file reference reachable through the
// descriptor's value, mutating in place. The root value must come from a
// pointer to the job struct so the walk stays addressable.
func rewrite(root reflect.Value, d *Descriptor, fn func(fileref.Ref) fileref.Ref) error {
	v := d.value(root)
	if !v.IsValid() {
		return nil
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := rewriteScalar(v.Index(i), d, fn); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		// Map elements are not addressable; mutate a copy and store it back.
		iter := v.MapRange()
		for iter.Next() {
			elem := reflect.New(iter.Value().Type()).Elem()
			elem.Set(iter.Value())
			if err := rewriteScalar(elem, d, fn); err != nil {
				return err
			}
			v.SetMapIndex(iter.Key(), elem)
		}
		return nil
	default:
		return rewriteScalar(v, d, fn)
	}
}

func rewriteScalar(v reflect.Value, d *Descriptor, fn func(fileref.Ref) fileref.Ref) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Type() == refType {
		ref := v.Interface().(fileref.Ref)
		if ref == "" {
			return nil
		}
		if !v.CanSet() {
			return fmt.Errorf("parameter %q: file reference is not settable", d.Name)
		}
		v.Set(reflect.ValueOf(fn(ref)))
		return nil
	}
	if h, ok := asHolder(v); ok {
		ref := h.FileRef()
		if ref == "" {
			return nil
		}
		h.SetFileRef(fn(ref))
		return nil
	}
	return &ExtractError{Param: d.Name, Value: v.Interface()}
}
