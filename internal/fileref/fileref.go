// Package fileref defines the file reference value type shared by every
// layer of the engine, plus the Holder capability for rich values that wrap
// a single file. All filesystem metadata reads are synchronous local calls;
// a missing or unreadable file is a normal "does not exist" outcome, never
// an error to retry.
package fileref

import (
	"os"
	"path/filepath"
	"time"
)

// Ref is one file reference. It stays relative until canonicalization
// rewrites it absolute against a job's working directory.
type Ref string

// String returns the path held by the reference.
func (r Ref) String() string {
	return string(r)
}

// IsAbs reports whether the reference is already absolute.
func (r Ref) IsAbs() bool {
	return filepath.IsAbs(string(r))
}

// Abs resolves the reference against root. An already-absolute reference is
// returned unchanged, which is what makes canonicalization idempotent.
func (r Ref) Abs(root string) Ref {
	if r == "" || r.IsAbs() {
		return r
	}
	return Ref(filepath.Join(root, string(r)))
}

// Exists reports whether the referenced file is present on local storage.
func (r Ref) Exists() bool {
	_, err := os.Stat(string(r))
	return err == nil
}

// ModTime returns the file's modification time. The second return value is
// false when the file does not exist (or cannot be inspected), in which case
// the zero time is returned.
func (r Ref) ModTime() (time.Time, bool) {
	info, err := os.Stat(string(r))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Dir returns the parent directory of the reference.
func (r Ref) Dir() string {
	return filepath.Dir(string(r))
}

// Base returns the last element of the reference.
func (r Ref) Base() string {
	return filepath.Base(string(r))
}

// Holder is the capability interface for a value that is not itself a file
// but delegates to exactly one file reference. The setter exists because
// canonicalization and relocation write the rewritten reference back in
// place; implementations use pointer receivers.
type Holder interface {
	FileRef() Ref
	SetFileRef(Ref)
}
