package jobspec

import (
	"fmt"
	"sort"

	"github.com/vk/pipewright/internal/param"
)

// MissingRequired checks required-ness and mutual exclusivity across every
// discovered parameter and returns the violations, lexicographically sorted
// for deterministic, diffable output. A required parameter with no value
// produces no violation when one of its declared exclusion partners holds a
// value instead.
//
// The result is advisory data, never an error: whether a non-empty list
// blocks graph admission is the caller's decision.
func MissingRequired(job Job) ([]string, error) {
	descs, err := param.Of(job)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*param.Descriptor, len(descs))
	for i := range descs {
		byName[descs[i].Name] = &descs[i]
	}

	var violations []string
	for i := range descs {
		d := &descs[i]
		if !d.Required || param.HasValue(job, d) {
			continue
		}
		satisfied := false
		for _, name := range d.Excludes {
			if partner, ok := byName[name]; ok && param.HasValue(job, partner) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			violations = append(violations, fmt.Sprintf("missing required %s %q: %s", d.Role, d.Name, d.Doc))
		}
	}

	sort.Strings(violations)
	return violations, nil
}
