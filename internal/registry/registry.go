package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/pipewright/internal/jobspec"
	"github.com/vk/pipewright/internal/param"
)

// Module is the interface all job-kind modules implement to be registered.
type Module interface {
	Register(r *Registry) error
}

// Factory constructs a fresh, mutable instance of a job kind.
type Factory func() jobspec.Job

// kind pairs a factory with the kind's cached parameter descriptors.
type kind struct {
	name    string
	factory Factory
	descs   []param.Descriptor
}

// Registry maps kind names to job factories for a single application
// instance. Registration runs the parameter introspector immediately, so a
// broken declaration (an exclusion list naming a non-existent parameter)
// surfaces at startup rather than at freeze time.
type Registry struct {
	kinds map[string]*kind
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{kinds: make(map[string]*kind)}
}

// Register adds a job kind under the given name. Registering the same name
// twice is a programmer error and panics; a declaration error on the kind's
// parameters is returned.
func (r *Registry) Register(name string, factory Factory) error {
	if _, exists := r.kinds[name]; exists {
		panic(fmt.Sprintf("job kind '%s' already registered", name))
	}
	descs, err := param.Of(factory())
	if err != nil {
		return fmt.Errorf("registering job kind '%s': %w", name, err)
	}
	slog.Debug("Registering job kind.", "name", name, "parameters", len(descs))
	r.kinds[name] = &kind{name: name, factory: factory, descs: descs}
	return nil
}

// New instantiates a fresh, mutable job of the named kind.
func (r *Registry) New(name string) (jobspec.Job, error) {
	k, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("unknown job kind '%s'", name)
	}
	return k.factory(), nil
}

// Descriptors returns the cached parameter descriptors for the named kind,
// shared read-only.
func (r *Registry) Descriptors(name string) ([]param.Descriptor, error) {
	k, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("unknown job kind '%s'", name)
	}
	return k.descs, nil
}

// Kinds returns the registered kind names, sorted.
func (r *Registry) Kinds() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
