package jobspec

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/param"
)

// Freeze transitions a specification from mutable to canonical, graph-ready
// form. In order: inherit unset defaults from settings, assign a unique name
// from counter when none was set, derive the stdout capture from the final
// name, resolve the working directory absolute, then canonicalize every
// discovered parameter against it.
//
// Freezing an already-frozen specification is a no-op. The default-filling
// steps cannot fail; a canonicalization failure (an input or output
// parameter holding a value with no file shape) aborts the freeze and
// leaves the specification mutable. Canonicalization is idempotent and
// value-preserving, so an aborted freeze never leaves the specification in
// a semantically half-frozen state.
func Freeze(ctx context.Context, job Job, settings RunSettings, counter *NameCounter) error {
	logger := ctxlog.FromContext(ctx)
	s := job.JobSpec()
	if s.frozen {
		return nil
	}

	if s.NamePrefix == "" {
		s.NamePrefix = settings.NamePrefix
	}
	if s.NamePrefix == "" {
		s.NamePrefix = DefaultNamePrefix
	}
	if s.Queue == "" {
		s.Queue = settings.Queue
	}
	if s.Project == "" {
		s.Project = settings.Project
	}
	if s.MemoryGB == 0 {
		s.MemoryGB = settings.MemoryGB
	}
	if settings.RunRegardless {
		s.IgnoreUpstreamFailures = true
	}

	if s.Name == "" {
		s.Name = counter.Next(s.NamePrefix)
	}

	if s.Stdout == "" {
		s.Stdout = fileref.Ref(s.Name + ".out")
	}

	// The working directory must be absolute before any parameter is
	// canonicalized, since canonicalization resolves against it.
	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		return fmt.Errorf("job %q: resolving working directory %q: %w", s.Name, s.Dir, err)
	}
	s.Dir = dir
	if s.TempDir != "" && !filepath.IsAbs(s.TempDir) {
		s.TempDir = filepath.Join(s.Dir, s.TempDir)
	}

	if err := param.Canonicalize(job, s.Dir); err != nil {
		return fmt.Errorf("job %q: %w", s.Name, err)
	}

	s.frozen = true
	logger.Debug("Job specification frozen.", "job", s.Name, "dir", s.Dir)
	return nil
}
