package jobspec

import (
	"github.com/vk/pipewright/internal/fileref"
)

// Spec is the specification base embedded by every concrete job kind. Its
// own tagged fields make the extra-dependency input and the capture outputs
// ordinary discovered parameters, so introspection of any job type picks
// them up with no special casing.
//
// A Spec is mutable until Freeze runs, frozen and never mutated by the
// engine afterwards.
type Spec struct {
	// Dir is the job's working directory. Relative paths are resolved
	// against the process working directory at freeze time.
	Dir string
	// TempDir is the temp-staging directory, resolved against Dir at freeze
	// time when relative. The CLI defaults any job that leaves it unset to a
	// per-run .pipewright scratch directory; embedding callers that want no
	// staging at all may freeze with it empty.
	TempDir string

	// Name identifies the job uniquely within a run. Left empty, it is
	// assigned from the run's name counter at freeze time.
	Name string
	// NamePrefix seeds assigned names; inherited from run settings if unset.
	NamePrefix string

	// Scheduling hints, inherited from run settings when unset.
	Queue    string
	Project  string
	MemoryGB int

	// IgnoreUpstreamFailures disables failure propagation from upstream
	// jobs. Run settings may force it on for the whole run.
	IgnoreUpstreamFailures bool

	// ExtraDeps declares input files beyond the tagged parameters, for
	// dependencies the job reads implicitly.
	ExtraDeps []fileref.Ref `pipe:"extra_deps,input" doc:"Additional files the job depends on"`

	// Stdout and Stderr capture the process streams. An unset Stdout is
	// derived as <name>.out at freeze time, so every job has at least one
	// output. Stderr stays empty unless set; the executor then merges
	// stderr into stdout.
	Stdout fileref.Ref `pipe:"stdout,output" doc:"Standard output capture file"`
	Stderr fileref.Ref `pipe:"stderr,output" doc:"Standard error capture file"`

	frozen bool
}

// JobSpec returns the embedded specification; promoted onto every job kind,
// it is what satisfies the Job interface.
func (s *Spec) JobSpec() *Spec {
	return s
}

// Frozen reports whether the specification has completed the freeze
// protocol.
func (s *Spec) Frozen() bool {
	return s.frozen
}

// Job is any concrete job kind: a struct embedding Spec.
type Job interface {
	JobSpec() *Spec
}

// CommandLiner is implemented by job kinds that render a command line. The
// engine only reports the rendered string; it never executes anything.
type CommandLiner interface {
	CommandLine() string
}

// captureParams names the Spec's own capture descriptors. They are excluded
// from the staleness artifact set: their presence alone does not indicate
// meaningful produced output, and they never satisfy a user-declared
// required output.
var captureParams = map[string]bool{
	"stdout": true,
	"stderr": true,
}
