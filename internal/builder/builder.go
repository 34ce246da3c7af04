package builder

import (
	"context"
	"fmt"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/dag"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/jobspec"
)

// Result is the built dependency graph plus the producer index used to
// construct it, kept for reporting.
type Result struct {
	Graph *dag.Graph
	// Producers maps every canonical output reference to the name of the
	// job that produces it.
	Producers map[fileref.Ref]string
}

// Build constructs a validated dependency graph from frozen job
// specifications by matching canonical producer outputs to consumer inputs.
// Every job must already be frozen: matching relies on the canonical
// absolute form of each reference, so admitting a mutable specification
// would silently build incorrect edges.
//
// An input nobody produces must exist on storage unless its consumer is
// already up to date; two jobs producing the same reference is an error, as
// is a dependency cycle.
func Build(ctx context.Context, jobs []jobspec.Job) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "job_count", len(jobs))

	graph := dag.New()
	producers := make(map[fileref.Ref]string)
	names := make(map[string]bool, len(jobs))

	// First pass: create all nodes and index every output by its producer.
	// The name counter only guarantees uniqueness for assigned names, so
	// user-set names need an explicit collision check before AddNode, which
	// would otherwise silently merge the two jobs into one node.
	for _, job := range jobs {
		s := job.JobSpec()
		if !s.Frozen() {
			return nil, fmt.Errorf("job %q: cannot build graph from a mutable specification", s.Name)
		}
		if names[s.Name] {
			return nil, fmt.Errorf("job name %q is used by more than one job", s.Name)
		}
		names[s.Name] = true
		graph.AddNode(s.Name)

		outputs, err := jobspec.Outputs(job)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", s.Name, err)
		}
		for _, ref := range outputs {
			if other, taken := producers[ref]; taken {
				return nil, fmt.Errorf("output %q is produced by both %q and %q", ref, other, s.Name)
			}
			producers[ref] = s.Name
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", graph.Len(), "outputs_indexed", len(producers))

	// Second pass: link producer -> consumer per input reference. Inputs
	// with no producer are source files and must already exist, unless the
	// consumer's outputs are current anyway.
	for _, job := range jobs {
		s := job.JobSpec()
		inputs, err := jobspec.Inputs(job)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", s.Name, err)
		}
		var current *bool
		for _, ref := range inputs {
			producer, produced := producers[ref]
			if produced {
				if producer == s.Name {
					continue
				}
				if err := graph.AddEdge(producer, s.Name); err != nil {
					return nil, fmt.Errorf("linking %q -> %q: %w", producer, s.Name, err)
				}
				continue
			}
			if ref.Exists() {
				continue
			}
			if current == nil {
				upToDate, err := jobspec.UpToDate(job)
				if err != nil {
					return nil, fmt.Errorf("job %q: %w", s.Name, err)
				}
				current = &upToDate
			}
			if !*current {
				return nil, fmt.Errorf("job %q: input %q is missing and no job produces it", s.Name, ref)
			}
		}
	}
	logger.Debug("Build: Node linking complete.")

	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Graph construction successful.")

	return &Result{Graph: graph, Producers: producers}, nil
}
