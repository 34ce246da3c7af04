package jobspec

import (
	"fmt"
	"sync/atomic"
)

// DefaultNamePrefix seeds assigned job names when neither the specification
// nor the run settings provide a prefix.
const DefaultNamePrefix = "job"

// RunSettings carries the process-wide defaults a freeze inherits from:
// CLI flags or the pipeline's settings block, assembled by the caller.
type RunSettings struct {
	NamePrefix string
	Queue      string
	Project    string
	MemoryGB   int

	// RunRegardless forces IgnoreUpstreamFailures on for every job in the
	// run.
	RunRegardless bool
}

// NameCounter assigns unique job names for one pipeline run. It is
// constructed once per run and passed to every freeze; concurrent freezes
// of distinct specifications share it safely.
type NameCounter struct {
	n atomic.Uint64
}

// NewNameCounter returns a counter starting at one.
func NewNameCounter() *NameCounter {
	return &NameCounter{}
}

// Next returns the next unique name for the given prefix.
func (c *NameCounter) Next(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, c.n.Add(1))
}
