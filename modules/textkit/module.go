// Package textkit provides line-oriented text-processing job kinds:
// filter, sort and concat.
package textkit

import (
	"github.com/vk/pipewright/internal/cmdline"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/jobspec"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the textkit job kinds with the engine.
func (m *Module) Register(r *registry.Registry) error {
	if err := r.Register("filter", func() jobspec.Job { return &FilterJob{} }); err != nil {
		return err
	}
	if err := r.Register("sort", func() jobspec.Job { return &SortJob{} }); err != nil {
		return err
	}
	return r.Register("concat", func() jobspec.Job { return &ConcatJob{} })
}

// Corpus wraps a text file together with authoring metadata. It is not
// itself a file, so it exposes the one file it delegates to through the
// fileref.Holder capability.
type Corpus struct {
	Path fileref.Ref `cty:"path"`
	// Label is carried into reports; it has no graph meaning.
	Label string `cty:"label"`
}

// FileRef implements fileref.Holder.
func (c *Corpus) FileRef() fileref.Ref {
	return c.Path
}

// SetFileRef implements fileref.Holder.
func (c *Corpus) SetFileRef(ref fileref.Ref) {
	c.Path = ref
}

// FilterJob keeps or drops lines of a text file by pattern. The pattern
// comes either inline or from a pattern file, never both.
type FilterJob struct {
	jobspec.Spec

	In          fileref.Ref `pipe:"in,input,required" doc:"Text file to filter"`
	Out         fileref.Ref `pipe:"out,output,required" doc:"Filtered output file"`
	Pattern     string      `pipe:"pattern,arg,required" xor:"pattern_file" doc:"Inline filter expression"`
	PatternFile fileref.Ref `pipe:"pattern_file,input" xor:"pattern" doc:"File holding the filter expression"`
	Invert      bool        `pipe:"invert,arg" doc:"Keep lines that do not match"`
}

// CommandLine renders the filter invocation.
func (j *FilterJob) CommandLine() string {
	frags := []string{"grep"}
	if j.Invert {
		frags = append(frags, "-v")
	}
	frags = append(frags,
		cmdline.Flag("-f", j.PatternFile),
		cmdline.Optional("-e ", j.Pattern),
		cmdline.Quote(j.In.String()),
		"> "+cmdline.Quote(j.Out.String()),
	)
	return cmdline.Join(frags...)
}

// SortJob sorts the lines of a corpus into an output file.
type SortJob struct {
	jobspec.Spec

	Corpus *Corpus     `pipe:"corpus,input,required" doc:"Corpus wrapping the file to sort"`
	Out    fileref.Ref `pipe:"out,output,required" doc:"Sorted output file"`
	Unique bool        `pipe:"unique,arg" doc:"Drop duplicate lines"`
	Key    int         `pipe:"key,arg" doc:"1-based field to sort by; 0 sorts whole lines"`
}

// CommandLine renders the sort invocation.
func (j *SortJob) CommandLine() string {
	frags := []string{"sort"}
	if j.Unique {
		frags = append(frags, "-u")
	}
	if j.Key > 0 {
		frags = append(frags, cmdline.Optional("-k", j.Key))
	}
	frags = append(frags,
		cmdline.Flag("-o", j.Out),
		cmdline.Quote(j.Corpus.FileRef().String()),
	)
	return cmdline.Join(frags...)
}

// ConcatJob concatenates input files, in order, into one output file.
type ConcatJob struct {
	jobspec.Spec

	Parts []fileref.Ref `pipe:"parts,input,required" doc:"Files to concatenate, in order"`
	Out   fileref.Ref   `pipe:"out,output,required" doc:"Concatenated output file"`
}

// CommandLine renders the concat invocation.
func (j *ConcatJob) CommandLine() string {
	frags := []string{"cat"}
	for _, part := range j.Parts {
		frags = append(frags, cmdline.Quote(part.String()))
	}
	frags = append(frags, "> "+cmdline.Quote(j.Out.String()))
	return cmdline.Join(frags...)
}
