// Package archive provides the pack job kind: bundle files into a tar
// archive.
package archive

import (
	"github.com/vk/pipewright/internal/cmdline"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/jobspec"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the archive job kinds with the engine.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register("pack", func() jobspec.Job { return &PackJob{} })
}

// PackJob bundles input files into one archive.
type PackJob struct {
	jobspec.Spec

	Files    []fileref.Ref `pipe:"files,input,required" doc:"Files to pack"`
	Out      fileref.Ref   `pipe:"out,output,required" doc:"Archive to produce"`
	Compress bool          `pipe:"compress,arg" doc:"Compress the archive with gzip"`
}

// CommandLine renders the pack invocation.
func (j *PackJob) CommandLine() string {
	mode := "-cf"
	if j.Compress {
		mode = "-czf"
	}
	frags := []string{"tar", mode, cmdline.Quote(j.Out.String())}
	for _, file := range j.Files {
		frags = append(frags, cmdline.Quote(file.String()))
	}
	return cmdline.Join(frags...)
}
