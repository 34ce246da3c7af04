// Package fetch provides the fetch job kind: download a URL into a file.
package fetch

import (
	"github.com/vk/pipewright/internal/cmdline"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/jobspec"
	"github.com/vk/pipewright/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the fetch job kind with the engine.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register("fetch", func() jobspec.Job { return &FetchJob{} })
}

// TLSOptions groups transport-security parameters. It is a plain value
// holder: introspection descends into it and discovers its tagged fields
// with their full access path.
type TLSOptions struct {
	CACert   fileref.Ref `pipe:"ca_cert,input" doc:"CA certificate bundle to trust"`
	Insecure bool        `pipe:"insecure,arg" doc:"Skip certificate verification"`
}

// FetchJob downloads one URL into a destination file.
type FetchJob struct {
	jobspec.Spec

	URL string      `pipe:"url,arg,required" doc:"Source URL to download"`
	Out fileref.Ref `pipe:"out,output,required" doc:"Destination file"`
	TLS TLSOptions
}

// CommandLine renders the fetch invocation.
func (j *FetchJob) CommandLine() string {
	frags := []string{"curl", "-fsSL"}
	if j.TLS.Insecure {
		frags = append(frags, "-k")
	}
	frags = append(frags,
		cmdline.Flag("--cacert", j.TLS.CACert),
		cmdline.Flag("-o", j.Out),
		cmdline.Quote(j.URL),
	)
	return cmdline.Join(frags...)
}
