package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/fsutil"
	"github.com/vk/pipewright/internal/jobspec"
	"github.com/vk/pipewright/internal/registry"
)

// Loader parses pipeline files against the registered job kinds.
type Loader struct {
	reg *registry.Registry
}

// NewLoader creates a new pipeline loader.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{reg: reg}
}

// LoadedJob pairs a mutable job instance with its declaration labels.
type LoadedJob struct {
	Kind  string
	Label string
	Job   jobspec.Job
}

// Result is the parsed content of one pipeline path.
type Result struct {
	// Settings holds the pipeline's settings block, or nil when none was
	// declared.
	Settings *jobspec.RunSettings
	Jobs     []LoadedJob
}

// rootSchema admits the two top-level block types of a pipeline file.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "settings"},
		{Type: "job", LabelNames: []string{"kind", "name"}},
	},
}

// settingsBlock mirrors the settings block onto run settings.
type settingsBlock struct {
	NamePrefix    *string `hcl:"name_prefix,optional"`
	Queue         *string `hcl:"queue,optional"`
	Project       *string `hcl:"project,optional"`
	MemoryGB      *int    `hcl:"memory_gb,optional"`
	RunRegardless *bool   `hcl:"run_regardless,optional"`
}

// Load discovers every .hcl file under path (or parses path itself when it
// is a file) and decodes the declared settings and jobs. Duplicate
// (kind, name) job declarations and more than one settings block are
// errors; unknown kinds are errors listing the registered ones.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Pipeline loader started.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("discovering pipeline files: %w", err)
	}
	logger.Debug("Discovered pipeline files.", "count", len(files))

	result := &Result{}
	parser := hclparse.NewParser()
	declared := make(map[string]string) // "kind.name" -> file

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse pipeline file %s: %w", file, diags)
		}

		content, diags := hclFile.Body.Content(rootSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode pipeline file %s: %w", file, diags)
		}

		for _, block := range content.Blocks {
			switch block.Type {
			case "settings":
				if result.Settings != nil {
					return nil, fmt.Errorf("%s: duplicate settings block; a pipeline declares at most one", file)
				}
				settings, err := decodeSettings(block.Body)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", file, err)
				}
				result.Settings = settings
			case "job":
				kindName, label := block.Labels[0], block.Labels[1]
				id := kindName + "." + label
				if prev, dup := declared[id]; dup {
					return nil, fmt.Errorf("%s: job %q %q already declared in %s", file, kindName, label, prev)
				}
				declared[id] = file

				job, err := l.decodeJob(kindName, label, block.Body)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", file, err)
				}
				result.Jobs = append(result.Jobs, LoadedJob{Kind: kindName, Label: label, Job: job})
			}
		}
	}

	logger.Debug("Pipeline loader finished.", "jobs", len(result.Jobs), "has_settings", result.Settings != nil)
	return result, nil
}

func decodeSettings(body hcl.Body) (*jobspec.RunSettings, error) {
	var block settingsBlock
	if diags := gohcl.DecodeBody(body, nil, &block); diags.HasErrors() {
		return nil, fmt.Errorf("decoding settings block: %w", diags)
	}

	settings := &jobspec.RunSettings{}
	if block.NamePrefix != nil {
		settings.NamePrefix = *block.NamePrefix
	}
	if block.Queue != nil {
		settings.Queue = *block.Queue
	}
	if block.Project != nil {
		settings.Project = *block.Project
	}
	if block.MemoryGB != nil {
		settings.MemoryGB = *block.MemoryGB
	}
	if block.RunRegardless != nil {
		settings.RunRegardless = *block.RunRegardless
	}
	return settings, nil
}
