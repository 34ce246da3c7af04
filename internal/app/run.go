package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/pipewright/internal/builder"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/hcl"
	"github.com/vk/pipewright/internal/jobspec"
)

// StaleError reports how many jobs need running when -check is set.
type StaleError struct {
	Count int
}

// Error implements the error interface for StaleError.
func (e *StaleError) Error() string {
	return fmt.Sprintf("%d job(s) are stale and need running", e.Count)
}

// Run executes the main application logic: load the pipeline, freeze every
// job, collect validation violations, build the dependency graph, and
// report per-job facts. Any violation blocks graph admission.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	loader := hcl.NewLoader(a.registry)
	loaded, err := loader.Load(ctx, cfg.PipelinePath)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}

	settings := mergeSettings(cfg, loaded.Settings)
	counter := jobspec.NewNameCounter()

	jobs := make([]jobspec.Job, 0, len(loaded.Jobs))
	var violations []string
	for _, lj := range loaded.Jobs {
		s := lj.Job.JobSpec()
		if s.TempDir == "" {
			// Freeze resolves this against the job's working directory.
			s.TempDir = filepath.Join(".pipewright", a.runID)
		}
		if err := jobspec.Freeze(ctx, lj.Job, settings, counter); err != nil {
			return fmt.Errorf("failed to freeze job %q %q: %w", lj.Kind, lj.Label, err)
		}
		missing, err := jobspec.MissingRequired(lj.Job)
		if err != nil {
			return fmt.Errorf("validating job %q %q: %w", lj.Kind, lj.Label, err)
		}
		for _, msg := range missing {
			violations = append(violations, fmt.Sprintf("job %q %q: %s", lj.Kind, lj.Label, msg))
		}
		jobs = append(jobs, lj.Job)
	}
	a.logger.Debug("All job specifications frozen.", "count", len(jobs))

	if len(violations) > 0 {
		sort.Strings(violations)
		return fmt.Errorf("pipeline validation failed:\n- %s", strings.Join(violations, "\n- "))
	}

	result, err := builder.Build(ctx, jobs)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", result.Graph.Len())

	stale := 0
	for i, lj := range loaded.Jobs {
		job := jobs[i]
		s := job.JobSpec()

		upToDate, err := jobspec.UpToDate(job)
		if err != nil {
			return fmt.Errorf("checking job %q: %w", s.Name, err)
		}
		inputs, err := jobspec.Inputs(job)
		if err != nil {
			return fmt.Errorf("resolving inputs of job %q: %w", s.Name, err)
		}
		outputs, err := jobspec.Outputs(job)
		if err != nil {
			return fmt.Errorf("resolving outputs of job %q: %w", s.Name, err)
		}
		deps, err := result.Graph.Dependencies(s.Name)
		if err != nil {
			return fmt.Errorf("querying graph for job %q: %w", s.Name, err)
		}

		attrs := []any{
			"job", s.Name,
			"kind", lj.Kind,
			"declared_as", lj.Label,
			"up_to_date", upToDate,
			"inputs", len(inputs),
			"outputs", len(outputs),
			"depends_on", deps,
		}
		if cl, ok := job.(jobspec.CommandLiner); ok {
			attrs = append(attrs, "command", cl.CommandLine())
		}
		a.logger.Info("Job admitted to graph.", attrs...)
		if !upToDate {
			stale++
		}
	}

	a.logger.Info("Pipeline graph ready.", "jobs", len(jobs), "stale", stale)

	if cfg.Check && stale > 0 {
		return &StaleError{Count: stale}
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// mergeSettings builds the run settings the freeze protocol inherits from.
// CLI-provided values win; the pipeline's settings block fills the blanks.
func mergeSettings(cfg *Config, fromFile *jobspec.RunSettings) jobspec.RunSettings {
	settings := jobspec.RunSettings{
		NamePrefix:    cfg.NamePrefix,
		Queue:         cfg.Queue,
		Project:       cfg.Project,
		MemoryGB:      cfg.MemoryGB,
		RunRegardless: cfg.RunRegardless,
	}
	if fromFile == nil {
		return settings
	}
	if settings.NamePrefix == "" {
		settings.NamePrefix = fromFile.NamePrefix
	}
	if settings.Queue == "" {
		settings.Queue = fromFile.Queue
	}
	if settings.Project == "" {
		settings.Project = fromFile.Project
	}
	if settings.MemoryGB == 0 {
		settings.MemoryGB = fromFile.MemoryGB
	}
	settings.RunRegardless = settings.RunRegardless || fromFile.RunRegardless
	return settings
}
