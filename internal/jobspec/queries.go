package jobspec

import (
	"sort"
	"time"

	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/param"
)

// Inputs returns the job's resolved input file set: every input-role
// parameter's files, sorted and deduplicated. Pure: identical results on
// repeated calls without intervening mutation.
func Inputs(job Job) ([]fileref.Ref, error) {
	return filesByRole(job, param.RoleInput, false)
}

// Outputs returns the job's resolved output file set, capture files
// included, sorted and deduplicated.
func Outputs(job Job) ([]fileref.Ref, error) {
	return filesByRole(job, param.RoleOutput, false)
}

// artifactOutputs is Outputs minus the capture descriptors; the staleness
// check keys off artifacts only.
func artifactOutputs(job Job) ([]fileref.Ref, error) {
	return filesByRole(job, param.RoleOutput, true)
}

func filesByRole(job Job, role param.Role, skipCaptures bool) ([]fileref.Ref, error) {
	descs, err := param.Of(job)
	if err != nil {
		return nil, err
	}
	seen := map[fileref.Ref]bool{}
	var refs []fileref.Ref
	for i := range descs {
		d := &descs[i]
		if d.Role != role {
			continue
		}
		if skipCaptures && captureParams[d.Name] {
			continue
		}
		files, err := param.Files(job, d)
		if err != nil {
			return nil, err
		}
		for _, ref := range files {
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs, nil
}

// JobDirs returns every directory the job touches: the working directory,
// the temp directory if set, and the parent directory of every input and
// output. Sorted and deduplicated; the scheduler uses it to pre-create
// directories before dispatch.
func JobDirs(job Job) ([]string, error) {
	s := job.JobSpec()
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		if dir != "" && !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	add(s.Dir)
	add(s.TempDir)

	inputs, err := Inputs(job)
	if err != nil {
		return nil, err
	}
	outputs, err := Outputs(job)
	if err != nil {
		return nil, err
	}
	for _, ref := range inputs {
		add(ref.Dir())
	}
	for _, ref := range outputs {
		add(ref.Dir())
	}

	sort.Strings(dirs)
	return dirs, nil
}

// UpToDate reports whether the job's outputs are already current relative
// to its inputs, i.e. whether the scheduler may skip it. A job with no
// artifact outputs (captures excluded) is never up to date. Otherwise every
// artifact must exist on storage and be strictly newer than the newest
// input; a missing input counts as the oldest possible time, and equal
// timestamps count as stale. Read-only.
func UpToDate(job Job) (bool, error) {
	artifacts, err := artifactOutputs(job)
	if err != nil {
		return false, err
	}
	if len(artifacts) == 0 {
		return false, nil
	}

	var minOutput time.Time
	for i, ref := range artifacts {
		mtime, exists := ref.ModTime()
		if !exists {
			return false, nil
		}
		if i == 0 || mtime.Before(minOutput) {
			minOutput = mtime
		}
	}

	inputs, err := Inputs(job)
	if err != nil {
		return false, err
	}
	var maxInput time.Time
	for _, ref := range inputs {
		if mtime, exists := ref.ModTime(); exists && mtime.After(maxInput) {
			maxInput = mtime
		}
	}

	return maxInput.Before(minOutput), nil
}

// Relocate rewrites the parameter's files to live under newRoot, preserving
// their working-directory-relative structure, and returns the new
// references. Consumed by the scatter-gather collaborator when staging
// per-shard working copies; the one query that mutates the job.
func Relocate(job Job, d *param.Descriptor, newRoot string) ([]fileref.Ref, error) {
	return param.Relocate(job, d, job.JobSpec().Dir, newRoot)
}
