package jobspec

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/param"
)

func TestInputs_SortedAndDeduplicated(t *testing.T) {
	job := &alignJob{
		Reference: "ref.fa",
		Reads:     []fileref.Ref{"b.fq", "a.fq", "b.fq"},
	}
	job.ExtraDeps = []fileref.Ref{"manifest.txt"}
	job.Dir = "/work"
	require.NoError(t, Freeze(testCtx(t), job, RunSettings{NamePrefix: "etl"}, NewNameCounter()))

	inputs, err := Inputs(job)
	require.NoError(t, err)
	assert.Equal(t, []fileref.Ref{
		"/work/a.fq",
		"/work/b.fq",
		"/work/manifest.txt",
		"/work/ref.fa",
	}, inputs)

	// Pure query: identical results on a second call.
	again, err := Inputs(job)
	require.NoError(t, err)
	assert.Equal(t, inputs, again)
}

func TestOutputs_IncludeDerivedCapture(t *testing.T) {
	job := &alignJob{Result: "out/result.bam"}
	job.Dir = "/work"
	require.NoError(t, Freeze(testCtx(t), job, RunSettings{NamePrefix: "etl"}, NewNameCounter()))

	outputs, err := Outputs(job)
	require.NoError(t, err)
	assert.Equal(t, []fileref.Ref{
		"/work/etl-1.out",
		"/work/out/result.bam",
	}, outputs)
}

func TestJobDirs_CoversDirsTempAndParents(t *testing.T) {
	job := &alignJob{
		Reference: "ref/genome.fa",
		Result:    "out/result.bam",
	}
	job.Dir = "/work"
	job.TempDir = "scratch"
	require.NoError(t, Freeze(testCtx(t), job, RunSettings{NamePrefix: "etl"}, NewNameCounter()))

	dirs, err := JobDirs(job)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/work",
		"/work/out",
		"/work/ref",
		"/work/scratch",
	}, dirs)
}

func TestRelocate_UsesWorkingDirAsOldRoot(t *testing.T) {
	job := &alignJob{Reads: []fileref.Ref{"reads/a.fq", "/data/b.fq"}}
	job.Dir = "/work"
	require.NoError(t, Freeze(testCtx(t), job, RunSettings{NamePrefix: "etl"}, NewNameCounter()))

	descs, err := param.Of(job)
	require.NoError(t, err)
	var reads *param.Descriptor
	for i := range descs {
		if descs[i].Name == "reads" {
			reads = &descs[i]
		}
	}
	require.NotNil(t, reads)

	moved, err := Relocate(job, reads, "/tmp/shard3")
	require.NoError(t, err)
	assert.Equal(t, []fileref.Ref{
		fileref.Ref(filepath.Join("/tmp/shard3", "reads", "a.fq")),
		fileref.Ref(filepath.Join("/tmp/shard3", "b.fq")),
	}, moved)
	assert.Equal(t, moved, job.Reads)
}
