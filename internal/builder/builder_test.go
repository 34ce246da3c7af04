package builder

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/jobspec"
)

type fileJob struct {
	jobspec.Spec

	In  fileref.Ref `pipe:"in,input" doc:"Input file"`
	Out fileref.Ref `pipe:"out,output" doc:"Output file"`
}

// touchAt ensures path exists and pins its modification time.
func touchAt(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	if _, err := os.Stat(path); err != nil {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func freeze(t *testing.T, jobs ...jobspec.Job) []jobspec.Job {
	t.Helper()
	counter := jobspec.NewNameCounter()
	for _, job := range jobs {
		require.NoError(t, jobspec.Freeze(testCtx(t), job, jobspec.RunSettings{NamePrefix: "t"}, counter))
	}
	return jobs
}

func TestBuild_MatchesCanonicalOutputToInput(t *testing.T) {
	// A writes ./x.bam from /work; B reads x.bam from /work. After
	// canonicalization both name /work/x.bam, which is the graph edge.
	producer := &fileJob{Out: "./x.bam"}
	producer.Dir = "/work"
	consumer := &fileJob{In: "x.bam", Out: "y.bam"}
	consumer.Dir = "/work"

	result, err := Build(testCtx(t), freeze(t, producer, consumer))
	require.NoError(t, err)

	deps, err := result.Graph.Dependencies(consumer.JobSpec().Name)
	require.NoError(t, err)
	assert.Equal(t, []string{producer.JobSpec().Name}, deps)

	assert.Equal(t, producer.JobSpec().Name, result.Producers[fileref.Ref("/work/x.bam")])
}

func TestBuild_DifferentSpellingsOfDifferentFilesDoNotConnect(t *testing.T) {
	producer := &fileJob{Out: "x.bam"}
	producer.Dir = "/work/a"
	consumer := &fileJob{In: "/work/b/x.bam", Out: "y.bam"}
	consumer.Dir = "/work/b"
	// The consumer's source input must exist since nobody produces it.
	dir := t.TempDir()
	consumer.In = fileref.Ref(filepath.Join(dir, "x.bam"))
	touchAt(t, consumer.In.String(), time.Now())

	result, err := Build(testCtx(t), freeze(t, producer, consumer))
	require.NoError(t, err)

	deps, err := result.Graph.Dependencies(consumer.JobSpec().Name)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestBuild_RejectsMutableSpecification(t *testing.T) {
	job := &fileJob{Out: "x.bam"}
	job.Dir = "/work"

	_, err := Build(testCtx(t), []jobspec.Job{job})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutable specification")
}

func TestBuild_RejectsDuplicateProducer(t *testing.T) {
	first := &fileJob{Out: "x.bam"}
	first.Dir = "/work"
	second := &fileJob{Out: "./x.bam"}
	second.Dir = "/work"

	_, err := Build(testCtx(t), freeze(t, first, second))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced by both")
}

func TestBuild_RejectsDuplicateJobNames(t *testing.T) {
	// Two jobs declare the same explicit name; the second would silently
	// collapse into the first's node and the edge between them would vanish.
	producer := &fileJob{Out: "a.txt"}
	producer.Dir = "/work"
	producer.Name = "same"
	consumer := &fileJob{In: "a.txt", Out: "b.txt"}
	consumer.Dir = "/work"
	consumer.Name = "same"

	_, err := Build(testCtx(t), freeze(t, producer, consumer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `job name "same" is used by more than one job`)
}

func TestBuild_MissingSourceInputIsAnError(t *testing.T) {
	dir := t.TempDir()
	job := &fileJob{In: "never-written.txt", Out: "out.txt"}
	job.Dir = dir

	_, err := Build(testCtx(t), freeze(t, job))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no job produces it")
}

func TestBuild_MissingSourceToleratedWhenConsumerIsCurrent(t *testing.T) {
	// The input was consumed and deleted in a previous run; the output is
	// present, so the job is up to date and admission succeeds.
	dir := t.TempDir()
	job := &fileJob{In: "consumed-then-deleted.txt", Out: "out.txt"}
	job.Dir = dir
	touchAt(t, filepath.Join(dir, "out.txt"), time.Now())

	result, err := Build(testCtx(t), freeze(t, job))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Graph.Len())
}

func TestBuild_DetectsCycles(t *testing.T) {
	a := &fileJob{In: "y.txt", Out: "x.txt"}
	a.Dir = "/work"
	b := &fileJob{In: "x.txt", Out: "y.txt"}
	b.Dir = "/work"

	_, err := Build(testCtx(t), freeze(t, a, b))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestBuild_SelfConsumptionIsNotAnEdge(t *testing.T) {
	// A job that lists its own output among its inputs (append-style) does
	// not depend on itself.
	job := &fileJob{In: "log.txt", Out: "log.txt"}
	job.Dir = "/work"

	result, err := Build(testCtx(t), freeze(t, job))
	require.NoError(t, err)
	deps, err := result.Graph.Dependencies(job.JobSpec().Name)
	require.NoError(t, err)
	assert.Empty(t, deps)
}
