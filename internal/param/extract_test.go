package param

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/fileref"
)

type shapesJob struct {
	Single   fileref.Ref            `pipe:"single,input" doc:"One file"`
	Holder   *wrapped               `pipe:"holder,input" doc:"One wrapped file"`
	Ordered  []fileref.Ref          `pipe:"ordered,input" doc:"Ordered files"`
	ByKey    map[string]fileref.Ref `pipe:"by_key,input" doc:"Keyed files"`
	Wrappers map[string]wrapped     `pipe:"wrappers,input" doc:"Keyed wrapped files"`
	Bogus    int                    `pipe:"bogus,input" doc:"Not a file at all"`
	Note     string                 `pipe:"note,arg" doc:"Plain argument"`
}

func descOf(t *testing.T, job any, name string) *Descriptor {
	t.Helper()
	descs, err := Of(job)
	require.NoError(t, err)
	for i := range descs {
		if descs[i].Name == name {
			return &descs[i]
		}
	}
	t.Fatalf("descriptor %q not found", name)
	return nil
}

func TestFiles_AbsentValueIsEmpty(t *testing.T) {
	job := &shapesJob{}

	for _, name := range []string{"single", "holder", "ordered", "by_key"} {
		refs, err := Files(job, descOf(t, job, name))
		require.NoError(t, err, name)
		assert.Empty(t, refs, name)
	}
}

func TestFiles_SingleFile(t *testing.T) {
	job := &shapesJob{Single: "a.txt"}
	refs, err := Files(job, descOf(t, job, "single"))
	require.NoError(t, err)
	assert.Equal(t, []fileref.Ref{"a.txt"}, refs)
}

func TestFiles_HolderDelegates(t *testing.T) {
	job := &shapesJob{Holder: &wrapped{Path: "w.txt"}}
	refs, err := Files(job, descOf(t, job, "holder"))
	require.NoError(t, err)
	assert.Equal(t, []fileref.Ref{"w.txt"}, refs)

	// A holder delegating to an empty reference counts as absent.
	job.Holder = &wrapped{}
	refs, err = Files(job, descOf(t, job, "holder"))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestFiles_OrderedCollection(t *testing.T) {
	job := &shapesJob{Ordered: []fileref.Ref{"a", "b", "c"}}
	refs, err := Files(job, descOf(t, job, "ordered"))
	require.NoError(t, err)
	assert.Equal(t, []fileref.Ref{"a", "b", "c"}, refs)
}

func TestFiles_UnorderedCollectionOfHolders(t *testing.T) {
	job := &shapesJob{Wrappers: map[string]wrapped{
		"x": {Path: "x.txt"},
		"y": {Path: "y.txt"},
	}}
	refs, err := Files(job, descOf(t, job, "wrappers"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []fileref.Ref{"x.txt", "y.txt"}, refs)
}

func TestFiles_NonFileShapeIsExtractError(t *testing.T) {
	job := &shapesJob{Bogus: 7}
	_, err := Files(job, descOf(t, job, "bogus"))
	require.Error(t, err)

	var extractErr *ExtractError
	require.True(t, errors.As(err, &extractErr))
	assert.Equal(t, "bogus", extractErr.Param)
	assert.Equal(t, 7, extractErr.Value)
	assert.Contains(t, err.Error(), "fileref.Holder")
}

func TestFileOf_RequiresExactlyOne(t *testing.T) {
	job := &shapesJob{Single: "a.txt"}
	ref, err := FileOf(job, descOf(t, job, "single"))
	require.NoError(t, err)
	assert.Equal(t, fileref.Ref("a.txt"), ref)

	_, err = FileOf(job, descOf(t, job, "ordered"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")

	job.Ordered = []fileref.Ref{"a", "b"}
	_, err = FileOf(job, descOf(t, job, "ordered"))
	require.Error(t, err)
}

func TestHasValue(t *testing.T) {
	job := &shapesJob{}
	assert.False(t, HasValue(job, descOf(t, job, "single")))
	assert.False(t, HasValue(job, descOf(t, job, "holder")))
	assert.False(t, HasValue(job, descOf(t, job, "ordered")))
	assert.False(t, HasValue(job, descOf(t, job, "note")))

	job.Single = "a.txt"
	job.Holder = &wrapped{Path: "w.txt"}
	job.Ordered = []fileref.Ref{"a"}
	job.Note = "fast"
	assert.True(t, HasValue(job, descOf(t, job, "single")))
	assert.True(t, HasValue(job, descOf(t, job, "holder")))
	assert.True(t, HasValue(job, descOf(t, job, "ordered")))
	assert.True(t, HasValue(job, descOf(t, job, "note")))

	// A reachable holder with an empty delegated reference is still absent.
	job.Holder = &wrapped{}
	assert.False(t, HasValue(job, descOf(t, job, "holder")))
}
