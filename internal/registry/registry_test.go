package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/fileref"
	"github.com/vk/pipewright/internal/jobspec"
	"github.com/vk/pipewright/internal/param"
)

type copyJob struct {
	jobspec.Spec

	Src fileref.Ref `pipe:"src,input,required" doc:"File to copy"`
	Dst fileref.Ref `pipe:"dst,output,required" doc:"Copy to produce"`
}

func TestRegister_MakesKindAvailable(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("copy", func() jobspec.Job { return &copyJob{} }))

	job, err := r.New("copy")
	require.NoError(t, err)
	assert.IsType(t, &copyJob{}, job)

	// Each call yields a fresh mutable instance.
	other, err := r.New("copy")
	require.NoError(t, err)
	assert.NotSame(t, job, other)

	assert.Equal(t, []string{"copy"}, r.Kinds())
}

func TestRegister_DuplicateKindPanics(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("copy", func() jobspec.Job { return &copyJob{} }))

	assert.Panics(t, func() {
		_ = r.Register("copy", func() jobspec.Job { return &copyJob{} })
	})
}

func TestRegister_BrokenDeclarationFailsFast(t *testing.T) {
	type brokenJob struct {
		jobspec.Spec
		Pattern string `pipe:"pattern,arg" xor:"no_such_parameter" doc:"Bad exclusion"`
	}
	r := New()
	err := r.Register("broken", func() jobspec.Job { return &brokenJob{} })
	require.Error(t, err)

	var configErr *param.ConfigError
	assert.True(t, errors.As(err, &configErr))
}

func TestDescriptors_ExposesCachedMetadata(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("copy", func() jobspec.Job { return &copyJob{} }))

	descs, err := r.Descriptors("copy")
	require.NoError(t, err)

	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	// The embedded specification's own parameters are discovered alongside
	// the kind's.
	assert.Equal(t, []string{"extra_deps", "stdout", "stderr", "src", "dst"}, names)
}

func TestUnknownKind(t *testing.T) {
	r := New()
	_, err := r.New("nope")
	require.Error(t, err)
	_, err = r.Descriptors("nope")
	require.Error(t, err)
	assert.Empty(t, r.Kinds())
}
