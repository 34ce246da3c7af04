// Package testutil provides the shared harness for integration tests:
// temp pipeline directories, log capture and filesystem helpers for
// staleness scenarios.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Dir       string
	LogOutput string
	Err       error
	App       *app.App
}

// RunPipeline provides a standardized harness for integration tests: it
// writes the given files into a fresh temp directory, points the app at it
// with debug text logging, and runs the full load-freeze-build lifecycle.
// The optional mutate callback adjusts the config before the run.
func RunPipeline(t *testing.T, files map[string]string, mutate func(*app.Config)) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, filepath.Join(dir, name), content)
	}

	cfg, err := app.NewConfig(app.Config{
		PipelinePath: dir,
		LogFormat:    "text",
		LogLevel:     "debug",
	})
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	var buf SafeBuffer
	a := app.NewApp(&buf, cfg)
	runErr := a.Run(context.Background(), cfg)

	return &HarnessResult{
		Dir:       dir,
		LogOutput: buf.String(),
		Err:       runErr,
		App:       a,
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
