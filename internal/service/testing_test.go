package service

import (
	"bytes"
	"context"
	"testing"

	"media-retrieval-be/internal/storage"
	"media-retrieval-be/pkg/events"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// Shared test doubles for the service layer.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubPublisher struct {
	published []events.Event
}

func (p *stubPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type runnerCall struct {
	program string
	args    []string
}

type stubRunner struct {
	calls  []runnerCall
	stdout string
	stderr string
	err    error
	// onRun, when set, runs before the canned result is returned.
	onRun func(ctx context.Context)
}

func (r *stubRunner) Run(ctx context.Context, program string, args ...string) (string, string, error) {
	r.calls = append(r.calls, runnerCall{program: program, args: args})
	if r.onRun != nil {
		r.onRun(ctx)
	}
	return r.stdout, r.stderr, r.err
}

func newTestLayout(t *testing.T) *storage.Layout {
	t.Helper()
	return storage.NewLayout(t.TempDir())
}

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}
