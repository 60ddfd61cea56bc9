package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"media-retrieval-be/internal/config"
	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryService(t *testing.T, runner *stubRunner) (IQueryService, IMapperService, *storage.Layout) {
	return newQueryServiceWithTimeout(t, runner, 60)
}

func newQueryServiceWithTimeout(t *testing.T, runner *stubRunner, timeoutSecs int) (IQueryService, IMapperService, *storage.Layout) {
	t.Helper()
	layout := newTestLayout(t)
	mapperSvc := NewMapperService(layout, nopLogger{})
	retrieval := config.RetrievalConfig{
		PythonBin:      "python",
		ScriptDir:      "src",
		TimeoutSeconds: timeoutSecs,
	}
	return NewQueryService(layout, mapperSvc, runner, retrieval, nopLogger{}), mapperSvc, layout
}

func seedMapper(t *testing.T, mapperSvc IMapperService) {
	t.Helper()
	_, err := mapperSvc.Replace(context.Background(), sessionID, "mapper.json", []byte(`[{"audio_file":"b.wav","pic_name":"a.png"}]`))
	require.NoError(t, err)
}

func TestStageVisual(t *testing.T) {
	svc, _, layout := newQueryService(t, &stubRunner{})

	res, err := svc.StageVisual(context.Background(), sessionID, "cover photo.jpeg", []byte("img"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "cover photo.jpeg", res.FileName)

	// Canonical name, not the original one.
	files, err := storage.ListFiles(layout.QueryVisualDir(sessionID))
	require.NoError(t, err)
	assert.Equal(t, []string{"input.png"}, files)
}

func TestStageVisualSingleSlot(t *testing.T) {
	svc, _, layout := newQueryService(t, &stubRunner{})

	_, err := svc.StageVisual(context.Background(), sessionID, "first.png", []byte("1"))
	require.NoError(t, err)
	_, err = svc.StageVisual(context.Background(), sessionID, "second.png", []byte("2"))
	require.NoError(t, err)

	files, err := storage.ListFiles(layout.QueryVisualDir(sessionID))
	require.NoError(t, err)
	require.Equal(t, []string{"input.png"}, files)

	got, err := os.ReadFile(filepath.Join(layout.QueryVisualDir(sessionID), "input.png"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(got), "staging replaces the previous item")
}

func TestStageVisualRejectsExtension(t *testing.T) {
	svc, _, _ := newQueryService(t, &stubRunner{})

	_, err := svc.StageVisual(context.Background(), sessionID, "cover.gif", []byte("img"))
	assert.Equal(t, serverutils.CodeInvalidFileType, appErrorCode(t, err))
}

func TestStageAudioMidi(t *testing.T) {
	runner := &stubRunner{}
	svc, _, layout := newQueryService(t, runner)

	_, err := svc.StageAudio(context.Background(), sessionID, "melody.mid", []byte("midi"))
	require.NoError(t, err)

	files, err := storage.ListFiles(layout.QueryAudioDir(sessionID))
	require.NoError(t, err)
	assert.Equal(t, []string{"input.mid"}, files)
	assert.Empty(t, runner.calls, "midi staging must not invoke the transcoder")
}

func TestStageAudioRejectsExtension(t *testing.T) {
	svc, _, _ := newQueryService(t, &stubRunner{})

	_, err := svc.StageAudio(context.Background(), sessionID, "clip.mp3", []byte("mp3"))
	assert.Equal(t, serverutils.CodeInvalidFileType, appErrorCode(t, err))
}

func TestRunEmptyQuery(t *testing.T) {
	runner := &stubRunner{}
	svc, mapperSvc, layout := newQueryService(t, runner)
	seedMapper(t, mapperSvc)

	err := svc.Run(context.Background(), sessionID)
	assert.Equal(t, serverutils.CodeEmptyQuery, appErrorCode(t, err))
	assert.Empty(t, runner.calls)
	assert.False(t, storage.FileExists(layout.SnapshotPath(sessionID)), "no snapshot on an empty query")
}

func TestRunWithoutMapper(t *testing.T) {
	svc, _, _ := newQueryService(t, &stubRunner{})

	_, err := svc.StageVisual(context.Background(), sessionID, "cover.png", []byte("img"))
	require.NoError(t, err)

	err = svc.Run(context.Background(), sessionID)
	assert.Equal(t, serverutils.CodeSnapshotUnavailable, appErrorCode(t, err))
}

func TestRunSuccessClearsScratch(t *testing.T) {
	runner := &stubRunner{stdout: "elapsed 1.2s"}
	svc, mapperSvc, layout := newQueryService(t, runner)
	seedMapper(t, mapperSvc)

	_, err := svc.StageVisual(context.Background(), sessionID, "cover.png", []byte("img"))
	require.NoError(t, err)

	require.NoError(t, svc.Run(context.Background(), sessionID))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{filepath.Join("src", "retrieval.py"), "--session", sessionID}, runner.calls[0].args)

	assert.False(t, storage.DirHasFiles(layout.QueryVisualDir(sessionID)))
	assert.False(t, storage.DirHasFiles(layout.QueryAudioDir(sessionID)))
	assert.True(t, storage.FileExists(layout.SnapshotPath(sessionID)), "snapshot stays until the query is reverted")
}

func TestRunFailureStillClearsScratch(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 1")}
	svc, mapperSvc, layout := newQueryService(t, runner)
	seedMapper(t, mapperSvc)

	_, err := svc.StageAudio(context.Background(), sessionID, "melody.mid", []byte("midi"))
	require.NoError(t, err)

	err = svc.Run(context.Background(), sessionID)
	assert.Equal(t, serverutils.CodeRetrievalFailed, appErrorCode(t, err))

	assert.False(t, storage.DirHasFiles(layout.QueryAudioDir(sessionID)), "scratch is cleared on failure too")
}

func TestRunTimeout(t *testing.T) {
	// The stubbed engine hangs until the run deadline kills it.
	runner := &stubRunner{err: errors.New("signal: killed")}
	runner.onRun = func(ctx context.Context) {
		<-ctx.Done()
	}
	svc, mapperSvc, layout := newQueryServiceWithTimeout(t, runner, 1)
	seedMapper(t, mapperSvc)

	_, err := svc.StageAudio(context.Background(), sessionID, "melody.mid", []byte("midi"))
	require.NoError(t, err)

	err = svc.Run(context.Background(), sessionID)
	assert.Equal(t, serverutils.CodeRetrievalTimeout, appErrorCode(t, err))

	assert.False(t, storage.DirHasFiles(layout.QueryAudioDir(sessionID)), "scratch is cleared on timeout too")
}

func TestRunStderrIsFailure(t *testing.T) {
	runner := &stubRunner{stderr: "Traceback (most recent call last)"}
	svc, mapperSvc, _ := newQueryService(t, runner)
	seedMapper(t, mapperSvc)

	_, err := svc.StageAudio(context.Background(), sessionID, "melody.mid", []byte("midi"))
	require.NoError(t, err)

	err = svc.Run(context.Background(), sessionID)
	assert.Equal(t, serverutils.CodeRetrievalFailed, appErrorCode(t, err))
}

func TestRevertRestoresMapper(t *testing.T) {
	runner := &stubRunner{}
	svc, mapperSvc, layout := newQueryService(t, runner)
	original := []byte(`[{"audio_file":"b.wav","pic_name":"a.png"}]`)
	_, err := mapperSvc.Replace(context.Background(), sessionID, "mapper.json", original)
	require.NoError(t, err)

	_, err = svc.StageAudio(context.Background(), sessionID, "melody.mid", []byte("midi"))
	require.NoError(t, err)

	// The stubbed engine annotates the mapper while the query runs.
	runner.onRun = func(ctx context.Context) {
		annotated := []byte(`[{"audio_file":"b.wav","pic_name":"a.png","audio_similarity":0.8,"image_distance":0.2}]`)
		require.NoError(t, os.WriteFile(layout.MapperPath(sessionID), annotated, 0o644))
	}
	require.NoError(t, svc.Run(context.Background(), sessionID))

	entries, err := mapperSvc.Read(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotNil(t, entries[0].AudioSimilarity)

	require.NoError(t, svc.Revert(context.Background(), sessionID))

	got, err := os.ReadFile(layout.MapperPath(sessionID))
	require.NoError(t, err)
	assert.Equal(t, original, got)
	assert.False(t, storage.FileExists(layout.SnapshotPath(sessionID)))
}

func TestRevertWithoutSnapshot(t *testing.T) {
	svc, _, _ := newQueryService(t, &stubRunner{})

	err := svc.Revert(context.Background(), sessionID)
	assert.Equal(t, serverutils.CodeRestoreFailed, appErrorCode(t, err))
}
