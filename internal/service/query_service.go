package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-retrieval-be/internal/config"
	"media-retrieval-be/internal/dto"
	"media-retrieval-be/internal/pkg/logger"
	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/storage"
	"media-retrieval-be/pkg/process"
)

var queryAudioExtensions = map[string]bool{".mid": true, ".wav": true}

// transcoderTimeout bounds one wav→midi transcoder run.
const transcoderTimeout = 10 * time.Minute

type IQueryService interface {
	StageVisual(ctx context.Context, sessionID, fileName string, data []byte) (*dto.StageQueryResponse, error)
	StageAudio(ctx context.Context, sessionID, fileName string, data []byte) (*dto.StageQueryResponse, error)
	Run(ctx context.Context, sessionID string) error
	Revert(ctx context.Context, sessionID string) error
}

type queryService struct {
	layout        *storage.Layout
	mapperService IMapperService
	runner        process.IRunner
	retrieval     config.RetrievalConfig
	logger        logger.ILogger
}

func NewQueryService(
	layout *storage.Layout,
	mapperService IMapperService,
	runner process.IRunner,
	retrieval config.RetrievalConfig,
	log logger.ILogger,
) IQueryService {
	return &queryService{
		layout:        layout,
		mapperService: mapperService,
		runner:        runner,
		retrieval:     retrieval,
		logger:        log,
	}
}

// StageVisual puts the query image into its single-slot scratch area under
// the canonical name the retrieval engine expects.
func (s *queryService) StageVisual(ctx context.Context, sessionID, fileName string, data []byte) (*dto.StageQueryResponse, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !imageExtensions[ext] {
		return nil, serverutils.NewInvalidFileType("Invalid image file type")
	}

	scratchDir := s.layout.QueryVisualDir(sessionID)
	savedPath, err := s.stage(scratchDir, "input.png", data)
	if err != nil {
		return nil, serverutils.NewInternal("Error processing image upload", err)
	}

	return &dto.StageQueryResponse{
		Success:       true,
		Message:       "Image uploaded successfully",
		FileName:      fileName,
		SavedFilePath: savedPath,
	}, nil
}

// StageAudio accepts a .mid or .wav query item, including browser-recorded
// microphone clips which arrive as ordinary .wav uploads. A .wav item also
// kicks off the external transcoder so the engine finds a midi rendition
// next to it; the transcoder runs detached and its failure is only logged.
func (s *queryService) StageAudio(ctx context.Context, sessionID, fileName string, data []byte) (*dto.StageQueryResponse, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !queryAudioExtensions[ext] {
		return nil, serverutils.NewInvalidFileType("Invalid audio file type")
	}

	canonical := "input.mid"
	if ext == ".wav" {
		canonical = "input.wav"
	}

	scratchDir := s.layout.QueryAudioDir(sessionID)
	savedPath, err := s.stage(scratchDir, canonical, data)
	if err != nil {
		return nil, serverutils.NewInternal("Error processing audio upload", err)
	}

	if ext == ".wav" {
		go s.transcodeWav(savedPath, scratchDir)
	}

	return &dto.StageQueryResponse{
		Success:       true,
		Message:       "Audio uploaded successfully",
		FileName:      fileName,
		SavedFilePath: savedPath,
	}, nil
}

// stage enforces single-item occupancy: the scratch dir is cleared before
// the new item is written.
func (s *queryService) stage(scratchDir, canonicalName string, data []byte) (string, error) {
	if err := storage.EnsureDir(scratchDir); err != nil {
		return "", err
	}
	if err := storage.ClearDir(scratchDir); err != nil {
		return "", err
	}
	savedPath := filepath.Join(scratchDir, canonicalName)
	if err := os.WriteFile(savedPath, data, 0o644); err != nil {
		return "", err
	}
	return savedPath, nil
}

func (s *queryService) transcodeWav(savedPath, scratchDir string) {
	ctx, cancel := context.WithTimeout(context.Background(), transcoderTimeout)
	defer cancel()

	script := filepath.Join(s.retrieval.ScriptDir, "processWavToMidi.py")
	_, stderr, err := s.runner.Run(ctx, s.retrieval.PythonBin, script, "--path", savedPath, "--folder", scratchDir)
	if err != nil {
		s.logger.Error("QueryService", "Wav to midi transcoding failed", map[string]interface{}{
			"path":   savedPath,
			"stderr": stderr,
			"error":  err.Error(),
		})
	}
}

// Run executes one query: snapshot the mapper, invoke the retrieval engine
// synchronously, and clear both scratch areas afterward on success and
// failure alike so the next query starts from a clean slate. The engine's
// partial side effects on the mapper are not rolled back on failure.
func (s *queryService) Run(ctx context.Context, sessionID string) error {
	visualScratch := s.layout.QueryVisualDir(sessionID)
	audioScratch := s.layout.QueryAudioDir(sessionID)
	if err := storage.EnsureDir(visualScratch); err != nil {
		return serverutils.NewInternal("Error executing retrieval process", err)
	}
	if err := storage.EnsureDir(audioScratch); err != nil {
		return serverutils.NewInternal("Error executing retrieval process", err)
	}

	if !storage.DirHasFiles(visualScratch) && !storage.DirHasFiles(audioScratch) {
		return serverutils.NewEmptyQuery()
	}

	// No snapshot, no query: revert would otherwise have nothing to go back to.
	// A missing mapper is reported as the snapshot being unavailable to this
	// query, not as the store-level source error.
	if err := s.mapperService.Snapshot(ctx, sessionID); err != nil {
		var appErr *serverutils.AppError
		if errors.As(err, &appErr) && appErr.Code == serverutils.CodeSnapshotSourceMissing {
			return serverutils.NewSnapshotUnavailable(err)
		}
		return err
	}

	defer func() {
		if err := storage.ClearDir(visualScratch); err != nil {
			s.logger.Warn("QueryService", "Failed to clear visual scratch", map[string]interface{}{"error": err.Error()})
		}
		if err := storage.ClearDir(audioScratch); err != nil {
			s.logger.Warn("QueryService", "Failed to clear audio scratch", map[string]interface{}{"error": err.Error()})
		}
	}()

	runCtx := ctx
	if s.retrieval.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(s.retrieval.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	script := filepath.Join(s.retrieval.ScriptDir, "retrieval.py")
	stdout, stderr, err := s.runner.Run(runCtx, s.retrieval.PythonBin, script, "--session", sessionID)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return serverutils.NewRetrievalTimeout()
		}
		return serverutils.NewRetrievalFailed(err)
	}
	// Diagnostic output on stderr counts as failure even on a zero exit.
	if stderr != "" {
		return serverutils.NewRetrievalFailed(fmt.Errorf("retrieval stderr: %s", stderr))
	}

	s.logger.Info("QueryService", "Retrieval finished", map[string]interface{}{
		"session_id": sessionID,
		"stdout":     stdout,
	})
	return nil
}

// Revert restores the pre-query mapper from its snapshot, discarding the
// similarity annotations of the last query.
func (s *queryService) Revert(ctx context.Context, sessionID string) error {
	return s.mapperService.RestoreFromSnapshot(ctx, sessionID)
}
