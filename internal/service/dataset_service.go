package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"media-retrieval-be/internal/dto"
	"media-retrieval-be/internal/pkg/logger"
	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/storage"
	"media-retrieval-be/pkg/archive"
	"media-retrieval-be/pkg/events"

	"golang.org/x/sync/errgroup"
)

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	musicExtensions = map[string]bool{".mp3": true, ".wav": true, ".mid": true, ".midi": true}
)

type IDatasetService interface {
	IngestArchives(ctx context.Context, sessionID string, cover, music []byte) (*dto.UploadDatasetResponse, error)
	Project(ctx context.Context, sessionID string) (*dto.GetDatasetResponse, error)
}

type datasetService struct {
	layout           *storage.Layout
	mapperService    IMapperService
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewDatasetService(
	layout *storage.Layout,
	mapperService IMapperService,
	publisherService IPublisherService,
	log logger.ILogger,
) IDatasetService {
	return &datasetService{
		layout:           layout,
		mapperService:    mapperService,
		publisherService: publisherService,
		logger:           log,
	}
}

// IngestArchives replaces both dataset pools from the uploaded zip pair.
// The two archives are processed concurrently; each pool is cleared only
// after its archive has fully validated, so a rejected archive leaves the
// prior pool untouched. Atomicity across the pair is not guaranteed: one
// archive can succeed while the other fails.
func (s *datasetService) IngestArchives(ctx context.Context, sessionID string, cover, music []byte) (*dto.UploadDatasetResponse, error) {
	if err := storage.EnsureDir(s.layout.VisualDir(sessionID)); err != nil {
		return nil, serverutils.NewInternal("Error processing dataset", err)
	}
	if err := storage.EnsureDir(s.layout.AudioDir(sessionID)); err != nil {
		return nil, serverutils.NewInternal("Error processing dataset", err)
	}

	var coverFiles, musicFiles []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		coverFiles, err = s.processArchive(gctx, sessionID, cover, archiveSpec{
			kind:        "cover",
			label:       "Cover",
			tempPrefix:  "temp_cover_",
			allowedExts: imageExtensions,
			poolDir:     s.layout.VisualDir(sessionID),
			contentHint: "image",
		})
		return err
	})
	g.Go(func() error {
		var err error
		musicFiles, err = s.processArchive(gctx, sessionID, music, archiveSpec{
			kind:        "music",
			label:       "Music",
			tempPrefix:  "temp_music_",
			allowedExts: musicExtensions,
			poolDir:     s.layout.AudioDir(sessionID),
			contentHint: "audio",
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The indexer run is decoupled from this request: publish and return.
	if err := s.publisherService.Publish(ctx, events.NewDatasetIngested(sessionID)); err != nil {
		s.logger.Error("DatasetService", "Failed to publish ingest event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	return &dto.UploadDatasetResponse{
		Success:    true,
		Message:    "Datasets extracted and uploaded successfully",
		CoverFiles: coverFiles,
		MusicFiles: musicFiles,
	}, nil
}

type archiveSpec struct {
	kind        string
	label       string
	tempPrefix  string
	allowedExts map[string]bool
	poolDir     string
	contentHint string
}

func (s *datasetService) processArchive(ctx context.Context, sessionID string, payload []byte, spec archiveSpec) ([]string, error) {
	tempDir := filepath.Join(s.layout.SessionDir(sessionID), spec.tempPrefix+strconv.FormatInt(time.Now().UnixMilli(), 10))
	defer func() {
		if err := storage.RemoveAll(tempDir); err != nil {
			s.logger.Warn("DatasetService", "Failed to clean up extraction directory", map[string]interface{}{
				"dir":   tempDir,
				"error": err.Error(),
			})
		}
	}()

	if _, err := archive.ExtractAll(payload, tempDir); err != nil {
		return nil, serverutils.NewInvalidContent(fmt.Sprintf("Error extracting %s ZIP file", spec.kind), err)
	}

	extracted, err := storage.ListFilesRecursive(tempDir)
	if err != nil {
		return nil, serverutils.NewInternal("Error processing dataset", err)
	}
	if len(extracted) == 0 {
		return nil, serverutils.NewInvalidContent(fmt.Sprintf("%s ZIP file is empty", spec.label), nil)
	}

	// All-or-nothing: one disallowed file invalidates the whole archive.
	for _, file := range extracted {
		ext := strings.ToLower(filepath.Ext(file))
		if !spec.allowedExts[ext] {
			return nil, serverutils.NewInvalidContent(fmt.Sprintf(
				"%s ZIP contains non-%s files. Please upload only %s files.",
				spec.kind, spec.contentHint, spec.contentHint,
			), nil)
		}
	}

	if err := storage.ClearDir(spec.poolDir); err != nil {
		return nil, serverutils.NewInternal("Error processing dataset", err)
	}

	processed := make([]string, 0, len(extracted))
	for _, file := range extracted {
		// Flatten: only the base name survives into the pool.
		name := filepath.Base(file)
		if err := storage.MoveFile(file, filepath.Join(spec.poolDir, name)); err != nil {
			return nil, serverutils.NewInternal("Error processing dataset", err)
		}
		processed = append(processed, name)
	}

	return processed, nil
}

// Project cross-references the mapper against the files actually present in
// both pools. Entries whose referenced files are gone are dropped silently.
func (s *datasetService) Project(ctx context.Context, sessionID string) (*dto.GetDatasetResponse, error) {
	entries, err := s.mapperService.Read(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	images, err := storage.ListFiles(s.layout.VisualDir(sessionID))
	if err != nil {
		return nil, serverutils.NewInternal("Error fetching data", err)
	}
	audio, err := storage.ListFiles(s.layout.AudioDir(sessionID))
	if err != nil {
		return nil, serverutils.NewInternal("Error fetching data", err)
	}

	imageSet := make(map[string]bool, len(images))
	for _, name := range images {
		imageSet[name] = true
	}
	audioSet := make(map[string]bool, len(audio))
	for _, name := range audio {
		audioSet[name] = true
	}

	dataset := make([]dto.DatasetItem, 0, len(entries))
	for _, entry := range entries {
		if imageSet[entry.PicName] && audioSet[entry.AudioFile] {
			dataset = append(dataset, dto.DatasetItem{
				Song:            entry.AudioFile,
				Cover:           entry.PicName,
				AudioSimilarity: entry.AudioSimilarity,
				ImageDistance:   entry.ImageDistance,
			})
		}
	}

	if len(dataset) == 0 {
		return nil, serverutils.NewNoMatch("No matching data found for audio and image files")
	}

	return &dto.GetDatasetResponse{
		Success: true,
		Dataset: dataset,
	}, nil
}
