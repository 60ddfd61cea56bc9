package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"media-retrieval-be/internal/dto"
	"media-retrieval-be/internal/entity"
	"media-retrieval-be/internal/pkg/logger"
	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/storage"
)

type IMapperService interface {
	Replace(ctx context.Context, sessionID, fileName string, payload []byte) (*dto.UploadMapperResponse, error)
	Snapshot(ctx context.Context, sessionID string) error
	RestoreFromSnapshot(ctx context.Context, sessionID string) error
	Read(ctx context.Context, sessionID string) ([]entity.MapperEntry, error)
}

type mapperService struct {
	layout *storage.Layout
	logger logger.ILogger
}

func NewMapperService(layout *storage.Layout, log logger.ILogger) IMapperService {
	return &mapperService{
		layout: layout,
		logger: log,
	}
}

// Replace is the only mapper write path triggered directly by a client
// upload; every other mutation comes from the retrieval engine or the
// indexer rewriting the file in place.
func (s *mapperService) Replace(ctx context.Context, sessionID, fileName string, payload []byte) (*dto.UploadMapperResponse, error) {
	if strings.ToLower(filepath.Ext(fileName)) != ".json" {
		return nil, serverutils.NewInvalidFileType("Only .json files are allowed")
	}

	entries, err := parseMapper(payload)
	if err != nil {
		return nil, serverutils.NewInvalidContent("Invalid mapper.json format", err)
	}
	for _, entry := range entries {
		if err := serverutils.ValidateStruct(entry); err != nil {
			return nil, serverutils.NewInvalidContent("Invalid mapper.json format", err)
		}
	}

	if err := storage.EnsureDir(s.layout.SessionDir(sessionID)); err != nil {
		return nil, serverutils.NewInternal("Error uploading mapper", err)
	}

	mapperPath := s.layout.MapperPath(sessionID)

	// Hapus file mapper lama jika ada
	if err := os.Remove(mapperPath); err != nil {
		s.logger.Debug("MapperService", "No previous mapper file to remove", map[string]interface{}{"session_id": sessionID})
	}

	if err := os.WriteFile(mapperPath, payload, 0o644); err != nil {
		return nil, serverutils.NewInternal("Error uploading mapper", err)
	}

	return &dto.UploadMapperResponse{
		Success: true,
		Message: "Mapper uploaded successfully",
		Path:    "/uploads/mapper.json",
	}, nil
}

// Snapshot copies the mapper to its pre-query snapshot, overwriting any
// prior snapshot from an earlier query.
func (s *mapperService) Snapshot(ctx context.Context, sessionID string) error {
	mapperPath := s.layout.MapperPath(sessionID)
	if !storage.FileExists(mapperPath) {
		return serverutils.NewSnapshotSourceMissing()
	}
	if err := storage.CopyFile(mapperPath, s.layout.SnapshotPath(sessionID)); err != nil {
		return serverutils.NewSnapshotUnavailable(err)
	}
	return nil
}

// RestoreFromSnapshot is the logical undo of a query: the pre-query copy
// overwrites the annotated mapper and the snapshot is removed.
func (s *mapperService) RestoreFromSnapshot(ctx context.Context, sessionID string) error {
	snapshotPath := s.layout.SnapshotPath(sessionID)
	if !storage.FileExists(snapshotPath) {
		return serverutils.NewRestoreFailed(nil)
	}
	if err := storage.CopyFile(snapshotPath, s.layout.MapperPath(sessionID)); err != nil {
		return serverutils.NewRestoreFailed(err)
	}
	if err := os.Remove(snapshotPath); err != nil {
		return serverutils.NewRestoreFailed(err)
	}
	return nil
}

func (s *mapperService) Read(ctx context.Context, sessionID string) ([]entity.MapperEntry, error) {
	raw, err := os.ReadFile(s.layout.MapperPath(sessionID))
	if err != nil {
		return nil, serverutils.NewCorruptMapper(err)
	}
	entries, err := parseMapper(raw)
	if err != nil {
		return nil, serverutils.NewCorruptMapper(err)
	}
	return entries, nil
}

func parseMapper(payload []byte) ([]entity.MapperEntry, error) {
	var entries []entity.MapperEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
