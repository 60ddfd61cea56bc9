package storage

import "path/filepath"

// Layout describes the fixed directory shape of one session partition.
// Every per-session path is derived from Root + session token, so the token
// is the only thing protecting one session's state from another's.
type Layout struct {
	Root string
}

func NewLayout(root string) *Layout {
	return &Layout{Root: root}
}

func (l *Layout) SessionDir(sessionID string) string {
	return filepath.Join(l.Root, sessionID)
}

// VisualDir holds the ingested cover image pool.
func (l *Layout) VisualDir(sessionID string) string {
	return filepath.Join(l.SessionDir(sessionID), "images")
}

// AudioDir holds the ingested music pool.
func (l *Layout) AudioDir(sessionID string) string {
	return filepath.Join(l.SessionDir(sessionID), "audio")
}

// QueryVisualDir is the single-slot scratch area for the active image query.
func (l *Layout) QueryVisualDir(sessionID string) string {
	return filepath.Join(l.SessionDir(sessionID), "query", "image")
}

// QueryAudioDir is the single-slot scratch area for the active audio query.
func (l *Layout) QueryAudioDir(sessionID string) string {
	return filepath.Join(l.SessionDir(sessionID), "query", "audio")
}

func (l *Layout) MapperPath(sessionID string) string {
	return filepath.Join(l.SessionDir(sessionID), "mapper.json")
}

// SnapshotPath is the pre-query copy of the mapper. It exists only while a
// query is outstanding.
func (l *Layout) SnapshotPath(sessionID string) string {
	return filepath.Join(l.SessionDir(sessionID), "copy_mapper.json")
}

// StatusPath is written by the retrieval engine (elapsed-time report).
func (l *Layout) StatusPath(sessionID string) string {
	return filepath.Join(l.SessionDir(sessionID), "time.txt")
}
