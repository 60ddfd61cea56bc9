// Zip extraction for dataset archive ingestion.

package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ExtractAll unpacks the zip payload into destDir, preserving the archive's
// internal directory structure, and returns the full paths of the extracted
// regular files. destDir is created if needed. Entries that would escape
// destDir are rejected outright.
func ExtractAll(payload []byte, destDir string) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("invalid zip payload: %w", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	var extracted []string
	for _, entry := range reader.File {
		target, err := securePath(destDir, entry.Name)
		if err != nil {
			return nil, err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, err
		}
		if err := writeEntry(entry, target); err != nil {
			return nil, err
		}
		extracted = append(extracted, target)
	}

	return extracted, nil
}

func writeEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("extract zip entry %s: %w", entry.Name, err)
	}
	return dst.Close()
}

// securePath resolves an archive entry name under destDir and rejects
// path traversal (zip-slip).
func securePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("zip entry %s escapes extraction directory", name)
	}
	return target, nil
}
