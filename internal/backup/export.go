// Package backup writes the current day to a JSONL file and restores it.
package backup

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/kcal/internal/config"
	"github.com/hpungsan/kcal/internal/errors"
	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/tracker"
)

// SchemaVersion is written to every export header.
const SchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: <baseDir>/exports/kcal-<timestamp>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Header is the first line of an export file.
type Header struct {
	KcalExport    bool   `json:"_kcal_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
	Limit         int    `json:"limit"`
}

// Export writes the limit and every meal and workout to a JSONL file. The
// file is written to a temp name and renamed into place, so an existing file
// survives a failed export.
func Export(ctx context.Context, tr *tracker.Tracker, baseDir string, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		exportPath = filepath.Join(ExportsDir(baseDir), "kcal-"+now.Format("2006-01-02T150405")+".jsonl")
	}

	if err := ValidatePath(exportPath, PathCheckWrite, baseDir, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	s := tr.Snapshot()
	enc := json.NewEncoder(file)

	if err := enc.Encode(Header{
		KcalExport:    true,
		SchemaVersion: SchemaVersion,
		ExportedAt:    exportedAt,
		Limit:         s.Limit,
	}); err != nil {
		return nil, errors.NewInternal(err)
	}

	count := 0
	for _, list := range [][]item.Item{s.Meals, s.Workouts} {
		for _, it := range list {
			if err := ctx.Err(); err != nil {
				return nil, errors.NewInternal(fmt.Errorf("export cancelled: %w", err))
			}
			if err := enc.Encode(it); err != nil {
				return nil, errors.NewInternal(err)
			}
			count++
		}
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      count,
		ExportedAt: exportedAt,
	}, nil
}
