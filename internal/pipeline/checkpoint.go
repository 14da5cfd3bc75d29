package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prasdika/tabtrans/internal/table"
	"github.com/prasdika/tabtrans/pkg/log"
)

const (
	tempSuffix  = "_temp"
	errorSuffix = "_error"
)

// CheckpointWriter persists the table-in-progress around one output
// path. Intermediate checkpoints go to a temporary sibling of the final
// path; the final write replaces it by rename. Every artifact it writes
// is a complete, loadable table.
type CheckpointWriter struct {
	writer    table.Writer
	finalPath string
}

// NewCheckpointWriter creates a checkpoint writer for one job's output
// path.
func NewCheckpointWriter(writer table.Writer, finalPath string) *CheckpointWriter {
	return &CheckpointWriter{
		writer:    writer,
		finalPath: finalPath,
	}
}

// TempPath is the intermediate artifact path, e.g. out_temp.xlsx.
func (w *CheckpointWriter) TempPath() string {
	return suffixPath(w.finalPath, tempSuffix)
}

// ErrorPath is the failed-job artifact path, e.g. out_error.xlsx.
func (w *CheckpointWriter) ErrorPath() string {
	return suffixPath(w.finalPath, errorSuffix)
}

// FinalPath is the canonical output path.
func (w *CheckpointWriter) FinalPath() string {
	return w.finalPath
}

// Checkpoint saves a best-effort intermediate snapshot. Write failures
// are logged, never raised: losing a checkpoint must not crash the
// pipeline.
func (w *CheckpointWriter) Checkpoint(tbl *table.Table) {
	if err := w.writer.Write(tbl, w.TempPath()); err != nil {
		log.Error("Failed to save checkpoint to %s: %v", w.TempPath(), err)
	}
}

// Finalize writes the finished table to the temporary path and renames
// it onto the canonical output path, removing the superseded
// intermediate artifact in the same step.
func (w *CheckpointWriter) Finalize(tbl *table.Table) error {
	tempPath := w.TempPath()
	if err := w.writer.Write(tbl, tempPath); err != nil {
		return WrapError(err, ErrFileWrite, fmt.Sprintf("failed to write final table to %s", tempPath))
	}
	if err := os.Rename(tempPath, w.finalPath); err != nil {
		return WrapError(err, ErrFileWrite, fmt.Sprintf("failed to move %s to %s", tempPath, w.finalPath))
	}
	w.removeTemp()
	return nil
}

// Fail saves whatever partial translation exists under the error
// artifact path. Best-effort: the job is already failing.
func (w *CheckpointWriter) Fail(tbl *table.Table) {
	if tbl == nil {
		return
	}
	if err := w.writer.Write(tbl, w.ErrorPath()); err != nil {
		log.Error("Could not save partial progress to %s: %v", w.ErrorPath(), err)
		return
	}
	log.Info("Saved partial progress to %s", w.ErrorPath())
}

// removeTemp clears any lingering temporary artifact.
func (w *CheckpointWriter) removeTemp() {
	tempPath := w.TempPath()
	if _, err := os.Stat(tempPath); err == nil {
		if err := os.Remove(tempPath); err != nil {
			log.Warn("Failed to remove temporary artifact %s: %v", tempPath, err)
		}
	}
}

// suffixPath inserts a suffix before the file extension:
// dir/name.xlsx -> dir/name_temp.xlsx.
func suffixPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
