package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"igtags/pkg/logger"
	"igtags/pkg/models"
	"igtags/pkg/ui"
)

// CSVExporter writes posts to a delimited text file, header first
type CSVExporter struct {
	path      string
	delimiter rune
	logger    logger.Logger
}

// NewCSVExporter creates an exporter for path. The file is only touched when
// there is at least one post.
func NewCSVExporter(path string, delimiter rune, log logger.Logger) *CSVExporter {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CSVExporter{
		path:      path,
		delimiter: delimiter,
		logger:    log.WithField("sink", "csv"),
	}
}

// Path returns the output file path
func (e *CSVExporter) Path() string {
	return e.path
}

// Export truncates the output file and writes one header row and one row
// per post. The path is opened in place so symlinks, /dev/stdout and FIFOs
// keep working.
func (e *CSVExporter) Export(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		ui.PrintStatus("Nothing to export")
		e.logger.Debug("Nothing to export")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validDelimiter(e.delimiter); err != nil {
		return err
	}

	ui.PrintStatus("Exporting posts...")
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(e.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	w, err := newRowWriter(f, e.delimiter)
	if err != nil {
		return err
	}
	if err := w.Write(models.PostColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range posts {
		if err := w.Write(p.Values()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	logger.LogExport(e.logger.WithField("path", e.path), "csv", len(posts), time.Since(start))
	return nil
}
