package storage

import (
	"context"

	"igtags/pkg/models"
)

// Exporter writes a finished result set somewhere
type Exporter interface {
	Export(ctx context.Context, posts []models.Post) error
}

// MultiExporter runs exporters in order and stops at the first failure
type MultiExporter []Exporter

// Export calls every exporter with the same posts
func (m MultiExporter) Export(ctx context.Context, posts []models.Post) error {
	for _, e := range m {
		if err := e.Export(ctx, posts); err != nil {
			return err
		}
	}
	return nil
}
