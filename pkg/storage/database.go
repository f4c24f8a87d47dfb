package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"github.com/rs/xid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"igtags/pkg/logger"
	"igtags/pkg/metadata"
	"igtags/pkg/models"
)

const insertBatchSize = 100

// PostRow is the database form of a models.Post
type PostRow struct {
	ID             string      `gorm:"size:20;primaryKey"`
	RunID          string      `gorm:"size:20;index"`
	Tag            string      `gorm:"size:255;index"`
	MediaID        null.String `gorm:"size:64"`
	OwnerID        null.String `gorm:"size:64"`
	CreatedTime    null.Time   `gorm:"index"`
	Typename       null.String `gorm:"size:32"`
	CommentCount   null.Int
	LikeCount      null.Int
	VideoViewCount null.Int
	Shortcode      null.String `gorm:"size:64"`
	Caption        null.String `gorm:"type:text"`
	FetchedAt      time.Time
}

func (PostRow) TableName() string {
	return "hashtag_posts"
}

// NewPostRow maps a post to a row. An empty or unparseable created time is NULL.
func NewPostRow(runID, tag string, p models.Post, fetchedAt time.Time) PostRow {
	row := PostRow{
		ID:             xid.New().String(),
		RunID:          runID,
		Tag:            tag,
		MediaID:        p.ID,
		OwnerID:        p.OwnerID,
		Typename:       p.Typename,
		CommentCount:   p.CommentCount,
		LikeCount:      p.LikeCount,
		VideoViewCount: p.VideoViewCount,
		Shortcode:      p.Shortcode,
		Caption:        p.Caption,
		FetchedAt:      fetchedAt,
	}
	if t, ok := metadata.ParseCreatedTime(p.CreatedTime); ok {
		row.CreatedTime = null.TimeFrom(t)
	}
	return row
}

// OpenDatabase connects to PostgreSQL
func OpenDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// DatabaseExporter inserts posts into the hashtag_posts table
type DatabaseExporter struct {
	db     *gorm.DB
	tag    string
	runID  string
	now    func() time.Time
	logger logger.Logger
}

// NewDatabaseExporter creates an exporter that tags every row with tag and runID
func NewDatabaseExporter(db *gorm.DB, tag, runID string, log logger.Logger) *DatabaseExporter {
	if log == nil {
		log = logger.GetLogger()
	}
	return &DatabaseExporter{
		db:     db,
		tag:    tag,
		runID:  runID,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"sink": "database", "run_id": runID}),
	}
}

// Migrate creates or updates the hashtag_posts table
func (e *DatabaseExporter) Migrate() error {
	if err := e.db.AutoMigrate(&PostRow{}); err != nil {
		return fmt.Errorf("failed to migrate hashtag_posts: %w", err)
	}
	return nil
}

// Export inserts one row per post
func (e *DatabaseExporter) Export(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		e.logger.Debug("Nothing to export")
		return nil
	}

	start := time.Now()
	fetchedAt := e.now().UTC()
	rows := make([]PostRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, NewPostRow(e.runID, e.tag, p, fetchedAt))
	}

	if err := e.db.WithContext(ctx).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("failed to insert posts: %w", err)
	}

	logger.LogExport(e.logger, "database", len(rows), time.Since(start))
	return nil
}
