package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"igtags/pkg/config"
	"igtags/pkg/instagram"
	"igtags/pkg/logger"
	"igtags/pkg/metadata"
	"igtags/pkg/models"
	"igtags/pkg/ratelimit"
	"igtags/pkg/ui"
)

// StopReason explains why a fetch ended
type StopReason string

const (
	// StopDateBoundary means the oldest post seen is not newer than the minimum date
	StopDateBoundary StopReason = "date_boundary"
	// StopEmptyPage means a page came back without posts
	StopEmptyPage StopReason = "empty_page"
	// StopFetchFailed means a request or its response failed
	StopFetchFailed StopReason = "fetch_failed"
)

// Result is the outcome of one fetch. Posts are kept on every stop reason.
type Result struct {
	Posts    []models.Post
	Pages    int
	Earliest time.Time
	Reason   StopReason
	Err      error
}

// Scraper pages through a hashtag and collects posts
type Scraper struct {
	client HashtagClient
	pacer  ratelimit.Pacer
	now    Clock
	logger logger.Logger
	runID  string
}

// Option customises a Scraper
type Option func(*Scraper)

// WithClient replaces the HTTP client
func WithClient(c HashtagClient) Option {
	return func(s *Scraper) { s.client = c }
}

// WithPacer replaces the fixed delay between pages
func WithPacer(p ratelimit.Pacer) Option {
	return func(s *Scraper) { s.pacer = p }
}

// WithClock replaces time.Now
func WithClock(c Clock) Option {
	return func(s *Scraper) { s.now = c }
}

// WithLogger replaces the global logger
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// New creates a new Scraper instance
func New(cfg *config.Config, opts ...Option) (*Scraper, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	s := &Scraper{
		pacer:  ratelimit.NewFixedDelay(cfg.Fetch.Wait()),
		now:    time.Now,
		logger: logger.GetLogger(),
		runID:  xid.New().String(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("run_id", s.runID)

	if s.client == nil {
		client := instagram.NewClient(cfg.Instagram.Timeout, s.logger)
		client.SetBaseURL(cfg.Instagram.BaseURL)
		if cfg.Instagram.UserAgent != "" {
			client.SetHeader("User-Agent", cfg.Instagram.UserAgent)
		}
		s.client = client
	}

	return s, nil
}

// RunID identifies this scraper's run in logs and database rows
func (s *Scraper) RunID() string {
	return s.runID
}

// FetchPosts pages through tag until the oldest post collected is not newer
// than minDate, a page is empty, or a request fails.
func (s *Scraper) FetchPosts(ctx context.Context, tag string, minDate time.Time) *Result {
	log := s.logger.WithField("tag", tag)
	result := &Result{Earliest: s.now()}
	cursor := ""

	log.InfoWithFields("Starting hashtag fetch", map[string]interface{}{
		"min_date": minDate.Format("2006-01-02"),
		"wait":     s.pacer.Interval(),
	})

	for {
		if !minDate.Before(result.Earliest) {
			result.Reason = StopDateBoundary
			break
		}

		if cursor != "" {
			ui.PrintStatus(fmt.Sprintf("Waiting %d seconds...", int(s.pacer.Interval().Seconds())))
			s.pacer.Wait()
			ui.PrintStatus(fmt.Sprintf("Using cursor %q", cursor))
		}

		ui.PrintStatus("Fetching...")
		page, err := s.client.FetchHashtagPage(ctx, tag, cursor)
		if err != nil {
			ui.PrintError("The program was interrupted by an error", err)
			log.WithError(err).WarnWithFields("Fetch stopped early", map[string]interface{}{
				"page":  result.Pages + 1,
				"posts": len(result.Posts),
			})
			result.Reason = StopFetchFailed
			result.Err = err
			break
		}
		result.Pages++
		cursor = page.EndCursor

		batch := make([]models.Post, 0, len(page.Nodes))
		for _, node := range page.Nodes {
			batch = append(batch, metadata.FromNode(node))
		}

		if len(batch) == 0 {
			ui.PrintStatus("No posts")
			result.Reason = StopEmptyPage
			break
		}

		result.Posts = append(result.Posts, batch...)
		if earliest, ok := earliestCreated(result.Posts); ok {
			result.Earliest = earliest
		}

		ui.PrintStatus(fmt.Sprintf("%d medias fetched so far", len(result.Posts)))
		logger.LogPage(log, result.Pages, len(batch), len(result.Posts), cursor)
	}

	ui.PrintStatus("Completed fetching")
	log.InfoWithFields("Completed fetching", map[string]interface{}{
		"posts":  len(result.Posts),
		"pages":  result.Pages,
		"reason": string(result.Reason),
	})

	return result
}

// earliestCreated returns the oldest parseable created time among posts
func earliestCreated(posts []models.Post) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, p := range posts {
		t, ok := metadata.ParseCreatedTime(p.CreatedTime)
		if !ok {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	return earliest, found
}
