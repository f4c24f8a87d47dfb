package scraper

import (
	"context"
	"time"

	"igtags/pkg/instagram"
)

// HashtagClient defines the interface for fetching hashtag pages
type HashtagClient interface {
	FetchHashtagPage(ctx context.Context, tag, cursor string) (*instagram.Page, error)
}

// Clock returns the current time
type Clock func() time.Time
