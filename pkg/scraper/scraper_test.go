package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igtags/pkg/config"
	errs "igtags/pkg/errors"
	"igtags/pkg/instagram"
	"igtags/pkg/logger"
	"igtags/pkg/storage"
	"igtags/pkg/ui"
)

var fixedNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	ui.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type response struct {
	page *instagram.Page
	err  error
}

// scriptedClient replays responses in order and records the cursors it was asked for.
// events interleaves fetches with pacer waits.
type scriptedClient struct {
	responses []response
	cursors   []string
	events    []string
}

func (c *scriptedClient) FetchHashtagPage(ctx context.Context, tag, cursor string) (*instagram.Page, error) {
	c.cursors = append(c.cursors, cursor)
	c.events = append(c.events, "fetch:"+cursor)
	if len(c.responses) == 0 {
		return nil, errors.New("unexpected request")
	}
	r := c.responses[0]
	c.responses = c.responses[1:]
	return r.page, r.err
}

type countingPacer struct {
	waits  int
	events *[]string
}

func (p *countingPacer) Wait() {
	p.waits++
	if p.events != nil {
		*p.events = append(*p.events, "wait")
	}
}

func (p *countingPacer) Interval() time.Duration { return 20 * time.Second }

func node(id string, at time.Time) instagram.Node {
	return instagram.ParseNode(fmt.Sprintf(`{"id":%q,"taken_at_timestamp":%d}`, id, at.Unix()))
}

func page(cursor string, nodes ...instagram.Node) response {
	return response{page: &instagram.Page{EndCursor: cursor, Nodes: nodes}}
}

func day(d int) time.Time {
	return time.Date(2023, 12, d, 12, 0, 0, 0, time.UTC)
}

func newTestScraper(t *testing.T, client HashtagClient) (*Scraper, *countingPacer) {
	t.Helper()
	pacer := &countingPacer{}
	if sc, ok := client.(*scriptedClient); ok {
		pacer.events = &sc.events
	}
	s, err := New(config.DefaultConfig(),
		WithClient(client),
		WithPacer(pacer),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logger.NewNopLogger()),
	)
	require.NoError(t, err)
	return s, pacer
}

func TestFetchPostsStopsAtDateBoundary(t *testing.T) {
	client := &scriptedClient{responses: []response{
		page("c1", node("1", day(31)), node("2", day(30))),
		page("c2", node("3", day(20))),
		page("c3", node("4", day(10))),
	}}
	s, pacer := newTestScraper(t, client)

	result := s.FetchPosts(context.Background(), "golang", day(25))

	assert.Equal(t, StopDateBoundary, result.Reason)
	assert.NoError(t, result.Err)
	assert.Len(t, result.Posts, 3)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, []string{"", "c1"}, client.cursors)
	assert.Equal(t, 1, pacer.waits)
	assert.Equal(t, []string{"fetch:", "wait", "fetch:c1"}, client.events, "wait happens between requests")
	assert.Equal(t, day(20), result.Earliest)

	var ids []string
	for _, p := range result.Posts {
		ids = append(ids, p.ID.String)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestFetchPostsStopsOnEmptyPage(t *testing.T) {
	client := &scriptedClient{responses: []response{
		page("c1", node("1", day(31))),
		page(""),
	}}
	s, pacer := newTestScraper(t, client)

	result := s.FetchPosts(context.Background(), "golang", day(1))

	assert.Equal(t, StopEmptyPage, result.Reason)
	assert.Len(t, result.Posts, 1)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 1, pacer.waits)
}

func TestFetchPostsKeepsPostsOnFailure(t *testing.T) {
	failure := errs.FromStatusCode(http.StatusTooManyRequests)
	client := &scriptedClient{responses: []response{
		page("c1", node("1", day(31)), node("2", day(31))),
		{err: failure},
	}}
	s, _ := newTestScraper(t, client)

	result := s.FetchPosts(context.Background(), "golang", day(1))

	assert.Equal(t, StopFetchFailed, result.Reason)
	assert.ErrorIs(t, result.Err, failure)
	assert.Len(t, result.Posts, 2)
	assert.Equal(t, 1, result.Pages)
}

func TestFetchPostsFirstRequestFails(t *testing.T) {
	client := &scriptedClient{responses: []response{
		{err: errs.NewParsingError("response is not valid JSON", 200, nil)},
	}}
	s, pacer := newTestScraper(t, client)

	result := s.FetchPosts(context.Background(), "golang", day(1))

	assert.Equal(t, StopFetchFailed, result.Reason)
	assert.True(t, errs.IsParsing(result.Err))
	assert.Empty(t, result.Posts)
	assert.Equal(t, 0, pacer.waits)
}

func TestFetchPostsMinDateNotBeforeNow(t *testing.T) {
	for name, minDate := range map[string]time.Time{
		"after now": fixedNow.AddDate(0, 0, 1),
		"equal now": fixedNow,
	} {
		t.Run(name, func(t *testing.T) {
			client := &scriptedClient{}
			s, pacer := newTestScraper(t, client)

			result := s.FetchPosts(context.Background(), "golang", minDate)

			assert.Equal(t, StopDateBoundary, result.Reason)
			assert.Empty(t, client.cursors)
			assert.Empty(t, result.Posts)
			assert.Equal(t, 0, pacer.waits)
			assert.Equal(t, fixedNow, result.Earliest)
		})
	}
}

func TestFetchPostsUnparseableTimestamps(t *testing.T) {
	client := &scriptedClient{responses: []response{
		page("c1", instagram.ParseNode(`{"id":"1"}`)),
		page("c2", instagram.ParseNode(`{"id":"2","taken_at_timestamp":"soon"}`)),
		page("c3"),
	}}
	s, _ := newTestScraper(t, client)

	result := s.FetchPosts(context.Background(), "golang", day(1))

	assert.Equal(t, StopEmptyPage, result.Reason)
	assert.Len(t, result.Posts, 2)
	assert.Equal(t, fixedNow, result.Earliest)
	assert.Equal(t, []string{"", "c1", "c2"}, client.cursors)
}

func TestFetchPostsEarliestIsGlobalMinimum(t *testing.T) {
	client := &scriptedClient{responses: []response{
		page("c1", node("1", day(10))),
		page("c2", node("2", day(28))),
		page(""),
	}}
	s, _ := newTestScraper(t, client)

	result := s.FetchPosts(context.Background(), "golang", day(5))

	assert.Equal(t, StopEmptyPage, result.Reason)
	assert.Equal(t, day(10), result.Earliest)
}

func TestFetchPostsEmptyCursorRestartsWithoutWait(t *testing.T) {
	client := &scriptedClient{responses: []response{
		page("", node("1", day(31))),
		page(""),
	}}
	s, pacer := newTestScraper(t, client)

	result := s.FetchPosts(context.Background(), "golang", day(1))

	assert.Equal(t, StopEmptyPage, result.Reason)
	assert.Equal(t, []string{"", ""}, client.cursors)
	assert.Equal(t, 0, pacer.waits)
	assert.Equal(t, []string{"fetch:", "fetch:"}, client.events)
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := New(config.DefaultConfig(), WithLogger(logger.NewNopLogger()))
		require.NoError(t, err)
		assert.Len(t, s.RunID(), 20)
		assert.IsType(t, &instagram.Client{}, s.client)
		assert.Equal(t, 20*time.Second, s.pacer.Interval())
	})

	t.Run("distinct run ids", func(t *testing.T) {
		a, _ := New(config.DefaultConfig(), WithLogger(logger.NewNopLogger()))
		b, _ := New(config.DefaultConfig(), WithLogger(logger.NewNopLogger()))
		assert.NotEqual(t, a.RunID(), b.RunID())
	})
}

func TestFetchAndExportEndToEnd(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		assert.Equal(t, "/explore/tags/golang/", r.URL.Path)

		switch n {
		case 1:
			assert.Empty(t, r.URL.Query().Get("max_id"))
			fmt.Fprintf(w, `{"graphql":{"hashtag":{"edge_hashtag_to_media":{
				"page_info":{"end_cursor":"abc"},
				"edges":[
					{"node":{"id":"1","owner":{"id":"9"},"taken_at_timestamp":%d,"__typename":"GraphImage","shortcode":"s1",
						"edge_media_to_caption":{"edges":[{"node":{"text":"a|b"}}]}}},
					{"node":{"id":"2","taken_at_timestamp":%d,"edge_liked_by":{"count":3}}}
				]}}}}`, day(31).Unix(), day(30).Unix())
		default:
			assert.Equal(t, "abc", r.URL.Query().Get("max_id"))
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Instagram.BaseURL = server.URL
	cfg.Instagram.Timeout = 5 * time.Second
	cfg.Fetch.WaitSeconds = 0

	s, err := New(cfg, WithClock(func() time.Time { return fixedNow }), WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)

	result := s.FetchPosts(context.Background(), "golang", day(1))
	require.Equal(t, StopFetchFailed, result.Reason)
	assert.Equal(t, errs.ErrorTypeRateLimit, errs.TypeOf(result.Err))
	require.Len(t, result.Posts, 2)

	out := filepath.Join(t.TempDir(), "data.csv")
	exporter := storage.NewCSVExporter(out, '|', logger.NewNopLogger())
	require.NoError(t, exporter.Export(context.Background(), result.Posts))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id|owner_id|created_time|typename|comment_count|like_count|video_view_count|shortcode|caption", lines[0])
	assert.Equal(t, `1|9|2023-12-31 12:00:00|GraphImage||||s1|"a|b"`, lines[1])
	assert.Equal(t, "2||2023-12-30 12:00:00|||3|||", lines[2])
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}
