package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "igtags/pkg/errors"
	"igtags/pkg/logger"
)

// Client fetches hashtag pages over HTTP
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new hashtag client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			"Accept":           "application/json",
			"X-Requested-With": "XMLHttpRequest",
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// SetBaseURL points the client at another host, mostly for tests
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.NewNetworkError(fmt.Sprintf("request failed: %v", err), err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, duration)

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.NewNetworkError(fmt.Sprintf("failed to create request: %v", err), err)
	}

	return c.doRequest(req)
}

// GetBody performs a GET request and returns the body of a non-error response
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, int, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, resp.StatusCode, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errs.NewNetworkError(fmt.Sprintf("failed to read response body: %v", err), err)
	}

	return body, resp.StatusCode, nil
}

// checkResponseStatus maps an HTTP status to a typed error
func (c *Client) checkResponseStatus(resp *http.Response) error {
	apiErr := errs.FromStatusCode(resp.StatusCode)
	if apiErr == nil {
		return nil
	}

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	}
	if apiErr.Type == errs.ErrorTypeServerError || apiErr.Type == errs.ErrorTypeUnknown {
		c.logger.ErrorWithFields(apiErr.Message, fields)
	} else {
		c.logger.WarnWithFields(apiErr.Message, fields)
	}
	return apiErr
}

// FetchHashtagPage fetches one page of media for tag, continuing from cursor
// when it is not empty
func (c *Client) FetchHashtagPage(ctx context.Context, tag, cursor string) (*Page, error) {
	url := GetHashtagURL(c.baseURL, tag, cursor)

	c.logger.DebugWithFields("fetching hashtag page", map[string]interface{}{
		"tag":    tag,
		"cursor": cursor,
		"url":    url,
	})

	body, code, err := c.GetBody(ctx, url)
	if err != nil {
		return nil, err
	}

	page, err := ParsePage(body, code)
	if err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse hashtag page", map[string]interface{}{
			"url":          url,
			"status":       code,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, err
	}

	return page, nil
}
