// Package ratelimit paces requests to the hashtag endpoint.
//
// The only strategy is a fixed delay before each follow-up request. There is
// no backoff: a rate-limited response ends the run instead.
package ratelimit
