// Package scraper runs the hashtag pagination loop.
//
// FetchPosts requests pages one at a time, flattens every node into a
// models.Post and stops on the first of:
//
//   - the oldest collected post is at or before the minimum date
//   - a page has no posts
//   - a request or response fails
//
// Posts gathered before a failure are returned with the error so they can
// still be exported. Follow-up requests are paced by a ratelimit.Pacer.
package scraper
