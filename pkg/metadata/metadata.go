package metadata

import (
	"time"

	"github.com/guregu/null/v6"
	"github.com/tidwall/gjson"
	"igtags/pkg/instagram"
	"igtags/pkg/models"
)

// TimeLayout is the layout of Post.CreatedTime
const TimeLayout = "2006-01-02 15:04:05"

// FromNode flattens a hashtag media node into a Post. Missing or malformed
// fields become null; it never fails.
func FromNode(node instagram.Node) models.Post {
	return models.Post{
		ID:             stringAt(node, "id"),
		OwnerID:        stringAt(node, "owner", "id"),
		CreatedTime:    createdTime(node),
		Typename:       stringAt(node, "__typename"),
		CommentCount:   intAt(node, "edge_media_to_comment", "count"),
		LikeCount:      intAt(node, "edge_liked_by", "count"),
		VideoViewCount: intAt(node, "video_view_count"),
		Shortcode:      stringAt(node, "shortcode"),
		Caption:        stringAt(node, "edge_media_to_caption", "edges", "0", "node", "text"),
	}
}

// FormatTimestamp renders Unix seconds in UTC using TimeLayout
func FormatTimestamp(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(TimeLayout)
}

// ParseCreatedTime parses a Post.CreatedTime value as UTC
func ParseCreatedTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func createdTime(node instagram.Node) string {
	v, ok := node.Lookup("taken_at_timestamp")
	if !ok || v.Type != gjson.Number {
		return ""
	}
	return FormatTimestamp(v.Int())
}

// stringAt keeps scalars in their JSON text form; objects and arrays are null
func stringAt(node instagram.Node, steps ...string) null.String {
	v, ok := node.Lookup(steps...)
	if !ok {
		return null.String{}
	}
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return null.StringFrom(v.String())
	default:
		return null.String{}
	}
}

// intAt reads a JSON number as an int64 count. Fractions truncate and
// quoted numbers are null.
func intAt(node instagram.Node, steps ...string) null.Int {
	v, ok := node.Lookup(steps...)
	if !ok || v.Type != gjson.Number {
		return null.Int{}
	}
	return null.IntFrom(v.Int())
}
