package models

import (
	"strconv"

	"github.com/guregu/null/v6"
)

// PostColumns is the fixed column order of an exported Post
var PostColumns = []string{
	"id",
	"owner_id",
	"created_time",
	"typename",
	"comment_count",
	"like_count",
	"video_view_count",
	"shortcode",
	"caption",
}

// Post is one flattened hashtag media item
type Post struct {
	ID             null.String `json:"id"`
	OwnerID        null.String `json:"owner_id"`
	CreatedTime    string      `json:"created_time"`
	Typename       null.String `json:"typename"`
	CommentCount   null.Int    `json:"comment_count"`
	LikeCount      null.Int    `json:"like_count"`
	VideoViewCount null.Int    `json:"video_view_count"`
	Shortcode      null.String `json:"shortcode"`
	Caption        null.String `json:"caption"`
}

// Values renders the post in PostColumns order. Null fields are empty strings.
func (p Post) Values() []string {
	return []string{
		nullString(p.ID),
		nullString(p.OwnerID),
		p.CreatedTime,
		nullString(p.Typename),
		nullInt(p.CommentCount),
		nullInt(p.LikeCount),
		nullInt(p.VideoViewCount),
		nullString(p.Shortcode),
		nullString(p.Caption),
	}
}

func nullString(s null.String) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func nullInt(i null.Int) string {
	if !i.Valid {
		return ""
	}
	return strconv.FormatInt(i.Int64, 10)
}
