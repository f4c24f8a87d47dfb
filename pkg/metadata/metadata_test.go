package metadata

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igtags/pkg/instagram"
	"igtags/pkg/models"
)

func TestFromNodeWorkedExample(t *testing.T) {
	node := instagram.ParseNode(`{"id":"1","owner":{"id":"9"},"taken_at_timestamp":1609459200,"__typename":"GraphImage","shortcode":"abc"}`)

	post := FromNode(node)

	assert.Equal(t, models.Post{
		ID:          null.StringFrom("1"),
		OwnerID:     null.StringFrom("9"),
		CreatedTime: "2021-01-01 00:00:00",
		Typename:    null.StringFrom("GraphImage"),
		Shortcode:   null.StringFrom("abc"),
	}, post)
	assert.False(t, post.CommentCount.Valid)
	assert.False(t, post.Caption.Valid)
}

func TestFromNodeFullNode(t *testing.T) {
	node := instagram.ParseNode(`{
		"id": "3141",
		"owner": {"id": "77"},
		"taken_at_timestamp": 1700000000,
		"__typename": "GraphVideo",
		"edge_media_to_comment": {"count": 12},
		"edge_liked_by": {"count": 340},
		"video_view_count": 5000,
		"shortcode": "Cz1",
		"edge_media_to_caption": {"edges": [{"node": {"text": "sunset | beach"}}, {"node": {"text": "second"}}]}
	}`)

	post := FromNode(node)

	assert.Equal(t,
		[]string{"3141", "77", "2023-11-14 22:13:20", "GraphVideo", "12", "340", "5000", "Cz1", "sunset | beach"},
		post.Values())
}

func TestFromNodeAbsentFields(t *testing.T) {
	full := map[string]interface{}{
		"id":                    "1",
		"owner":                 map[string]interface{}{"id": "9"},
		"taken_at_timestamp":    1609459200,
		"__typename":            "GraphImage",
		"edge_media_to_comment": map[string]interface{}{"count": 1},
		"edge_liked_by":         map[string]interface{}{"count": 2},
		"video_view_count":      3,
		"shortcode":             "abc",
		"edge_media_to_caption": map[string]interface{}{
			"edges": []interface{}{map[string]interface{}{"node": map[string]interface{}{"text": "hi"}}},
		},
	}
	keys := make([]string, 0, len(full))
	for k := range full {
		keys = append(keys, k)
	}

	// Every subset of the source keys
	for mask := 0; mask < 1<<len(keys); mask++ {
		node := map[string]interface{}{}
		for i, k := range keys {
			if mask&(1<<i) != 0 {
				node[k] = full[k]
			}
		}
		raw, err := json.Marshal(node)
		require.NoError(t, err)

		post := FromNode(instagram.ParseNode(string(raw)))
		values := post.Values()
		require.Len(t, values, len(models.PostColumns))

		_, hasID := node["id"]
		assert.Equal(t, hasID, post.ID.Valid)
		_, hasCaption := node["edge_media_to_caption"]
		assert.Equal(t, hasCaption, post.Caption.Valid)
		_, hasTime := node["taken_at_timestamp"]
		assert.Equal(t, hasTime, post.CreatedTime != "")
		_, hasLikes := node["edge_liked_by"]
		assert.Equal(t, hasLikes, post.LikeCount.Valid)
	}
}

func TestFromNodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
		want models.Post
	}{
		{name: "empty object", json: `{}`, want: models.Post{}},
		{name: "not an object", json: `[1,2]`, want: models.Post{}},
		{name: "empty caption list", json: `{"edge_media_to_caption":{"edges":[]}}`, want: models.Post{}},
		{name: "caption edge without node", json: `{"edge_media_to_caption":{"edges":[{}]}}`, want: models.Post{}},
		{name: "owner is a string", json: `{"owner":"9"}`, want: models.Post{}},
		{name: "timestamp as string", json: `{"taken_at_timestamp":"1609459200"}`, want: models.Post{}},
		{name: "count as string", json: `{"edge_liked_by":{"count":"5"}}`, want: models.Post{}},
		{name: "null fields", json: `{"id":null,"video_view_count":null}`, want: models.Post{}},
		{name: "object in string slot", json: `{"shortcode":{"x":1}}`, want: models.Post{}},
		{
			name: "numeric id keeps json text",
			json: `{"id":12345678901234567,"__typename":true}`,
			want: models.Post{ID: null.StringFrom("12345678901234567"), Typename: null.StringFrom("true")},
		},
		{
			name: "float count truncates",
			json: `{"video_view_count":12.9}`,
			want: models.Post{VideoViewCount: null.IntFrom(12)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromNode(instagram.ParseNode(tt.json)))
		})
	}
}

func TestCreatedTimeRoundTrip(t *testing.T) {
	for _, sec := range []int64{0, 1, 1609459200, 1700000000, 2147483647, 4102444800, -86400} {
		formatted := FormatTimestamp(sec)
		parsed, ok := ParseCreatedTime(formatted)
		require.True(t, ok, formatted)
		assert.Equal(t, sec, parsed.Unix())
		assert.Equal(t, time.UTC, parsed.Location())
	}
}

func TestParseCreatedTimeInvalid(t *testing.T) {
	for _, s := range []string{"", "2021-01-01", "yesterday", "2021-13-01 00:00:00"} {
		_, ok := ParseCreatedTime(s)
		assert.False(t, ok, s)
	}
}
