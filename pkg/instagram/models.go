package instagram

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	errs "igtags/pkg/errors"
)

const mediaPath = "graphql.hashtag.edge_hashtag_to_media"

// Page is one response of the hashtag endpoint
type Page struct {
	EndCursor string
	Nodes     []Node
}

// Node is an untyped media node. Every accessor tolerates absence.
type Node struct {
	raw gjson.Result
}

// NewNode wraps an already parsed value
func NewNode(raw gjson.Result) Node {
	return Node{raw: raw}
}

// ParseNode wraps a raw JSON document
func ParseNode(json string) Node {
	return Node{raw: gjson.Parse(json)}
}

// Raw returns the node's JSON text
func (n Node) Raw() string {
	return n.raw.Raw
}

// Lookup walks the node one key or array index at a time. It reports false at
// the first step that is missing or that cannot be descended into.
func (n Node) Lookup(steps ...string) (gjson.Result, bool) {
	cur := n.raw
	if !cur.Exists() {
		return gjson.Result{}, false
	}
	for _, step := range steps {
		if !cur.IsObject() && !cur.IsArray() {
			return gjson.Result{}, false
		}
		cur = cur.Get(escapeStep(step))
		if !cur.Exists() {
			return gjson.Result{}, false
		}
	}
	return cur, true
}

// escapeStep makes a single key safe to use as a gjson path
func escapeStep(step string) string {
	if !strings.ContainsAny(step, `.*?\|#@!`) {
		return step
	}
	var b strings.Builder
	for _, r := range step {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParsePage extracts the cursor and media nodes from a hashtag response body.
// code is the HTTP status, carried into parsing errors.
func ParsePage(body []byte, code int) (*Page, error) {
	if !gjson.ValidBytes(body) {
		return nil, errs.NewParsingError("response is not valid JSON", code, nil)
	}

	media := gjson.GetBytes(body, mediaPath)
	if !media.IsObject() {
		return nil, errs.NewParsingError("missing "+mediaPath, code, nil)
	}

	cursor := media.Get("page_info.end_cursor")
	if !cursor.Exists() {
		return nil, errs.NewParsingError("missing page_info.end_cursor", code, nil)
	}

	edges := media.Get("edges")
	if !edges.IsArray() {
		return nil, errs.NewParsingError("edges is not a list", code, nil)
	}

	page := &Page{}
	if cursor.Type != gjson.Null {
		page.EndCursor = cursor.String()
	}

	for i, edge := range edges.Array() {
		node := edge.Get("node")
		if !node.IsObject() {
			return nil, errs.NewParsingError("edge without node at index "+strconv.Itoa(i), code, nil)
		}
		page.Nodes = append(page.Nodes, NewNode(node))
	}

	return page, nil
}
