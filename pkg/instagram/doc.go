// Package instagram fetches pages of Instagram's hashtag browsing endpoint.
//
// Responses are not decoded into fixed structs. A Page holds the pagination
// cursor and a list of Node values that wrap the raw JSON, and Node.Lookup
// walks optional paths without failing on missing keys:
//
//	client := instagram.NewClient(30*time.Second, log)
//	page, err := client.FetchHashtagPage(ctx, "golang", "")
//	for _, node := range page.Nodes {
//	    if text, ok := node.Lookup("edge_media_to_caption", "edges", "0", "node", "text"); ok {
//	        fmt.Println(text.String())
//	    }
//	}
//
// Failures are *errors.Error values from igtags/pkg/errors.
package instagram
