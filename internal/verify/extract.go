package verify

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Reference is one extracted link-bearing attribute.
type Reference struct {
	Value     string
	Tag       string
	Attribute string
}

// refAttrs maps element names to the attributes that can carry references in
// emitted build output, including hydration markers.
var refAttrs = map[string][]string{
	"a":            {"href"},
	"link":         {"href"},
	"img":          {"src"},
	"script":       {"src"},
	"source":       {"src"},
	"iframe":       {"src"},
	"astro-island": {"component-url", "renderer-url"},
}

// extractReferences parses a document and returns every reference-bearing
// attribute value in document order.
func extractReferences(r io.Reader) ([]Reference, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var refs []Reference
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attrs, ok := refAttrs[n.Data]; ok {
				for _, name := range attrs {
					if value := getAttr(n, name); value != "" {
						refs = append(refs, Reference{Value: value, Tag: n.Data, Attribute: name})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, name) {
			return attr.Val
		}
	}
	return ""
}
