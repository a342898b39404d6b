package retail

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

type document struct {
	root *html.Node
}

func parsePage(body []byte) (*document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &document{root: root}, nil
}

// text returns the visible text of the page, scripts and styles excluded.
func (d *document) text() string {
	var b strings.Builder
	collectText(d.root, &b)
	return b.String()
}

// selectText returns the text of the first element matching selector.
func (d *document) selectText(selector string) (string, bool) {
	match := matcher(strings.TrimSpace(selector))
	if match == nil {
		return "", false
	}
	n := find(d.root, match)
	if n == nil {
		return "", false
	}
	var b strings.Builder
	collectText(n, &b)
	return strings.TrimSpace(b.String()), true
}

func matcher(selector string) func(*html.Node) bool {
	switch {
	case selector == "":
		return nil
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		return func(n *html.Node) bool { return attr(n, "id") == id }
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		return func(n *html.Node) bool {
			for _, c := range strings.Fields(attr(n, "class")) {
				if c == class {
					return true
				}
			}
			return false
		}
	default:
		tag := strings.ToLower(selector)
		return func(n *html.Node) bool { return n.Data == tag }
	}
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
