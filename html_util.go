package clipweave

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// walkNodes visits n and every descendant in document order, stopping early
// if visit returns false (grounded on the traversal shape in
// Bokovsky-readeck-mirror's microdata parser, adapted to a plain callback
// since this module targets pre-1.23 Go without range-over-func).
func walkNodes(n *html.Node, visit func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, visit)
	}
}

func getAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := getAttr(n, name)
	return ok
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walkNodes(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return collapseWhitespace(b.String())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func renderOuterHTML(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// htmlToPlainText renders HTML to whitespace-collapsed plain text. Used for
// the context's derived content/selection fields.
func htmlToPlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(nodeText(n))
		b.WriteString(" ")
	}
	return strings.TrimSpace(collapseWhitespace(b.String()))
}

func parseHTMLDocument(fullHTML string) (*html.Node, bool) {
	if strings.TrimSpace(fullHTML) == "" {
		return nil, false
	}
	doc, err := html.Parse(strings.NewReader(fullHTML))
	if err != nil {
		return nil, false
	}
	return doc, true
}
