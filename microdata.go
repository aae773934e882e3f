package clipweave

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractMicrodata walks doc collecting top-level itemscope subtrees into
// the same map[string]any shape registerObject expects for JSON-LD, so both
// encodings land in one SchemaIndex. A narrower pass than full microdata
// (no itemref/itemid cross-referencing), since the spec only asks that
// in-document structured data be queryable, not a standalone microdata
// library.
func extractMicrodata(doc *html.Node, baseURL string) []map[string]any {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = &url.URL{}
	}
	var top []*html.Node
	walkNodes(doc, func(n *html.Node) bool {
		if hasAttr(n, "itemscope") && !hasAttr(n, "itemprop") {
			top = append(top, n)
		}
		return true
	})
	items := make([]map[string]any, 0, len(top))
	for _, n := range top {
		item := map[string]any{}
		readItemAttrs(item, n, base)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			readItemNode(item, c, base)
		}
		if len(item) > 0 {
			items = append(items, item)
		}
	}
	return items
}

func readItemAttrs(item map[string]any, n *html.Node, base *url.URL) {
	if s, ok := getAttr(n, "itemtype"); ok {
		fields := strings.Fields(s)
		if len(fields) > 0 {
			last := fields[len(fields)-1]
			if u, err := url.Parse(last); err == nil && u.Path != "" {
				item["@type"] = strings.Trim(u.Path, "/")
			} else {
				item["@type"] = last
			}
		}
	}
	if s, ok := getAttr(n, "itemid"); ok {
		item["@id"] = s
	}
}

func readItemNode(item map[string]any, n *html.Node, base *url.URL) {
	props, hasProp := getAttr(n, "itemprop")
	_, hasScope := getAttr(n, "itemscope")

	switch {
	case hasScope && hasProp:
		sub := map[string]any{}
		readItemAttrs(sub, n, base)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			readItemNode(sub, c, base)
		}
		for _, name := range strings.Fields(props) {
			addMicrodataValue(item, name, sub)
		}
		return
	case !hasScope && hasProp:
		if v := microdataScalarValue(n, base); v != "" {
			for _, name := range strings.Fields(props) {
				addMicrodataValue(item, name, v)
			}
		}
	case hasScope && !hasProp:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		readItemNode(item, c, base)
	}
}

func addMicrodataValue(item map[string]any, name string, v any) {
	existing, ok := item[name]
	if !ok {
		item[name] = v
		return
	}
	if arr, ok := existing.([]any); ok {
		item[name] = append(arr, v)
		return
	}
	item[name] = []any{existing, v}
}

func microdataScalarValue(n *html.Node, base *url.URL) string {
	var attr string
	switch n.DataAtom {
	case atom.Meta:
		attr = "content"
	case atom.Audio, atom.Embed, atom.Iframe, atom.Source, atom.Track, atom.Video:
		attr = "src"
	case atom.Img:
		attr = "src"
	case atom.A, atom.Area, atom.Link:
		attr = "href"
	case atom.Data, atom.Meter:
		attr = "value"
	case atom.Time:
		attr = "datetime"
	}
	if attr != "" {
		if v, ok := getAttr(n, attr); ok {
			if attr == "src" || attr == "href" {
				if u, err := base.Parse(v); err == nil {
					return u.String()
				}
			}
			return v
		}
	}
	if v, ok := getAttr(n, "content"); ok {
		return v
	}
	return strings.TrimSpace(nodeText(n))
}
