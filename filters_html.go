package clipweave

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseFragmentNodes(src string) []*nethtml.Node {
	nodes, err := nethtml.ParseFragment(strings.NewReader(src), &nethtml.Node{
		Type:     nethtml.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil
	}
	return nodes
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func renderOpenTag(n *nethtml.Node) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(strings.ReplaceAll(a.Val, `"`, "&quot;"))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// fStripTags drops every tag not named in the (optional) keep list, leaving
// only the text content of stripped elements behind. No keep list strips
// every tag (§4.E "strip_tags(keep?)").
func fStripTags(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	keep := map[string]bool{}
	for _, p := range pos {
		keep[strings.ToLower(stringifyValue(p))] = true
	}
	var b strings.Builder
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch n.Type {
		case nethtml.TextNode:
			b.WriteString(nethtml.EscapeString(n.Data))
		case nethtml.ElementNode:
			tag := strings.ToLower(n.Data)
			keepThis := keep[tag]
			if keepThis {
				b.WriteString(renderOpenTag(n))
			}
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
			if keepThis && !voidElements[tag] {
				b.WriteString("</" + tag + ">")
			}
		default:
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
		}
	}
	for _, n := range parseFragmentNodes(s) {
		walk(n)
	}
	return stringCarry(b.String())
}

// fRemoveTags deletes every element named in the argument list, subtree and
// all, leaving every other tag untouched (§4.E "remove_tags(tags)").
func fRemoveTags(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	remove := map[string]bool{}
	for _, p := range pos {
		remove[strings.ToLower(stringifyValue(p))] = true
	}
	return stringCarry(renderFilteredHTML(s, func(n *nethtml.Node) bool {
		return !remove[strings.ToLower(n.Data)]
	}))
}

// renderFilteredHTML re-serializes a parsed fragment, dropping (subtree and
// all) any element for which keepSubtree returns false.
func renderFilteredHTML(src string, keepSubtree func(n *nethtml.Node) bool) string {
	var b strings.Builder
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch n.Type {
		case nethtml.TextNode:
			b.WriteString(nethtml.EscapeString(n.Data))
		case nethtml.ElementNode:
			if !keepSubtree(n) {
				return
			}
			tag := n.Data
			b.WriteString(renderOpenTag(n))
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
			if !voidElements[strings.ToLower(tag)] {
				b.WriteString("</" + tag + ">")
			}
		default:
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
		}
	}
	for _, n := range parseFragmentNodes(src) {
		walk(n)
	}
	return b.String()
}

// fReplaceTags renames tags in place, keeping attributes and content. Pairs
// are applied in the order given, single-pair or multi-pair object form,
// mirroring fReplace's argument shapes.
func fReplaceTags(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	var pairs [][2]string
	if len(kw) > 0 {
		for _, p := range kw {
			pairs = append(pairs, [2]string{p.Key, stringifyValue(p.Val)})
		}
	} else if len(pos) >= 2 {
		pairs = append(pairs, [2]string{stringifyValue(pos[0]), stringifyValue(pos[1])})
	} else {
		return c
	}
	rename := map[string]string{}
	for _, p := range pairs {
		rename[strings.ToLower(p[0])] = p[1]
	}
	var b strings.Builder
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch n.Type {
		case nethtml.TextNode:
			b.WriteString(nethtml.EscapeString(n.Data))
		case nethtml.ElementNode:
			tag := n.Data
			if to, ok := rename[strings.ToLower(tag)]; ok {
				tag = to
			}
			renamed := *n
			renamed.Data = tag
			b.WriteString(renderOpenTag(&renamed))
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
			if !voidElements[strings.ToLower(tag)] {
				b.WriteString("</" + tag + ">")
			}
		default:
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
		}
	}
	for _, n := range parseFragmentNodes(s) {
		walk(n)
	}
	return stringCarry(b.String())
}

// fStripAttr removes every attribute not named in the (optional) keep list.
func fStripAttr(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	keep := map[string]bool{}
	for _, p := range pos {
		keep[strings.ToLower(stringifyValue(p))] = true
	}
	return filterAttrs(c, func(key string) bool { return keep[strings.ToLower(key)] })
}

// fRemoveAttr removes only the named attributes, keeping every other one.
func fRemoveAttr(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	remove := map[string]bool{}
	for _, p := range pos {
		remove[strings.ToLower(stringifyValue(p))] = true
	}
	return filterAttrs(c, func(key string) bool { return !remove[strings.ToLower(key)] })
}

func filterAttrs(c filterValue, keepAttr func(key string) bool) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	var b strings.Builder
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch n.Type {
		case nethtml.TextNode:
			b.WriteString(nethtml.EscapeString(n.Data))
		case nethtml.ElementNode:
			filtered := *n
			filtered.Attr = nil
			for _, a := range n.Attr {
				if keepAttr(a.Key) {
					filtered.Attr = append(filtered.Attr, a)
				}
			}
			b.WriteString(renderOpenTag(&filtered))
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
			if !voidElements[strings.ToLower(n.Data)] {
				b.WriteString("</" + n.Data + ">")
			}
		default:
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
		}
	}
	for _, n := range parseFragmentNodes(s) {
		walk(n)
	}
	return stringCarry(b.String())
}

// fRemoveHTML removes every element matching a simple selector — a bare tag
// name, ".class", or "#id" — subtree and all (§4.E "remove_html(selectors)").
// This is a deliberately narrow subset of CSS: component C's querySelector
// is for reading the live DOM, not for rewriting an HTML string offline.
func fRemoveHTML(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	var selectors []string
	for _, p := range pos {
		selectors = append(selectors, stringifyValue(p))
	}
	return stringCarry(renderFilteredHTML(s, func(n *nethtml.Node) bool {
		for _, sel := range selectors {
			if matchesSimpleSelector(n, sel) {
				return false
			}
		}
		return true
	}))
}

func matchesSimpleSelector(n *nethtml.Node, sel string) bool {
	sel = strings.TrimSpace(sel)
	switch {
	case strings.HasPrefix(sel, "."):
		class, _ := getAttr(n, "class")
		for _, c := range strings.Fields(class) {
			if c == sel[1:] {
				return true
			}
		}
		return false
	case strings.HasPrefix(sel, "#"):
		id, _ := getAttr(n, "id")
		return id == sel[1:]
	default:
		return strings.EqualFold(n.Data, sel)
	}
}

// fMarkdown converts an HTML fragment to Markdown, resolving relative
// links/images against the active page's URL.
func fMarkdown(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	base := ""
	if rc != nil && rc.pc != nil {
		base = rc.pc.URL
	}
	var b strings.Builder
	for _, n := range parseFragmentNodes(s) {
		htmlNodeToMarkdown(n, base, &b)
	}
	return stringCarry(strings.TrimSpace(b.String()))
}

func resolveURL(base, ref string) string {
	if base == "" || ref == "" {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func htmlNodeToMarkdown(n *nethtml.Node, base string, b *strings.Builder) {
	if n.Type == nethtml.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type != nethtml.ElementNode {
		writeChildrenMarkdown(n, base, b)
		return
	}
	switch strings.ToLower(n.Data) {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(n.Data[1:])
		b.WriteString("\n" + strings.Repeat("#", level) + " ")
		writeChildrenMarkdown(n, base, b)
		b.WriteString("\n")
	case "p", "div":
		b.WriteString("\n")
		writeChildrenMarkdown(n, base, b)
		b.WriteString("\n")
	case "br":
		b.WriteString("  \n")
	case "hr":
		b.WriteString("\n---\n")
	case "strong", "b":
		b.WriteString("**")
		writeChildrenMarkdown(n, base, b)
		b.WriteString("**")
	case "em", "i":
		b.WriteString("_")
		writeChildrenMarkdown(n, base, b)
		b.WriteString("_")
	case "code":
		b.WriteString("`")
		writeChildrenMarkdown(n, base, b)
		b.WriteString("`")
	case "pre":
		b.WriteString("\n```\n")
		writeChildrenMarkdown(n, base, b)
		b.WriteString("\n```\n")
	case "blockquote":
		var inner strings.Builder
		writeChildrenMarkdown(n, base, &inner)
		b.WriteString("\n" + prefixLines(strings.TrimSpace(inner.String()), "> ") + "\n")
	case "a":
		href, _ := getAttr(n, "href")
		var text strings.Builder
		writeChildrenMarkdown(n, base, &text)
		b.WriteString("[" + text.String() + "](" + resolveURL(base, href) + ")")
	case "img":
		src, _ := getAttr(n, "src")
		alt, _ := getAttr(n, "alt")
		b.WriteString("![" + alt + "](" + resolveURL(base, src) + ")")
	case "li":
		b.WriteString("- ")
		writeChildrenMarkdown(n, base, b)
		b.WriteString("\n")
	case "ul", "ol", "table", "tbody", "thead", "tr", "td", "th", "script", "style":
		if strings.ToLower(n.Data) == "script" || strings.ToLower(n.Data) == "style" {
			return
		}
		writeChildrenMarkdown(n, base, b)
	default:
		writeChildrenMarkdown(n, base, b)
	}
}

func writeChildrenMarkdown(n *nethtml.Node, base string, b *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		htmlNodeToMarkdown(c, base, b)
	}
}

// fStripMd removes Markdown formatting, returning the plain text content —
// parsed with goldmark rather than regex-stripped, so nested emphasis,
// links, and code spans are all handled by one real parser.
func fStripMd(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	source := []byte(s)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	return stringCarry(strings.TrimSpace(b.String()))
}

// fHTMLToJSON converts an HTML fragment into the tree shape
// {type:"text",content} | {type:"element",tag,attributes,children}.
func fHTMLToJSON(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	nodes := parseFragmentNodes(s)
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		if v, ok := htmlNodeToJSON(n); ok {
			out = append(out, v)
		}
	}
	if len(out) == 1 {
		return jsonCarry(out[0])
	}
	return jsonCarry(out)
}

func htmlNodeToJSON(n *nethtml.Node) (any, bool) {
	switch n.Type {
	case nethtml.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil, false
		}
		return map[string]any{"type": "text", "content": n.Data}, true
	case nethtml.ElementNode:
		attrs := map[string]any{}
		for _, a := range n.Attr {
			attrs[a.Key] = a.Val
		}
		children := []any{}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if v, ok := htmlNodeToJSON(c); ok {
				children = append(children, v)
			}
		}
		return map[string]any{
			"type":       "element",
			"tag":        n.Data,
			"attributes": attrs,
			"children":   children,
		}, true
	default:
		return nil, false
	}
}
