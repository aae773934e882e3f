package clipweave

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// SchemaIndex answers typed and shorthand lookups over every JSON-LD blob on
// a page (§4.B), built once at PageContext construction.
type SchemaIndex struct {
	byType map[string][]map[string]any
	all    []map[string]any
}

// buildSchemaIndex parses every application/ld+json payload supplied by the
// extractor, plus any ld+json scripts and microdata items it finds walking
// fullHTML (fullHTML is walked too in case a template is rendered against a
// raw page snapshot without a pre-extracted JSONLD list). It is
// buildSchemaIndexForPage with no page URL, so relative microdata src/href
// values are left unresolved.
func buildSchemaIndex(jsonld []string, fullHTML string) *SchemaIndex {
	return buildSchemaIndexForPage(jsonld, fullHTML, "")
}

// buildSchemaIndexForPage additionally resolves microdata src/href values
// against pageURL.
func buildSchemaIndexForPage(jsonld []string, fullHTML, pageURL string) *SchemaIndex {
	idx := &SchemaIndex{byType: map[string][]map[string]any{}}
	for _, raw := range jsonld {
		idx.ingest(raw)
	}
	if doc, ok := parseHTMLDocument(fullHTML); ok {
		walkNodes(doc, func(n *html.Node) bool {
			if n.Type == html.ElementNode && n.DataAtom.String() == "script" {
				if t, _ := getAttr(n, "type"); t == "application/ld+json" && n.FirstChild != nil {
					idx.ingest(n.FirstChild.Data)
				}
			}
			return true
		})
		for _, item := range extractMicrodata(doc, pageURL) {
			idx.registerObject(item)
		}
	}
	return idx
}

func (idx *SchemaIndex) ingest(raw string) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return
	}
	idx.register(v)
}

func (idx *SchemaIndex) register(v any) {
	switch t := v.(type) {
	case []any:
		for _, x := range t {
			idx.register(x)
		}
	case map[string]any:
		idx.registerObject(t)
	}
}

// registerObject registers obj (and recurses into every nested object, since
// a JSON-LD graph can carry typed objects at any depth — e.g. `@graph`
// arrays or a Recipe nested inside a WebPage).
func (idx *SchemaIndex) registerObject(obj map[string]any) {
	idx.all = append(idx.all, obj)
	for _, typeName := range schemaTypeNames(obj) {
		idx.byType[typeName] = append(idx.byType[typeName], obj)
	}
	for _, v := range obj {
		switch t := v.(type) {
		case map[string]any:
			idx.registerObject(t)
		case []any:
			idx.register(t)
		}
	}
}

func schemaTypeNames(obj map[string]any) []string {
	raw, ok := obj["@type"]
	if !ok {
		return nil
	}
	switch t := raw.(type) {
	case string:
		return []string{strings.TrimPrefix(t, "@")}
	case []any:
		names := make([]string, 0, len(t))
		for _, x := range t {
			if s, ok := x.(string); ok {
				names = append(names, strings.TrimPrefix(s, "@"))
			}
		}
		return names
	}
	return nil
}

// QueryTyped resolves "@Type:path" — the first registered object of Type,
// with path walked via the (A) path resolver.
func (idx *SchemaIndex) QueryTyped(typeName, path string) (any, bool) {
	objs := idx.byType[typeName]
	if len(objs) == 0 {
		return nil, false
	}
	return coerceSchemaList(ResolvePath(objs[0], path))
}

// QueryShorthand resolves "key" or "key.sub" breadth-first across every
// registered object, returning the first whose leading step matches.
func (idx *SchemaIndex) QueryShorthand(path string) (any, bool) {
	steps := parsePathSteps(path)
	if len(steps) == 0 {
		return nil, false
	}
	first := steps[0]
	for _, obj := range idx.all {
		if first.isIdx || first.splat {
			continue
		}
		if _, ok := obj[first.name]; !ok {
			continue
		}
		if v, ok := resolveSteps(obj, steps); ok {
			return coerceSchemaList(v, true)
		}
	}
	return nil, false
}

var listItemLineRe = regexp.MustCompile(`(?m)^\s*(?:\d+\.|[-*])\s+(.*)$`)
var listPrefixRe = regexp.MustCompile(`^\s*(?:\d+\.|[-*])\s+`)

// coerceSchemaList applies §4.B's list coercion: a lone string matching a
// numbered/bulleted pattern is split into an array of trimmed item texts.
func coerceSchemaList(v any, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	s, isStr := v.(string)
	if !isStr || !listPrefixRe.MatchString(s) {
		return v, true
	}
	matches := listItemLineRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return v, true
	}
	items := make([]any, len(matches))
	for i, m := range matches {
		items[i] = strings.TrimSpace(m[1])
	}
	return items, true
}
