package clipweave

import "strings"

type dispatchKind int

const (
	dispatchVariable dispatchKind = iota
	dispatchSelectorText
	dispatchSelectorHTML
	dispatchSchemaTyped
	dispatchSchemaShorthand
	dispatchMetaName
	dispatchMetaProperty
	dispatchPrompt
)

// classify implements the §4.D prefix table: a closed set of classifiers,
// variable-map lookup as the default/otherwise row.
func classify(expr string) (dispatchKind, string) {
	switch {
	case strings.HasPrefix(expr, "selectorHtml:"):
		return dispatchSelectorHTML, strings.TrimPrefix(expr, "selectorHtml:")
	case strings.HasPrefix(expr, "selector:"):
		return dispatchSelectorText, strings.TrimPrefix(expr, "selector:")
	case strings.HasPrefix(expr, "schema:"):
		rest := strings.TrimPrefix(expr, "schema:")
		if strings.HasPrefix(rest, "@") {
			return dispatchSchemaTyped, strings.TrimPrefix(rest, "@")
		}
		return dispatchSchemaShorthand, rest
	case strings.HasPrefix(expr, "meta:name:"):
		return dispatchMetaName, strings.TrimPrefix(expr, "meta:name:")
	case strings.HasPrefix(expr, "meta:property:"):
		return dispatchMetaProperty, strings.TrimPrefix(expr, "meta:property:")
	case strings.HasPrefix(expr, "prompt:"):
		return dispatchPrompt, unquoteToken(strings.TrimPrefix(expr, "prompt:"))
	case isQuotedLiteral(expr):
		return dispatchPrompt, unquoteToken(expr)
	default:
		return dispatchVariable, expr
	}
}

func isQuotedLiteral(s string) bool {
	return len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\''))
}

// resolveProvider dispatches every non-prompt kind to its component A/B/C
// provider (or the variable map), returning the raw (unfiltered) value.
func resolveProvider(kind dispatchKind, payload string, rc *renderCtx) any {
	switch kind {
	case dispatchSelectorText:
		return querySelector(rc.dom, payload, false)
	case dispatchSelectorHTML:
		return querySelector(rc.dom, payload, true)
	case dispatchSchemaTyped:
		typeName, path, ok := splitTopLevelColon(payload)
		if !ok {
			typeName, path = payload, ""
		}
		if rc.schema == nil {
			return ""
		}
		v, ok := rc.schema.QueryTyped(typeName, path)
		if !ok {
			return ""
		}
		return v
	case dispatchSchemaShorthand:
		if rc.schema == nil {
			return ""
		}
		v, ok := rc.schema.QueryShorthand(payload)
		if !ok {
			return ""
		}
		return v
	case dispatchMetaName:
		return lookupMeta(rc.meta, "name", payload)
	case dispatchMetaProperty:
		return lookupMeta(rc.meta, "property", payload)
	default:
		return resolveVariable(rc.vars, payload)
	}
}

func lookupMeta(entries []MetaEntry, attrName, attrValue string) string {
	for _, e := range entries {
		if e.AttrName == attrName && e.AttrValue == attrValue {
			return e.Content
		}
	}
	return ""
}

// resolveVariable looks up the leading name in the variable map, then walks
// any remaining dotted/bracketed path via component A. Entries may be native
// values (highlights is a []any, words an int, loop variables hold the
// element itself) or strings; the path resolver's auto-JSON-parse is what
// lets `book.authors[0]` work against a serialized array string value.
func resolveVariable(vars map[string]any, expr string) any {
	name, path := splitVarPath(expr)
	v, ok := vars[name]
	if !ok {
		return ""
	}
	if path == "" {
		return v
	}
	out, ok := ResolvePath(v, path)
	if !ok {
		return ""
	}
	return out
}

func splitVarPath(expr string) (string, string) {
	for i := 0; i < len(expr); i++ {
		if expr[i] == '.' || expr[i] == '[' {
			if expr[i] == '[' {
				return expr[:i], expr[i:]
			}
			return expr[:i], expr[i+1:]
		}
	}
	return expr, ""
}
