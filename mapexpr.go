package clipweave

import (
	"regexp"
	"strings"
)

// Component F: a deliberately tiny evaluator for the two shapes `map` and
// `template` accept. Anything else is a no-op (§4.F, §9 "Arrow expressions")
// — there is no general expression language here, on purpose.

var arrowExprRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=>\s*([\s\S]*)$`)
var objLiteralRe = regexp.MustCompile(`^\(\s*\{([\s\S]*)\}\s*\)$`)

// fMap applies an "ident => body" arrow expression to each element of an
// array carry. Non-array carries and malformed arrow expressions are
// returned unchanged.
func fMap(carry filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	raw, _ := pos[0].(string)
	arr, ok := carry.asSlice()
	if !ok {
		return carry
	}
	m := arrowExprRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return carry
	}
	ident := m[1]
	body := strings.TrimSpace(m[2])
	out := make([]any, len(arr))
	for i, el := range arr {
		out[i] = evalArrowBody(body, ident, el)
	}
	return jsonCarry(out)
}

func evalArrowBody(body, ident string, element any) any {
	if m := objLiteralRe.FindStringSubmatch(body); m != nil {
		return evalObjectLiteral(m[1], ident, element)
	}
	if inner, ok := quotedLiteralBody(body); ok {
		text := interpolateTemplate(inner, func(path string) (any, bool) {
			return resolvePathRootedAt(element, ident, path)
		})
		return map[string]any{"str": text}
	}
	if v, ok := resolvePathRootedAt(element, ident, body); ok {
		return v
	}
	return element
}

func evalObjectLiteral(inner, ident string, element any) map[string]any {
	out := map[string]any{}
	for _, pair := range splitTopLevel(inner, ',') {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, path, ok := splitTopLevelColon(pair)
		if !ok {
			continue
		}
		key = unquoteToken(key)
		v, ok := resolvePathRootedAt(element, ident, strings.TrimSpace(path))
		if !ok {
			v = ""
		}
		out[key] = v
	}
	return out
}

// resolvePathRootedAt resolves `path` against `element` when path is either
// exactly the bound parameter name or a property/index path rooted at it
// (§4.F shape 1).
func resolvePathRootedAt(element any, ident, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == ident {
		return element, true
	}
	if strings.HasPrefix(path, ident+".") {
		return ResolvePath(element, path[len(ident)+1:])
	}
	if strings.HasPrefix(path, ident+"[") {
		return ResolvePath(element, path[len(ident):])
	}
	return nil, false
}

func quotedLiteralBody(s string) (string, bool) {
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		return unescapeString(s[1 : len(s)-1]), true
	}
	return "", false
}

// interpolateTemplate expands "${path}" spans in a template-literal body,
// resolving each path with the caller-supplied function. Unknown paths
// interpolate to empty (§4.F).
func interpolateTemplate(raw string, resolve func(path string) (any, bool)) string {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			end := strings.IndexByte(raw[i+2:], '}')
			if end < 0 {
				b.WriteString(raw[i:])
				break
			}
			path := strings.TrimSpace(raw[i+2 : i+2+end])
			if v, ok := resolve(path); ok {
				b.WriteString(stringifyValue(v))
			}
			i = i + 2 + end + 1
			continue
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String()
}

// fTemplateFilter implements the standalone `template` filter: a quoted
// "${path}…" literal applied per element of an array carry (concatenated)
// or once against an object carry.
func fTemplateFilter(carry filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	raw, _ := pos[0].(string)
	inner, ok := quotedLiteralBody(strings.TrimSpace(raw))
	if !ok {
		return carry
	}
	if arr, ok := carry.asSlice(); ok {
		var b strings.Builder
		for _, el := range arr {
			b.WriteString(interpolateTemplate(inner, func(path string) (any, bool) {
				return ResolvePath(el, path)
			}))
		}
		return stringCarry(b.String())
	}
	if obj, ok := carry.asObject(); ok {
		return stringCarry(interpolateTemplate(inner, func(path string) (any, bool) {
			return ResolvePath(obj, path)
		}))
	}
	return carry
}
