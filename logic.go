package clipweave

import (
	"regexp"
	"strings"
)

var forOpenRe = regexp.MustCompile(`\{%\s*for\s+([A-Za-z_][A-Za-z0-9_]*)\s+in\s+([\s\S]*?)%\}`)
var forTagScanRe = regexp.MustCompile(`\{%\s*for\s+[A-Za-z_][A-Za-z0-9_]*\s+in\s+[\s\S]*?%\}|\{%\s*endfor\s*%\}`)

// expandLogic implements component G: locate the leftmost top-level
// `{% for NAME in SOURCE %}…{% endfor %}`, iterate, substitute the bound
// variable, recurse into the remainder. Malformed/unterminated blocks
// degrade to their tag being dropped rather than raising (§3 total
// rendering invariant) — grounded on compile.go's stack-scanned block
// extraction, generalized from "block" to "for".
func expandLogic(src string, rc *renderCtx) string {
	open := forOpenRe.FindStringSubmatchIndex(src)
	if open == nil {
		return src
	}
	name := src[open[2]:open[3]]
	sourceExpr := strings.TrimSpace(src[open[4]:open[5]])
	openEnd := open[1]

	closeStart, closeEnd, ok := findMatchingEndFor(src, openEnd)
	if !ok {
		logDegraded("unterminated for block dropped", map[string]any{"var": name})
		return src[:open[0]] + expandLogic(src[openEnd:], rc)
	}

	head := src[:open[0]]
	body := src[openEnd:closeStart]
	tail := src[closeEnd:]

	var out strings.Builder
	sourceVal := evalExprValue(sourceExpr, rc)
	if arr, ok := sourceVal.([]any); ok {
		for _, item := range arr {
			iterVars := cloneVarMap(rc.vars)
			iterVars[name] = item
			iterRC := rc.withVars(iterVars)
			substituted := substituteBoundVariable(body, name, iterRC)
			out.WriteString(expandLogic(substituted, iterRC))
		}
	}

	return head + out.String() + expandLogic(tail, rc)
}

// findMatchingEndFor scans forward from a for-tag's end, tracking nested
// for/endfor depth, and returns the span of the endfor that closes it.
func findMatchingEndFor(src string, from int) (closeStart, closeEnd int, ok bool) {
	rest := src[from:]
	depth := 1
	for _, m := range forTagScanRe.FindAllStringIndex(rest, -1) {
		tag := rest[m[0]:m[1]]
		if strings.Contains(tag, "endfor") {
			depth--
			if depth == 0 {
				return from + m[0], from + m[1], true
			}
			continue
		}
		depth++
	}
	return 0, 0, false
}

func cloneVarMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

// substituteBoundVariable resolves every {{…}} in body whose base expression
// is the loop variable itself, or a path/filter chain rooted at it, against
// iterRC's per-iteration variable map — fully applying any filter tail,
// since this is the only point where that iteration's binding exists. Every
// other mustache expression is left untouched for the global pass.
func substituteBoundVariable(body, name string, iterRC *renderCtx) string {
	return exprRe.ReplaceAllStringFunc(body, func(m string) string {
		mm := exprRe.FindStringSubmatch(m)
		if len(mm) < 2 {
			return m
		}
		expr := strings.TrimSpace(mm[1])
		base, filters := splitFilterTail(expr)
		base = strings.TrimSpace(base)
		if base != name && !strings.HasPrefix(base, name+".") && !strings.HasPrefix(base, name+"[") {
			return m
		}
		value := resolveVariable(iterRC.vars, base)
		carry := runFilterChain(value, filters, iterRC)
		return carry.finalize()
	})
}
