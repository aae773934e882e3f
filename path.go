package clipweave

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// pathStepRe tokenizes a dotted/bracketed path: a.b[0].c, x[*].y
var pathStepRe = regexp.MustCompile(`\[(\*|\d+)\]|\.?([A-Za-z_@][A-Za-z0-9_@-]*)`)

type pathStep struct {
	splat bool
	index int
	name  string
	isIdx bool
}

func parsePathSteps(path string) []pathStep {
	p := strings.TrimPrefix(strings.TrimSpace(path), ".")
	if p == "" {
		return nil
	}
	matches := pathStepRe.FindAllStringSubmatch(p, -1)
	steps := make([]pathStep, 0, len(matches))
	for _, m := range matches {
		switch {
		case m[1] == "*":
			steps = append(steps, pathStep{splat: true})
		case m[1] != "":
			n, _ := strconv.Atoi(m[1])
			steps = append(steps, pathStep{isIdx: true, index: n})
		case m[2] != "":
			steps = append(steps, pathStep{name: m[2]})
		}
	}
	return steps
}

// autoParseJSON descends through a value that may itself be a JSON-encoded
// string (schema fields sometimes hold stringified JSON — §4.A).
func autoParseJSON(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	t := strings.TrimSpace(s)
	if len(t) == 0 || (t[0] != '{' && t[0] != '[') {
		return v
	}
	var out any
	if err := json.Unmarshal([]byte(t), &out); err != nil {
		return v
	}
	return out
}

// ResolvePath walks a value tree by a sequence of property/index/splat
// steps (component A). Every miss degrades to (nil, false) — callers treat
// that as "undefined", which renders as the empty string.
func ResolvePath(value any, path string) (any, bool) {
	steps := parsePathSteps(path)
	if len(steps) == 0 {
		return value, true
	}
	return resolveSteps(value, steps)
}

func resolveSteps(value any, steps []pathStep) (any, bool) {
	if len(steps) == 0 {
		return value, true
	}
	cur := autoParseJSON(value)
	step := steps[0]
	rest := steps[1:]

	if step.splat {
		arr, ok := cur.([]any)
		if !ok {
			return nil, false
		}
		out := make([]any, 0, len(arr))
		for _, item := range arr {
			v, ok := resolveSteps(item, rest)
			if !ok {
				v = ""
			}
			out = append(out, v)
		}
		return out, true
	}

	if step.isIdx {
		arr, ok := cur.([]any)
		if !ok || step.index < 0 || step.index >= len(arr) {
			return nil, false
		}
		return resolveSteps(arr[step.index], rest)
	}

	m, ok := cur.(map[string]any)
	if !ok {
		return nil, false
	}
	v, exists := m[step.name]
	if !exists {
		return nil, false
	}
	return resolveSteps(v, rest)
}

// ResolvePathString is ResolvePath but stringifies the result the way the
// engine stringifies every provider value (§3: arrays/objects JSON-encoded).
func ResolvePathString(value any, path string) string {
	v, ok := ResolvePath(value, path)
	if !ok {
		return ""
	}
	return stringifyValue(v)
}

func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			return s
		}
		return string(b)
	}
}
