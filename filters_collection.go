package clipweave

import (
	"encoding/json"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

func fFirst(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	if arr, ok := c.asSlice(); ok {
		if len(arr) == 0 {
			return stringCarry("")
		}
		return valueOf(arr[0])
	}
	return c
}

func fLast(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	if arr, ok := c.asSlice(); ok {
		if len(arr) == 0 {
			return stringCarry("")
		}
		return valueOf(arr[len(arr)-1])
	}
	return c
}

var nthLinearRe = regexp.MustCompile(`^(-?\d*)n\s*([+-]\s*\d+)?$`)

// fNth selects elements by a CSS-nth-child-like pattern: a bare index N, a
// linear "An+B" formula, or a comma-separated explicit index list with an
// optional ":size" window (§4.E "Array/object").
func fNth(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	arr, ok := c.asSlice()
	if !ok {
		return c
	}
	pattern := strings.TrimSpace(argString(pos, 0, ""))
	if pattern == "" {
		return stringCarry("")
	}

	if strings.Contains(pattern, ",") {
		var out []any
		for _, seg := range strings.Split(pattern, ",") {
			seg = strings.TrimSpace(seg)
			idxPart := seg
			size := 1
			if i := strings.Index(seg, ":"); i >= 0 {
				idxPart = seg[:i]
				if n, err := strconv.Atoi(strings.TrimSpace(seg[i+1:])); err == nil {
					size = n
				}
			}
			idx, err := strconv.Atoi(strings.TrimSpace(idxPart))
			if err != nil {
				continue
			}
			for j := idx; j < idx+size && j < len(arr); j++ {
				if j >= 0 {
					out = append(out, arr[j])
				}
			}
		}
		return finishNthResult(out)
	}

	if m := nthLinearRe.FindStringSubmatch(pattern); m != nil {
		a := 1
		if m[1] != "" && m[1] != "-" {
			a, _ = strconv.Atoi(m[1])
		} else if m[1] == "-" {
			a = -1
		}
		b := 0
		if m[2] != "" {
			b, _ = strconv.Atoi(strings.ReplaceAll(m[2], " ", ""))
		}
		var out []any
		for n := 0; n < len(arr)+1; n++ {
			idx := a*n + b
			if idx < 0 || idx >= len(arr) {
				if a == 0 {
					break
				}
				continue
			}
			out = append(out, arr[idx])
		}
		return finishNthResult(out)
	}

	idx, err := strconv.Atoi(pattern)
	if err != nil || idx < 0 || idx >= len(arr) {
		return stringCarry("")
	}
	return valueOf(arr[idx])
}

func finishNthResult(out []any) filterValue {
	if len(out) == 0 {
		return stringCarry("")
	}
	if len(out) == 1 {
		return valueOf(out[0])
	}
	return jsonCarry(out)
}

func fReverse(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	if arr, ok := c.asSlice(); ok {
		out := make([]any, len(arr))
		for i, v := range arr {
			out[len(arr)-1-i] = v
		}
		return jsonCarry(out)
	}
	if s, ok := textOperand(c); ok {
		r := []rune(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return stringCarry(string(r))
	}
	return c
}

func normalizeIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}

// fSlice implements standard half-open slicing with negative-index support.
func fSlice(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	if arr, ok := c.asSlice(); ok {
		n := len(arr)
		start := normalizeIndex(argInt(pos, 0, 0), n)
		end := n
		if len(pos) > 1 {
			end = normalizeIndex(argInt(pos, 1, n), n)
		}
		if end < start {
			end = start
		}
		return jsonCarry(append([]any{}, arr[start:end]...))
	}
	if s, ok := textOperand(c); ok {
		r := []rune(s)
		n := len(r)
		start := normalizeIndex(argInt(pos, 0, 0), n)
		end := n
		if len(pos) > 1 {
			end = normalizeIndex(argInt(pos, 1, n), n)
		}
		if end < start {
			end = start
		}
		return stringCarry(string(r[start:end]))
	}
	return c
}

func fSplit(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	sep := argString(pos, 0, "")
	var parts []string
	if sep == "" {
		parts = strings.Fields(s)
	} else {
		parts = strings.Split(s, sep)
	}
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return jsonCarry(out)
}

func fJoin(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	arr, ok := c.asSlice()
	if !ok {
		return c
	}
	if len(arr) == 0 {
		return stringCarry("")
	}
	sep := argString(pos, 0, ",")
	parts := make([]string, len(arr))
	for i, v := range arr {
		parts[i] = stringifyValue(v)
	}
	return stringCarry(strings.Join(parts, sep))
}

// fUnique dedupes by structural equality (JSON-serialized identity).
func fUnique(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	arr, ok := c.asSlice()
	if !ok {
		return c
	}
	seen := map[string]bool{}
	out := []any{}
	for _, v := range arr {
		key, err := json.Marshal(v)
		k := string(key)
		if err != nil {
			k = stringifyValue(v)
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return jsonCarry(out)
}

// fMerge concatenates arrays, or shallow-merges objects (later keys win).
func fMerge(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	if arr, ok := c.asSlice(); ok {
		out := append([]any{}, arr...)
		for _, p := range pos {
			if sub, ok := p.([]any); ok {
				out = append(out, sub...)
			} else {
				out = append(out, p)
			}
		}
		return jsonCarry(out)
	}
	if obj, ok := c.asObject(); ok {
		out := map[string]any{}
		for k, v := range obj {
			out[k] = v
		}
		for _, p := range pos {
			if sub, ok := p.(map[string]any); ok {
				for k, v := range sub {
					out[k] = v
				}
			}
		}
		return jsonCarry(out)
	}
	return c
}

// fObject reshapes an object carry per mode: keys | values | array (keys in
// sorted order). Any carry that is not an object is returned unchanged.
func fObject(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	mode := argString(pos, 0, "array")
	if obj, ok := c.asObject(); ok {
		switch mode {
		case "keys":
			keys := make([]any, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i].(string) < keys[j].(string) })
			return jsonCarry(keys)
		case "values":
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			values := make([]any, len(keys))
			for i, k := range keys {
				values[i] = obj[k]
			}
			return jsonCarry(values)
		default:
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = map[string]any{"key": k, "value": obj[k]}
			}
			return jsonCarry(out)
		}
	}
	return c
}

func fLength(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	if arr, ok := c.asSlice(); ok {
		return jsonCarry(float64(len(arr)))
	}
	if obj, ok := c.asObject(); ok {
		return jsonCarry(float64(len(obj)))
	}
	if s, ok := textOperand(c); ok {
		return jsonCarry(float64(len([]rune(s))))
	}
	rv := reflect.ValueOf(c.native())
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map || rv.Kind() == reflect.Array) {
		return jsonCarry(float64(rv.Len()))
	}
	return jsonCarry(float64(0))
}
