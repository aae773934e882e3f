package clipweave

import (
	"regexp"
	"strconv"
	"strings"
)

// kvPair is one key/value entry from a `(k1:v1, k2:v2)` filter argument.
// Kept as an ordered slice (not a map) because some filters — replace,
// most notably — must apply pairs in the order they were written (§3
// invariant: "Filter pipelines are left-associative and never reorder").
type kvPair struct {
	Key string
	Val any
}

type kvList []kvPair

func (l kvList) get(key string) (any, bool) {
	for _, p := range l {
		if p.Key == key {
			return p.Val, true
		}
	}
	return nil, false
}

// filterRegex wraps a /pattern/flags literal recognized by the arg tokenizer.
type filterRegex struct {
	Re  *regexp.Regexp
	Src string
}

// filterFunc is one named, pure, total transform: on type mismatch it must
// return the carry unchanged rather than erroring (§4.E).
type filterFunc func(carry filterValue, pos []any, kw kvList, renderCtx *renderCtx) filterValue

var filterRegistry map[string]filterFunc

func init() {
	filterRegistry = map[string]filterFunc{
		// date/time
		"date":        fDate,
		"date_modify":  fDateModify,
		"duration":    fDuration,
		// case/trim
		"camel":       fCamel,
		"capitalize":  fCapitalize,
		"kebab":       fKebab,
		"lower":       fLower,
		"pascal":      fPascal,
		"snake":       fSnake,
		"title":       fTitle,
		"upper":       fUpper,
		"uncamel":     fUncamel,
		"trim":        fTrim,
		// replace / safe name
		"replace":     fReplace,
		"safe_name":   fSafeName,
		// markdown helpers
		"blockquote":   fBlockquote,
		"callout":      fCallout,
		"list":         fList,
		"table":        fTable,
		"link":         fLink,
		"wikilink":     fWikilink,
		"image":        fImage,
		"footnote":     fFootnote,
		"fragment_link": fFragmentLink,
		// html helpers
		"markdown":     fMarkdown,
		"strip_tags":   fStripTags,
		"remove_tags":  fRemoveTags,
		"replace_tags": fReplaceTags,
		"strip_attr":   fStripAttr,
		"remove_attr":  fRemoveAttr,
		"remove_html":  fRemoveHTML,
		"strip_md":     fStripMd,
		"html_to_json": fHTMLToJSON,
		// array/object
		"first":   fFirst,
		"last":    fLast,
		"nth":     fNth,
		"reverse": fReverse,
		"slice":   fSlice,
		"split":   fSplit,
		"join":    fJoin,
		"unique":  fUnique,
		"merge":   fMerge,
		"object":  fObject,
		"length":  fLength,
		// numeric
		"calc":          fCalc,
		"round":         fRound,
		"number_format": fNumberFormat,
		// map / template — delegate to the mini-expression evaluator
		"map":      fMap,
		"template": fTemplateFilter,
	}
}

// splitFilterTail splits "base|f1:a|f2" into the base expression and the
// list of raw "name:args" specs, respecting §4.D's rule that | only
// separates at the top level — not inside quotes, parens, or ${...} spans.
func splitFilterTail(expr string) (string, []string) {
	parts := splitTopLevel(expr, '|')
	if len(parts) <= 1 {
		return expr, nil
	}
	return parts[0], parts[1:]
}

// splitTopLevel splits on sep outside quotes, (), [], {} and ${...} spans.
func splitTopLevel(s string, sep byte) []string {
	out := []string{}
	depth := 0
	quote := byte(0)
	esc := false
	dollarBrace := 0
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if esc {
			esc = false
			continue
		}
		if quote != 0 {
			if ch == '\\' {
				esc = true
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '{':
			if i > 0 && s[i-1] == '$' {
				dollarBrace++
			} else {
				depth++
			}
		case '}':
			if dollarBrace > 0 {
				dollarBrace--
			} else if depth > 0 {
				depth--
			}
		default:
			if ch == sep && depth == 0 && dollarBrace == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// parseFilterSpec splits "name:args" or a bare "name" into the name and its
// raw (unparsed) argument body.
func parseFilterSpec(spec string) (string, string) {
	s := strings.TrimSpace(spec)
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:])
}

// parseFilterArgs implements the tokenizer described in §4.E: bare tokens,
// positional tuples "(a,b)", key/value object form "(k:v,k:v)", quoted
// strings with backslash escapes, and /regex/flags literals.
func parseFilterArgs(raw string) ([]any, kvList) {
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		inner := raw[1 : len(raw)-1]
		parts := splitTopLevel(inner, ',')
		pos := []any{}
		kw := kvList{}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if key, val, ok := splitTopLevelColon(p); ok {
				kw = append(kw, kvPair{Key: unquoteToken(key), Val: parseArgToken(val)})
				continue
			}
			pos = append(pos, parseArgToken(p))
		}
		return pos, kw
	}
	return []any{parseArgToken(raw)}, nil
}

// splitTopLevelColon finds the first ':' outside quotes/parens, used to
// tell a "key:value" pair apart from a bare value that merely contains a
// colon (e.g. a quoted time format "HH:mm").
func splitTopLevelColon(s string) (string, string, bool) {
	depth := 0
	quote := byte(0)
	esc := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if esc {
			esc = false
			continue
		}
		if quote != 0 {
			if ch == '\\' {
				esc = true
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", "", false
}

func unquoteToken(s string) string {
	t := strings.TrimSpace(s)
	if len(t) >= 2 && ((t[0] == '"' && t[len(t)-1] == '"') || (t[0] == '\'' && t[len(t)-1] == '\'')) {
		return unescapeString(t[1 : len(t)-1])
	}
	return t
}

func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i+1])
			}
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var regexLiteralRe = regexp.MustCompile(`^/((?:\\.|[^/\\])*)/([a-zA-Z]*)$`)

// parseArgToken parses a single filter-argument token: quoted string, regex
// literal, number, boolean, null, or bare word (returned as a plain string).
func parseArgToken(raw string) any {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}
	if len(t) >= 2 && ((t[0] == '"' && t[len(t)-1] == '"') || (t[0] == '\'' && t[len(t)-1] == '\'')) {
		return unescapeString(t[1 : len(t)-1])
	}
	if m := regexLiteralRe.FindStringSubmatch(t); m != nil {
		pattern := m[1]
		flags := m[2]
		goPattern := pattern
		if strings.Contains(flags, "i") {
			goPattern = "(?i)" + goPattern
		}
		re, err := regexp.Compile(goPattern)
		if err != nil {
			return t
		}
		return filterRegex{Re: re, Src: pattern}
	}
	switch t {
	case "true":
		return true
	case "false":
		return false
	case "null", "nil":
		return nil
	}
	if i, err := strconv.Atoi(t); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return t
}

// runFilterChain applies a sequence of raw "name:args" specs to a value,
// auto-upgrading/serializing the carry at each boundary (§3, §4.E).
func runFilterChain(v any, specs []string, rc *renderCtx) filterValue {
	carry := valueOf(v)
	for _, spec := range specs {
		carry = carry.upgrade()
		name, rawArgs := parseFilterSpec(spec)
		fn, ok := filterRegistry[strings.ToLower(name)]
		if !ok {
			logDegraded("unknown filter skipped", map[string]any{"filter": name})
			continue
		}
		pos, kw := []any{}, kvList(nil)
		if name == "map" || name == "template" {
			// map/template take a single hand-parsed arrow/template-literal
			// spec (§4.F), not the generic tokenized argument list.
			pos = []any{rawArgs}
		} else {
			pos, kw = parseFilterArgs(rawArgs)
		}
		carry = fn(carry, pos, kw, rc)
	}
	return carry
}

func argString(pos []any, i int, dflt string) string {
	if i < 0 || i >= len(pos) || pos[i] == nil {
		return dflt
	}
	switch t := pos[i].(type) {
	case string:
		return t
	default:
		return stringifyValue(t)
	}
}

func argInt(pos []any, i int, dflt int) int {
	if i < 0 || i >= len(pos) {
		return dflt
	}
	switch t := pos[i].(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return dflt
}

func argBool(pos []any, i int, dflt bool) bool {
	if i < 0 || i >= len(pos) {
		return dflt
	}
	if b, ok := pos[i].(bool); ok {
		return b
	}
	return dflt
}
