package clipweave

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// fBlockquote prefixes every line of the carried text with "> ".
func fBlockquote(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	return stringCarry(prefixLines(s, "> "))
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// fCallout wraps the carried text in an Obsidian-style callout block:
// callout(kind, title, folded) — folded toggles the "+"/"-" fold marker.
func fCallout(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	s, ok := textOperand(c)
	if !ok {
		return c
	}
	kind := argString(pos, 0, "note")
	title := argString(pos, 1, "")
	fold := "+"
	if argBool(pos, 2, false) {
		fold = "-"
	}
	header := fmt.Sprintf("[!%s]%s %s", kind, fold, title)
	header = strings.TrimRight(header, " ")
	body := header + "\n" + s
	return stringCarry(prefixLines(body, "> "))
}

// fList renders an array carry as a markdown list: bullet | numbered |
// task | numbered-task.
func fList(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	arr, ok := c.asSlice()
	if !ok {
		return c
	}
	style := argString(pos, 0, "bullet")
	var b strings.Builder
	for i, item := range arr {
		text := stringifyValue(item)
		switch style {
		case "numbered":
			b.WriteString(strconv.Itoa(i+1) + ". " + text + "\n")
		case "task":
			b.WriteString("- [ ] " + text + "\n")
		case "numbered-task":
			b.WriteString(strconv.Itoa(i+1) + ". [ ] " + text + "\n")
		default:
			b.WriteString("- " + text + "\n")
		}
	}
	return stringCarry(b.String())
}

// fTable renders an array-of-objects carry as a markdown table. Columns are
// explicit positional headers when given, otherwise inferred row by row:
// each row's keys in sorted order, with keys first seen in a later row
// appended after those of earlier rows.
func fTable(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	arr, ok := c.asSlice()
	if !ok {
		return c
	}
	var headers []string
	if len(pos) > 0 {
		for _, p := range pos {
			headers = append(headers, stringifyValue(p))
		}
	} else {
		seen := map[string]bool{}
		for _, row := range arr {
			obj, ok := row.(map[string]any)
			if !ok {
				continue
			}
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sortStrings(keys)
			for _, k := range keys {
				if !seen[k] {
					seen[k] = true
					headers = append(headers, k)
				}
			}
		}
	}
	if len(headers) == 0 {
		return c
	}
	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range arr {
		obj, _ := row.(map[string]any)
		cells := make([]string, len(headers))
		for i, h := range headers {
			if obj != nil {
				cells[i] = stringifyValue(obj[h])
			}
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return stringCarry(b.String())
}

type linkToken struct {
	href, text string
}

func extractLinkTokens(c filterValue) ([]linkToken, bool) {
	if obj, ok := c.asObject(); ok {
		return []linkToken{linkTokenFromObject(obj)}, true
	}
	if arr, ok := c.asSlice(); ok {
		out := make([]linkToken, 0, len(arr))
		for _, el := range arr {
			out = append(out, linkTokenFromAny(el))
		}
		return out, true
	}
	if s, ok := textOperand(c); ok {
		return []linkToken{{href: s, text: s}}, true
	}
	return nil, false
}

func linkTokenFromAny(v any) linkToken {
	if obj, ok := v.(map[string]any); ok {
		return linkTokenFromObject(obj)
	}
	s := stringifyValue(v)
	return linkToken{href: s, text: s}
}

func linkTokenFromObject(obj map[string]any) linkToken {
	href := stringifyValue(obj["url"])
	if href == "" {
		href = stringifyValue(obj["href"])
	}
	text := stringifyValue(obj["text"])
	if text == "" {
		text = href
	}
	return linkToken{href: href, text: text}
}

// fLink renders one or many "[text](url)" tokens from a string, object
// {url|href, text}, or array thereof.
func fLink(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	tokens, ok := extractLinkTokens(c)
	if !ok {
		return c
	}
	lines := make([]string, len(tokens))
	for i, t := range tokens {
		lines[i] = fmt.Sprintf("[%s](%s)", t.text, t.href)
	}
	return stringCarry(strings.Join(lines, "\n"))
}

// fWikilink renders "[[target|alias]]" tokens (an alias equal to the target
// is omitted).
func fWikilink(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	tokens, ok := extractLinkTokens(c)
	if !ok {
		return c
	}
	lines := make([]string, len(tokens))
	for i, t := range tokens {
		if t.text == "" || t.text == t.href {
			lines[i] = fmt.Sprintf("[[%s]]", t.href)
		} else {
			lines[i] = fmt.Sprintf("[[%s|%s]]", t.href, t.text)
		}
	}
	return stringCarry(strings.Join(lines, "\n"))
}

// fImage renders "![alt](url)" tokens.
func fImage(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	tokens, ok := extractLinkTokens(c)
	if !ok {
		return c
	}
	lines := make([]string, len(tokens))
	for i, t := range tokens {
		lines[i] = fmt.Sprintf("![%s](%s)", t.text, t.href)
	}
	return stringCarry(strings.Join(lines, "\n"))
}

// fFootnote renders footnote definitions from an array (numeric ids,
// 1-based) or an object (slug ids, sorted for determinism).
func fFootnote(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	if arr, ok := c.asSlice(); ok {
		lines := make([]string, len(arr))
		for i, v := range arr {
			lines[i] = fmt.Sprintf("[^%d]: %s", i+1, stringifyValue(v))
		}
		return stringCarry(strings.Join(lines, "\n"))
	}
	if obj, ok := c.asObject(); ok {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sortStrings(keys)
		lines := make([]string, len(keys))
		for i, k := range keys {
			lines[i] = fmt.Sprintf("[^%s]: %s", k, stringifyValue(obj[k]))
		}
		return stringCarry(strings.Join(lines, "\n"))
	}
	return c
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// fFragmentLink turns a highlight object (or array of them) into a URL
// carrying a #:~:text=… text-fragment anchor built from the active page's
// URL (the inverse of stripTextFragment).
func fFragmentLink(c filterValue, pos []any, kw kvList, rc *renderCtx) filterValue {
	base := ""
	if rc != nil && rc.pc != nil {
		base = rc.pc.URL
	}
	if obj, ok := c.asObject(); ok {
		return stringCarry(fragmentLinkFor(base, stringifyValue(obj["text"])))
	}
	if arr, ok := c.asSlice(); ok {
		lines := make([]string, 0, len(arr))
		for _, v := range arr {
			text := ""
			if obj, ok := v.(map[string]any); ok {
				text = stringifyValue(obj["text"])
			} else {
				text = stringifyValue(v)
			}
			lines = append(lines, fragmentLinkFor(base, text))
		}
		return stringCarry(strings.Join(lines, "\n"))
	}
	if s, ok := textOperand(c); ok {
		return stringCarry(fragmentLinkFor(base, s))
	}
	return c
}

func fragmentLinkFor(base, text string) string {
	if text == "" {
		return base
	}
	return base + "#:~:text=" + url.QueryEscape(text)
}
