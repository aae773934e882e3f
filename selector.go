package clipweave

import (
	"encoding/json"
	"strings"
)

// querySelector implements component C over the caller-supplied DOMHandle:
// text or HTML mode, with an optional "?attr" suffix honored in text mode.
// Zero matches → empty string, one match → scalar, many → JSON array. An
// invalid selector degrades to empty string rather than propagating a DOM
// exception (§4.C, §7).
func querySelector(dom DOMHandle, selector string, html bool) (result string) {
	defer func() {
		if recover() != nil {
			result = ""
		}
	}()
	if dom == nil {
		return ""
	}
	sel, attr := splitSelectorAttr(selector)
	elems := dom.QuerySelectorAll(sel)
	if len(elems) == 0 {
		return ""
	}
	values := make([]any, len(elems))
	for i, el := range elems {
		values[i] = selectorValue(el, attr, html)
	}
	if len(values) == 1 {
		if s, ok := values[0].(string); ok {
			return s
		}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(b)
}

func splitSelectorAttr(selector string) (string, string) {
	if i := strings.LastIndexByte(selector, '?'); i >= 0 {
		return selector[:i], selector[i+1:]
	}
	return selector, ""
}

func selectorValue(el DOMElement, attr string, htmlMode bool) string {
	if attr != "" {
		if v, ok := el.GetAttribute(attr); ok {
			return v
		}
		return ""
	}
	if htmlMode {
		return el.OuterHTML()
	}
	return el.TextContent()
}
