package clipweave

import "testing"

type fakeElement struct {
	text  string
	html  string
	attrs map[string]string
}

func (e fakeElement) TextContent() string { return e.text }
func (e fakeElement) OuterHTML() string   { return e.html }
func (e fakeElement) GetAttribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

type fakeDOM struct {
	byAll map[string][]DOMElement
}

func (d fakeDOM) QuerySelectorAll(selector string) []DOMElement {
	return d.byAll[selector]
}

func TestQuerySelectorSingleMatch(t *testing.T) {
	dom := fakeDOM{byAll: map[string][]DOMElement{
		".title": {fakeElement{text: "Hello"}},
	}}
	got := querySelector(dom, ".title", false)
	if got != "Hello" {
		t.Fatalf("got %q", got)
	}
}

func TestQuerySelectorManyMatchesProducesJSONArray(t *testing.T) {
	dom := fakeDOM{byAll: map[string][]DOMElement{
		".tag": {fakeElement{text: "A"}, fakeElement{text: "B"}},
	}}
	got := querySelector(dom, ".tag", false)
	if got != `["A","B"]` {
		t.Fatalf("got %q", got)
	}
}

func TestQuerySelectorZeroMatchesIsEmpty(t *testing.T) {
	dom := fakeDOM{byAll: map[string][]DOMElement{}}
	if got := querySelector(dom, ".missing", false); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestQuerySelectorAttrSuffix(t *testing.T) {
	dom := fakeDOM{byAll: map[string][]DOMElement{
		"a": {fakeElement{attrs: map[string]string{"href": "https://x"}}},
	}}
	got := querySelector(dom, "a?href", false)
	if got != "https://x" {
		t.Fatalf("got %q", got)
	}
}

func TestQuerySelectorHTMLMode(t *testing.T) {
	dom := fakeDOM{byAll: map[string][]DOMElement{
		".box": {fakeElement{html: "<div>x</div>"}},
	}}
	got := querySelector(dom, ".box", true)
	if got != "<div>x</div>" {
		t.Fatalf("got %q", got)
	}
}

func TestQuerySelectorNilDOMIsEmpty(t *testing.T) {
	if got := querySelector(nil, ".x", false); got != "" {
		t.Fatalf("got %q", got)
	}
}
