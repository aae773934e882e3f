package clipweave

import "testing"

func TestClassifyPrefixTable(t *testing.T) {
	cases := []struct {
		expr string
		kind dispatchKind
		rest string
	}{
		{"selector:.title", dispatchSelectorText, ".title"},
		{"selectorHtml:.body", dispatchSelectorHTML, ".body"},
		{"schema:@Recipe:name", dispatchSchemaTyped, "Recipe:name"},
		{"schema:headline", dispatchSchemaShorthand, "headline"},
		{"meta:name:description", dispatchMetaName, "description"},
		{"meta:property:og:title", dispatchMetaProperty, "og:title"},
		{`prompt:"summarize this"`, dispatchPrompt, "summarize this"},
		{`"summarize this"`, dispatchPrompt, "summarize this"},
		{"title", dispatchVariable, "title"},
	}
	for _, tc := range cases {
		kind, rest := classify(tc.expr)
		if kind != tc.kind || rest != tc.rest {
			t.Errorf("classify(%q) = (%v, %q), want (%v, %q)", tc.expr, kind, rest, tc.kind, tc.rest)
		}
	}
}

func TestResolveVariableWithPath(t *testing.T) {
	vars := map[string]any{
		"highlights": []any{
			map[string]any{"text": "hello"},
		},
	}
	got := resolveVariable(vars, "highlights[0].text")
	if got != "hello" {
		t.Fatalf("got %v", got)
	}
}

func TestResolveVariableMissingNameIsEmpty(t *testing.T) {
	got := resolveVariable(map[string]any{}, "nope")
	if got != "" {
		t.Fatalf("got %v", got)
	}
}

func TestLookupMeta(t *testing.T) {
	entries := []MetaEntry{
		{AttrName: "name", AttrValue: "description", Content: "a page"},
		{AttrName: "property", AttrValue: "og:title", Content: "Page Title"},
	}
	if got := lookupMeta(entries, "name", "description"); got != "a page" {
		t.Fatalf("got %q", got)
	}
	if got := lookupMeta(entries, "property", "og:title"); got != "Page Title" {
		t.Fatalf("got %q", got)
	}
	if got := lookupMeta(entries, "name", "missing"); got != "" {
		t.Fatalf("got %q", got)
	}
}
