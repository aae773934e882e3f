package clipweave

import (
	"strings"
	"testing"
)

func TestFBlockquotePrefixesEveryLine(t *testing.T) {
	got := runFilter(t, "blockquote", "", "a\nb").asString()
	if got != "> a\n> b" {
		t.Fatalf("got %q", got)
	}
}

func TestFCalloutFoldedAndTitled(t *testing.T) {
	got := runFilter(t, "callout", `("warning","Careful",true)`, "body text").asString()
	want := "> [!warning]- Careful\n> body text"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFListStyles(t *testing.T) {
	arr := []any{"a", "b"}
	if got := runFilter(t, "list", "", arr).asString(); got != "- a\n- b\n" {
		t.Fatalf("bullet got %q", got)
	}
	if got := runFilter(t, "list", `("numbered")`, arr).asString(); got != "1. a\n2. b\n" {
		t.Fatalf("numbered got %q", got)
	}
	if got := runFilter(t, "list", `("task")`, arr).asString(); got != "- [ ] a\n- [ ] b\n" {
		t.Fatalf("task got %q", got)
	}
}

func TestFTableInfersHeaders(t *testing.T) {
	arr := []any{
		map[string]any{"name": "flour", "qty": "2 cups"},
		map[string]any{"name": "sugar", "qty": "1 cup"},
	}
	got := runFilter(t, "table", "", arr).asString()
	if !strings.HasPrefix(got, "| name | qty |\n") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "| flour | 2 cups |\n") {
		t.Fatalf("missing row: %q", got)
	}
}

func TestFLinkFromObject(t *testing.T) {
	obj := map[string]any{"url": "https://x.test", "text": "X"}
	got := runFilter(t, "link", "", obj).asString()
	if got != "[X](https://x.test)" {
		t.Fatalf("got %q", got)
	}
}

func TestFLinkFromArray(t *testing.T) {
	arr := []any{
		map[string]any{"url": "https://a.test", "text": "A"},
		map[string]any{"url": "https://b.test", "text": "B"},
	}
	got := runFilter(t, "link", "", arr).asString()
	if got != "[A](https://a.test)\n[B](https://b.test)" {
		t.Fatalf("got %q", got)
	}
}

func TestFWikilinkOmitsAliasWhenEqual(t *testing.T) {
	obj := map[string]any{"href": "Some Page"}
	got := runFilter(t, "wikilink", "", obj).asString()
	if got != "[[Some Page]]" {
		t.Fatalf("got %q", got)
	}
}

func TestFWikilinkKeepsDistinctAlias(t *testing.T) {
	obj := map[string]any{"url": "Some Page", "text": "Alias"}
	got := runFilter(t, "wikilink", "", obj).asString()
	if got != "[[Some Page|Alias]]" {
		t.Fatalf("got %q", got)
	}
}

func TestFImageRendersBang(t *testing.T) {
	obj := map[string]any{"url": "https://x.test/a.png", "text": "alt text"}
	got := runFilter(t, "image", "", obj).asString()
	if got != "![alt text](https://x.test/a.png)" {
		t.Fatalf("got %q", got)
	}
}

func TestFFootnoteFromArray(t *testing.T) {
	arr := []any{"first", "second"}
	got := runFilter(t, "footnote", "", arr).asString()
	if got != "[^1]: first\n[^2]: second" {
		t.Fatalf("got %q", got)
	}
}

func TestFFootnoteFromObjectSortsKeys(t *testing.T) {
	obj := map[string]any{"b": "second", "a": "first"}
	got := runFilter(t, "footnote", "", obj).asString()
	if got != "[^a]: first\n[^b]: second" {
		t.Fatalf("got %q", got)
	}
}

func TestFFragmentLinkBuildsTextFragmentURL(t *testing.T) {
	pc := &PageContext{URL: "https://example.com/article"}
	rc := &renderCtx{pc: pc}
	carry := valueOf(map[string]any{"text": "preheat the oven"})
	fn := filterRegistry["fragment_link"]
	got := fn(carry, nil, nil, rc).asString()
	want := "https://example.com/article#:~:text=preheat+the+oven"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFFragmentLinkArrayJoinsLines(t *testing.T) {
	pc := &PageContext{URL: "https://example.com/article"}
	rc := &renderCtx{pc: pc}
	carry := valueOf([]any{
		map[string]any{"text": "one"},
		map[string]any{"text": "two"},
	})
	fn := filterRegistry["fragment_link"]
	got := fn(carry, nil, nil, rc).asString()
	want := "https://example.com/article#:~:text=one\nhttps://example.com/article#:~:text=two"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
