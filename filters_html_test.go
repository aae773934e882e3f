package clipweave

import "testing"

func TestFStripTagsKeepsListedTags(t *testing.T) {
	got := runFilter(t, "strip_tags", `("b")`, "<p>hello <b>world</b></p>").asString()
	if got != "hello <b>world</b>" {
		t.Fatalf("got %q", got)
	}
}

func TestFStripTagsNoKeepStripsEverything(t *testing.T) {
	got := runFilter(t, "strip_tags", "", "<p>hello <b>world</b></p>").asString()
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestFRemoveTagsDropsSubtree(t *testing.T) {
	got := runFilter(t, "remove_tags", `("b")`, "<p>hello <b>world</b>!</p>").asString()
	if got != "<p>hello !</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestFReplaceTagsRenamesKeepingContent(t *testing.T) {
	got := runFilter(t, "replace_tags", `("b","strong")`, "<b>x</b>").asString()
	if got != "<strong>x</strong>" {
		t.Fatalf("got %q", got)
	}
}

func TestFStripAttrKeepsListed(t *testing.T) {
	got := runFilter(t, "strip_attr", `("href")`, `<a href="x" class="y">t</a>`).asString()
	if got != `<a href="x">t</a>` {
		t.Fatalf("got %q", got)
	}
}

func TestFRemoveAttrDropsListed(t *testing.T) {
	got := runFilter(t, "remove_attr", `("class")`, `<a href="x" class="y">t</a>`).asString()
	if got != `<a href="x">t</a>` {
		t.Fatalf("got %q", got)
	}
}

func TestFRemoveHTMLByClassSelector(t *testing.T) {
	got := runFilter(t, "remove_html", `(".ad")`, `<div class="ad">bad</div><p>good</p>`).asString()
	if got != "<p>good</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestFRemoveHTMLByIDSelector(t *testing.T) {
	got := runFilter(t, "remove_html", `("#skip")`, `<span id="skip">x</span><span>y</span>`).asString()
	if got != "<span>y</span>" {
		t.Fatalf("got %q", got)
	}
}

func TestFMarkdownResolvesRelativeLinks(t *testing.T) {
	carry := valueOf(`<p>Hello <a href="/x">link</a></p>`)
	rc := &renderCtx{pc: &PageContext{URL: "https://example.com"}}
	fn := filterRegistry["markdown"]
	got := fn(carry, nil, nil, rc).asString()
	want := "Hello [link](https://example.com/x)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFStripMdRemovesFormatting(t *testing.T) {
	got := runFilter(t, "strip_md", "", "**bold** and _em_").asString()
	if got != "bold and em" {
		t.Fatalf("got %q", got)
	}
}

func TestFHTMLToJSONSingleElement(t *testing.T) {
	got := runFilter(t, "html_to_json", "", "<p>hi</p>").native()
	obj, ok := got.(map[string]any)
	if !ok || obj["type"] != "element" || obj["tag"] != "p" {
		t.Fatalf("got %#v", got)
	}
	children, ok := obj["children"].([]any)
	if !ok || len(children) != 1 {
		t.Fatalf("children = %#v", obj["children"])
	}
	text, ok := children[0].(map[string]any)
	if !ok || text["type"] != "text" || text["content"] != "hi" {
		t.Fatalf("text node = %#v", children[0])
	}
}
