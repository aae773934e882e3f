package clipweave

import "testing"

func TestFMapBarePathShape(t *testing.T) {
	arr := []any{
		map[string]any{"text": "preheat the oven"},
		map[string]any{"text": "let it cool"},
	}
	got := runFilter(t, "map", "item => item.text", arr).native().([]any)
	if len(got) != 2 || got[0] != "preheat the oven" || got[1] != "let it cool" {
		t.Fatalf("got %#v", got)
	}
}

func TestFMapObjectLiteralShape(t *testing.T) {
	arr := []any{map[string]any{"text": "x"}}
	got := runFilter(t, "map", "item => ({t:item.text})", arr).native().([]any)
	if len(got) != 1 {
		t.Fatalf("got %#v", got)
	}
	obj, ok := got[0].(map[string]any)
	if !ok || obj["t"] != "x" {
		t.Fatalf("got %#v", got[0])
	}
}

func TestFMapQuotedTemplateShape(t *testing.T) {
	arr := []any{map[string]any{"text": "hi"}}
	got := runFilter(t, "map", `item => "Hi ${item.text}"`, arr).native().([]any)
	obj, ok := got[0].(map[string]any)
	if !ok || obj["str"] != "Hi hi" {
		t.Fatalf("got %#v", got[0])
	}
}

func TestFMapNonArrayCarryPassesThrough(t *testing.T) {
	got := runFilter(t, "map", "item => item.text", "not an array")
	if got.asString() != "not an array" {
		t.Fatalf("got %q", got.asString())
	}
}

func TestFMapMalformedExpressionPassesThrough(t *testing.T) {
	arr := []any{"a", "b"}
	got := runFilter(t, "map", "not an arrow expr", arr).native()
	js, ok := got.([]any)
	if !ok || len(js) != 2 || js[0] != "a" {
		t.Fatalf("got %#v", got)
	}
}

func TestFTemplateFilterArrayConcatenates(t *testing.T) {
	arr := []any{
		map[string]any{"t": "one"},
		map[string]any{"t": "two"},
	}
	got := runFilter(t, "template", `"- ${t}\n"`, arr).asString()
	if got != "- one\n- two\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFTemplateFilterObjectSingleSubstitution(t *testing.T) {
	obj := map[string]any{"name": "pie"}
	got := runFilter(t, "template", `"Recipe: ${name}"`, obj).asString()
	if got != "Recipe: pie" {
		t.Fatalf("got %q", got)
	}
}

func TestFTemplateFilterMalformedPassesThrough(t *testing.T) {
	got := runFilter(t, "template", "not quoted", map[string]any{"a": 1})
	if _, ok := got.asObject(); !ok {
		t.Fatalf("expected object carry unchanged, got %#v", got.native())
	}
}
