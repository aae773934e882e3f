package clipweave

import "testing"

func TestResolvePathDottedAndBracketed(t *testing.T) {
	v := map[string]any{
		"a": map[string]any{
			"b": []any{
				map[string]any{"c": "first"},
				map[string]any{"c": "second"},
			},
		},
	}
	got, ok := ResolvePath(v, "a.b[0].c")
	if !ok || got != "first" {
		t.Fatalf("a.b[0].c = %v, %v", got, ok)
	}
	got, ok = ResolvePath(v, "a.b[1].c")
	if !ok || got != "second" {
		t.Fatalf("a.b[1].c = %v, %v", got, ok)
	}
}

func TestResolvePathSplat(t *testing.T) {
	v := map[string]any{
		"items": []any{
			map[string]any{"name": "flour"},
			map[string]any{"name": "sugar"},
		},
	}
	got, ok := ResolvePath(v, "items[*].name")
	if !ok {
		t.Fatalf("expected ok")
	}
	arr, ok := got.([]any)
	if !ok || len(arr) != 2 || arr[0] != "flour" || arr[1] != "sugar" {
		t.Fatalf("items[*].name = %#v", got)
	}
}

func TestResolvePathMissStepDegradesToFalse(t *testing.T) {
	v := map[string]any{"a": 1}
	if _, ok := ResolvePath(v, "a.b.c"); ok {
		t.Fatalf("expected miss on scalar descent")
	}
	if _, ok := ResolvePath(v, "missing"); ok {
		t.Fatalf("expected miss on unknown key")
	}
}

func TestResolvePathAutoParsesStringifiedJSON(t *testing.T) {
	v := map[string]any{"authors": `[{"name":"Ada"}]`}
	got, ok := ResolvePath(v, "authors[0].name")
	if !ok || got != "Ada" {
		t.Fatalf("authors[0].name = %v, %v", got, ok)
	}
}

func TestResolvePathOutOfRangeIndex(t *testing.T) {
	v := map[string]any{"items": []any{"a"}}
	if _, ok := ResolvePath(v, "items[5]"); ok {
		t.Fatalf("expected out-of-range miss")
	}
}

func TestStringifyValue(t *testing.T) {
	if stringifyValue(nil) != "" {
		t.Fatalf("nil should stringify to empty")
	}
	if stringifyValue("x") != "x" {
		t.Fatalf("string passthrough")
	}
	if stringifyValue([]any{"a", "b"}) != `["a","b"]` {
		t.Fatalf("array json: %s", stringifyValue([]any{"a", "b"}))
	}
}
