package clipweave

import "testing"

func TestFFirstLast(t *testing.T) {
	arr := []any{"a", "b", "c"}
	if got := runFilter(t, "first", "", arr).asString(); got != "a" {
		t.Fatalf("first = %q", got)
	}
	if got := runFilter(t, "last", "", arr).asString(); got != "c" {
		t.Fatalf("last = %q", got)
	}
}

func TestFFirstEmptyArray(t *testing.T) {
	if got := runFilter(t, "first", "", []any{}).asString(); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestFNthBareIndex(t *testing.T) {
	arr := []any{"a", "b", "c"}
	got := runFilter(t, "nth", `("1")`, arr).asString()
	if got != "b" {
		t.Fatalf("got %q", got)
	}
}

func TestFNthExplicitListWithWindow(t *testing.T) {
	arr := []any{"a", "b", "c", "d", "e"}
	got := runFilter(t, "nth", `("0:2,3")`, arr).native()
	js, ok := got.([]any)
	if !ok || len(js) != 3 || js[0] != "a" || js[1] != "b" || js[2] != "d" {
		t.Fatalf("got %#v", got)
	}
}

func TestFNthLinearFormula(t *testing.T) {
	arr := []any{"a", "b", "c", "d", "e", "f"}
	got := runFilter(t, "nth", `("2n")`, arr).native()
	js, ok := got.([]any)
	if !ok || len(js) != 3 || js[0] != "a" || js[1] != "c" || js[2] != "e" {
		t.Fatalf("got %#v", got)
	}
}

func TestFReverseArrayAndString(t *testing.T) {
	arr := []any{"a", "b", "c"}
	got := runFilter(t, "reverse", "", arr).native().([]any)
	if got[0] != "c" || got[2] != "a" {
		t.Fatalf("got %#v", got)
	}
	s := runFilter(t, "reverse", "", "abc").asString()
	if s != "cba" {
		t.Fatalf("got %q", s)
	}
}

func TestFSliceNegativeIndex(t *testing.T) {
	arr := []any{"a", "b", "c", "d"}
	got := runFilter(t, "slice", "(-2)", arr).native().([]any)
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Fatalf("got %#v", got)
	}
}

func TestFJoin(t *testing.T) {
	got := runFilter(t, "join", `("-")`, []any{"A", "B"}).asString()
	if got != "A-B" {
		t.Fatalf("got %q", got)
	}
}

func TestFUniqueDedupesStructurally(t *testing.T) {
	arr := []any{"a", "b", "a", map[string]any{"x": 1.0}, map[string]any{"x": 1.0}}
	got := runFilter(t, "unique", "", arr).native().([]any)
	if len(got) != 3 {
		t.Fatalf("got %#v", got)
	}
}

func TestFMergeArraysAndObjects(t *testing.T) {
	got := runFilter(t, "merge", "", []any{"a"}).native()
	if arr, ok := got.([]any); !ok || len(arr) != 1 {
		t.Fatalf("got %#v", got)
	}
	gotObj := runFilter(t, "merge", "", map[string]any{"a": 1.0}).native()
	if obj, ok := gotObj.(map[string]any); !ok || len(obj) != 1 || obj["a"] != 1.0 {
		t.Fatalf("got %#v", gotObj)
	}
}

func TestFLengthVariants(t *testing.T) {
	if got := runFilter(t, "length", "", []any{"a", "b"}).native(); got != 2.0 {
		t.Fatalf("array length = %v", got)
	}
	if got := runFilter(t, "length", "", "hello").native(); got != 5.0 {
		t.Fatalf("string length = %v", got)
	}
	if got := runFilter(t, "length", "", map[string]any{"a": 1, "b": 2}).native(); got != 2.0 {
		t.Fatalf("object length = %v", got)
	}
}

func TestFObjectKeysValues(t *testing.T) {
	obj := map[string]any{"b": 2, "a": 1}
	keys := runFilter(t, "object", `("keys")`, obj).native().([]any)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("got %#v", keys)
	}
	values := runFilter(t, "object", `("values")`, obj).native().([]any)
	if len(values) != 2 || values[0] != 1 || values[1] != 2 {
		t.Fatalf("got %#v", values)
	}
}
