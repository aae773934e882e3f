package clipweave

import "testing"

func runFilter(t *testing.T, name string, rawArgs string, v any) filterValue {
	t.Helper()
	carry := valueOf(v)
	fn, ok := filterRegistry[name]
	if !ok {
		t.Fatalf("filter %q not registered", name)
	}
	var pos []any
	var kw kvList
	if name == "map" || name == "template" {
		pos = []any{rawArgs}
	} else {
		pos, kw = parseFilterArgs(rawArgs)
	}
	return fn(carry, pos, kw, nil)
}

func TestCaseFilters(t *testing.T) {
	cases := []struct {
		filter, in, want string
	}{
		{"lower", "HeLLo", "hello"},
		{"upper", "HeLLo", "HELLO"},
		{"capitalize", "hello world", "Hello world"},
		{"title", "hello world", "Hello World"},
		{"camel", "my variable name", "myVariableName"},
		{"pascal", "my variable name", "MyVariableName"},
		{"snake", "myVariableName", "my_variable_name"},
		{"kebab", "myVariableName", "my-variable-name"},
		{"uncamel", "myVariableName", "my variable name"},
		{"trim", "  spaced  ", "spaced"},
	}
	for _, tc := range cases {
		got := runFilter(t, tc.filter, "", tc.in).asString()
		if got != tc.want {
			t.Errorf("%s(%q) = %q, want %q", tc.filter, tc.in, got, tc.want)
		}
	}
}

func TestReplaceSinglePair(t *testing.T) {
	got := runFilter(t, "replace", `("foo","bar")`, "a foo b foo").asString()
	if got != "a bar b bar" {
		t.Fatalf("got %q", got)
	}
}

func TestReplaceMultiPair(t *testing.T) {
	got := runFilter(t, "replace", `(foo:"1",baz:"2")`, "foo and baz").asString()
	if got != "1 and 2" {
		t.Fatalf("got %q", got)
	}
}

func TestSafeNameWindows(t *testing.T) {
	got := runFilter(t, "safe_name", "", `a:b/c"d`).asString()
	if got != "abcd" {
		t.Fatalf("got %q", got)
	}
}

func TestSafeNameLinuxAllowsColon(t *testing.T) {
	got := runFilter(t, "safe_name", `("linux")`, "a:b").asString()
	if got != "a:b" {
		t.Fatalf("got %q", got)
	}
}
