package clipweave

import "testing"

func TestRenderMustacheAndFilters(t *testing.T) {
	pc := testPageContext()
	out, prompts := Render("{{title|upper}}", pc)
	if out != "APPLE PIE" {
		t.Fatalf("got %q", out)
	}
	if prompts.Len() != 0 {
		t.Fatalf("expected no prompts, got %d", prompts.Len())
	}
}

func TestRenderLoopThenGlobalMustachePass(t *testing.T) {
	pc := testPageContext()
	out, _ := Render("{% for h in highlights %}- {{h.text}}\n{% endfor %}{{title}}", pc)
	want := "- preheat the oven\n- let it cool\nApple Pie"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderPromptSentinelThenResolve(t *testing.T) {
	pc := testPageContext()
	out, prompts := Render(`{{"summarize this"|upper}}`, pc)
	if prompts.Len() != 1 {
		t.Fatalf("expected 1 prompt, got %d", prompts.Len())
	}
	rc := newRenderCtx(pc)
	resolved := ResolvePrompts(out, prompts, []string{"a short summary"}, rc)
	if resolved != "A SHORT SUMMARY" {
		t.Fatalf("got %q", resolved)
	}
}

func TestResolvePromptsMissingAnswerDegradesToEmpty(t *testing.T) {
	pc := testPageContext()
	out, prompts := Render(`{{"summarize this"}}`, pc)
	rc := newRenderCtx(pc)
	resolved := ResolvePrompts(out, prompts, nil, rc)
	if resolved != "" {
		t.Fatalf("got %q", resolved)
	}
}

func TestEngineCompileCachesIdenticalTemplateAndPage(t *testing.T) {
	engine, err := Configure(Options{})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	pc := testPageContext()
	out1, _ := engine.Compile("{{title}}", pc)
	out2, _ := engine.Compile("{{title}}", pc)
	if out1 != out2 || out1 != "Apple Pie" {
		t.Fatalf("got %q / %q", out1, out2)
	}
}

func TestConfigureRejectsNegativeCacheSize(t *testing.T) {
	_, err := Configure(Options{CacheSize: -1})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestConfigureDefaultsCacheSize(t *testing.T) {
	engine, err := Configure(Options{})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if engine.opts.CacheSize != DefaultCacheSize {
		t.Fatalf("got %d", engine.opts.CacheSize)
	}
}
