package clipweave

import (
	"container/list"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// exprRe matches a trimmed mustache expression, identically to the
// teacher's exprRe in render.go.
var exprRe = regexp.MustCompile(`\{\{\s*([\s\S]*?)\s*\}\}`)

// renderCtx is the per-render environment threaded through every provider
// and filter call: the active page, its DOM/schema/meta collaborators, the
// current variable-map scope (cloned per loop iteration), and the prompt
// table being accumulated.
type renderCtx struct {
	pc      *PageContext
	dom     DOMHandle
	schema  *SchemaIndex
	meta    []MetaEntry
	vars    map[string]any
	prompts *PromptTable
}

func newRenderCtx(pc *PageContext) *renderCtx {
	var dom DOMHandle
	if pc != nil {
		dom = pc.DOM
	}
	var schema *SchemaIndex
	var meta []MetaEntry
	var vars map[string]any
	if pc != nil {
		schema = pc.schema
		meta = pc.Meta
		vars = pc.asVarMap()
	} else {
		vars = map[string]any{}
	}
	return &renderCtx{
		pc:      pc,
		dom:     dom,
		schema:  schema,
		meta:    meta,
		vars:    vars,
		prompts: newPromptTable(),
	}
}

// withVars returns a shallow copy of rc scoped to a cloned variable map —
// used when entering a loop iteration (§3 "cloned at loop entry").
func (rc *renderCtx) withVars(vars map[string]any) *renderCtx {
	next := *rc
	next.vars = vars
	return &next
}

// evalExprValue evaluates any mustache-shaped expression (base + optional
// filter tail) to its native value, without prompt-sentinel handling. Used
// by the logic-block expander to resolve a `for` loop's SOURCE (§4.G: "SOURCE
// is evaluated exactly like a mustache expression").
func evalExprValue(expr string, rc *renderCtx) any {
	base, filters := splitFilterTail(expr)
	base = strings.TrimSpace(base)
	kind, payload := classify(base)
	var value any
	if kind == dispatchPrompt {
		value = ""
	} else {
		value = resolveProvider(kind, payload, rc)
	}
	return runFilterChain(value, filters, rc).native()
}

// resolveMustache is the component D+E driver for a single top-level
// `{{…}}` occurrence during the global mustache pass (§4.H step 5): prompt
// expressions register a sentinel instead of resolving immediately.
func resolveMustache(expr string, rc *renderCtx) string {
	base, filters := splitFilterTail(expr)
	base = strings.TrimSpace(base)
	kind, payload := classify(base)
	if kind == dispatchPrompt {
		id := rc.prompts.register(payload, filters)
		return sentinelFor(id)
	}
	value := resolveProvider(kind, payload, rc)
	return runFilterChain(value, filters, rc).finalize()
}

// Render runs the full §4.H pipeline over a single template field: logic
// pass, then left-to-right mustache resolution, returning the rendered
// string (with any prompt sentinels still embedded) and the prompt table
// recorded against it.
func Render(template string, pc *PageContext) (string, *PromptTable) {
	rc := newRenderCtx(pc)
	expanded := expandLogic(template, rc)
	rendered := exprRe.ReplaceAllStringFunc(expanded, func(m string) string {
		mm := exprRe.FindStringSubmatch(m)
		if len(mm) < 2 {
			return ""
		}
		return resolveMustache(mm[1], rc)
	})
	return rendered, rc.prompts
}

// cacheEntry is one compiled result kept by Engine's bounded LRU.
type cacheEntry struct {
	key      string
	rendered string
	prompts  *PromptTable
}

// Engine owns the compile cache and dedups concurrent compiles of the same
// (template, page) pair — the only shared mutable state the engine touches
// (§5 "No shared mutable state beyond the compilation cache").
type Engine struct {
	opts  Options
	mu    sync.Mutex
	ll    *list.List
	index map[string]*list.Element
	group singleflight.Group
}

// Configure builds a rendering Engine, mirroring the teacher's
// Configure(ConfigOptions) shape.
func Configure(opts Options) (*Engine, error) {
	if err := opts.validateSelf(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	return &Engine{
		opts:  opts,
		ll:    list.New(),
		index: map[string]*list.Element{},
	}, nil
}

func cacheKey(template string, pc *PageContext) string {
	if pc == nil {
		return template
	}
	return template + "\x00" + pc.Fingerprint()
}

func (e *Engine) cacheGet(key string) (*cacheEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	el, ok := e.index[key]
	if !ok {
		return nil, false
	}
	e.ll.MoveToFront(el)
	return el.Value.(*cacheEntry), true
}

func (e *Engine) cachePut(entry *cacheEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if el, ok := e.index[entry.key]; ok {
		el.Value = entry
		e.ll.MoveToFront(el)
		return
	}
	el := e.ll.PushFront(entry)
	e.index[entry.key] = el
	for e.ll.Len() > e.opts.CacheSize {
		oldest := e.ll.Back()
		if oldest == nil {
			break
		}
		e.ll.Remove(oldest)
		delete(e.index, oldest.Value.(*cacheEntry).key)
	}
}

// Compile implements §4.H end to end: URL normalization already happened at
// PageContext construction, so this starts at the cache lookup.
func (e *Engine) Compile(template string, pc *PageContext) (string, *PromptTable) {
	key := cacheKey(template, pc)
	if hit, ok := e.cacheGet(key); ok {
		return hit.rendered, hit.prompts
	}
	v, _, _ := e.group.Do(key, func() (any, error) {
		rendered, prompts := Render(template, pc)
		e.cachePut(&cacheEntry{key: key, rendered: rendered, prompts: prompts})
		return &cacheEntry{key: key, rendered: rendered, prompts: prompts}, nil
	})
	entry := v.(*cacheEntry)
	return entry.rendered, entry.prompts
}

// ResolvePrompts runs §4.H step 7 against a prior Compile result.
func (e *Engine) ResolvePrompts(rendered string, prompts *PromptTable, pc *PageContext, answers []string) string {
	rc := newRenderCtx(pc)
	return ResolvePrompts(rendered, prompts, answers, rc)
}
