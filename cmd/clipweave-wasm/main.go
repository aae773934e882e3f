//go:build js && wasm

// Command clipweave-wasm compiles the engine for the browser extension
// that actually hosts it: exposed as window.Clipweave.compile/resolve.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"syscall/js"
	"time"

	clipweave "github.com/clipweave/engine"
)

type compileRequest struct {
	Template string                       `json:"template"`
	Page     clipweave.PageContextFixture `json:"page"`
}

type compileResponse struct {
	OK      bool     `json:"ok"`
	Token   string   `json:"token,omitempty"`
	Output  string   `json:"output,omitempty"`
	Prompts []string `json:"prompts,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type resolveRequest struct {
	Token    string   `json:"token"`
	Rendered string   `json:"rendered"`
	Answers  []string `json:"answers"`
}

type resolveResponse struct {
	OK     bool   `json:"ok"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

func toJS(v any) any {
	b, _ := json.Marshal(v)
	return string(b)
}

var engine *clipweave.Engine

// pending holds one in-flight compile's prompt table and page context,
// keyed by a token handed back to the JS caller — the WASM instance is the
// only process involved, so this in-memory map is the whole round trip
// (§4.H step 7 needs the PromptTable that step 5 produced).
var (
	pendingMu sync.Mutex
	pending   = map[string]struct {
		prompts *clipweave.PromptTable
		pc      *clipweave.PageContext
	}{}
)

func compile(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return toJS(compileResponse{OK: false, Error: "missing request json"})
	}
	var req compileRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return toJS(compileResponse{OK: false, Error: err.Error()})
	}
	pc := req.Page.ToPageContext(time.Now())
	rendered, prompts := engine.Compile(req.Template, pc)

	sum := sha256.Sum256([]byte(req.Template + "\x00" + pc.Fingerprint()))
	token := hex.EncodeToString(sum[:])

	pendingMu.Lock()
	pending[token] = struct {
		prompts *clipweave.PromptTable
		pc      *clipweave.PageContext
	}{prompts: prompts, pc: pc}
	pendingMu.Unlock()

	return toJS(compileResponse{OK: true, Token: token, Output: rendered, Prompts: prompts.Prompts()})
}

func resolve(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return toJS(resolveResponse{OK: false, Error: "missing request json"})
	}
	var req resolveRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return toJS(resolveResponse{OK: false, Error: err.Error()})
	}
	pendingMu.Lock()
	entry, ok := pending[req.Token]
	delete(pending, req.Token)
	pendingMu.Unlock()
	if !ok {
		return toJS(resolveResponse{OK: false, Error: "unknown or expired token"})
	}
	out := engine.ResolvePrompts(req.Rendered, entry.prompts, entry.pc, req.Answers)
	return toJS(resolveResponse{OK: true, Output: out})
}

func main() {
	var err error
	engine, err = clipweave.Configure(clipweave.Options{})
	if err != nil {
		panic(err)
	}

	api := js.Global().Get("Object").New()
	api.Set("compile", js.FuncOf(compile))
	api.Set("resolve", js.FuncOf(resolve))
	js.Global().Set("Clipweave", api)

	select {}
}
