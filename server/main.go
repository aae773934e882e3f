// Command server exposes the clipweave engine over HTTP for local testing
// without a browser extension host: adapts the teacher's playground server
// into the two-pass /render + /resolve pair matching §4.H steps 5 and 7.
package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	clipweave "github.com/clipweave/engine"
)

var validate = validator.New()

type renderRequest struct {
	Template string                       `json:"template" validate:"required"`
	Page     clipweave.PageContextFixture `json:"page"`
}

type renderResponse struct {
	OK      bool     `json:"ok"`
	Token   string   `json:"token,omitempty"`
	Output  string   `json:"output,omitempty"`
	Prompts []string `json:"prompts,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type resolveRequest struct {
	Token    string   `json:"token" validate:"required"`
	Rendered string   `json:"rendered"`
	Answers  []string `json:"answers"`
}

type resolveResponse struct {
	OK     bool   `json:"ok"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

type pendingCompile struct {
	prompts *clipweave.PromptTable
	pc      *clipweave.PageContext
}

type server struct {
	engine *clipweave.Engine
	log    *logrus.Logger

	mu      sync.Mutex
	pending map[string]pendingCompile
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// handleRender runs §4.H steps 1-6: one template field, one page context, a
// rendered string with any prompt sentinels still embedded.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, renderResponse{OK: false, Error: "method not allowed"})
		return
	}
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, renderResponse{OK: false, Error: err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, renderResponse{OK: false, Error: err.Error()})
		return
	}

	pc := req.Page.ToPageContext(time.Now())
	rendered, prompts := s.engine.Compile(req.Template, pc)

	token := uuid.NewString()
	s.mu.Lock()
	s.pending[token] = pendingCompile{prompts: prompts, pc: pc}
	s.mu.Unlock()

	s.log.WithField("prompts", prompts.Len()).Debug("rendered template")
	writeJSON(w, http.StatusOK, renderResponse{OK: true, Token: token, Output: rendered, Prompts: prompts.Prompts()})
}

// handleResolve runs §4.H step 7 against a prior /render's prompt table.
func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, resolveResponse{OK: false, Error: "method not allowed"})
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, resolveResponse{OK: false, Error: err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, resolveResponse{OK: false, Error: err.Error()})
		return
	}

	s.mu.Lock()
	entry, ok := s.pending[req.Token]
	delete(s.pending, req.Token)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, resolveResponse{OK: false, Error: "unknown or expired token"})
		return
	}

	out := s.engine.ResolvePrompts(req.Rendered, entry.prompts, entry.pc, req.Answers)
	writeJSON(w, http.StatusOK, resolveResponse{OK: true, Output: out})
}

func main() {
	engine, err := clipweave.Configure(clipweave.Options{})
	if err != nil {
		logrus.Fatal(err)
	}

	s := &server{engine: engine, log: logrus.StandardLogger(), pending: map[string]pendingCompile{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/render", withCORS(s.handleRender))
	mux.HandleFunc("/resolve", withCORS(s.handleResolve))

	addr := ":8090"
	logrus.Printf("clipweave server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.Fatal(err)
	}
}
