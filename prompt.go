package clipweave

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// PromptEntry is one pending AI-interpreter request recorded against a
// sentinel id: the literal prompt text plus the filter tail that should be
// applied to whatever answer comes back (§4.H steps 5/7).
type PromptEntry struct {
	Expr    string
	Filters []string
}

// PromptTable collects the prompt sentinels emitted during a render, keyed
// by a collision-free id (§9 "the exact collision-free form ... is left to
// the implementer").
type PromptTable struct {
	entries map[string]PromptEntry
	order   []string
}

func newPromptTable() *PromptTable {
	return &PromptTable{entries: map[string]PromptEntry{}}
}

func (t *PromptTable) register(expr string, filters []string) string {
	id := uuid.NewString()
	t.entries[id] = PromptEntry{Expr: expr, Filters: filters}
	t.order = append(t.order, id)
	return id
}

// Prompts returns the pending prompt strings in registration order, the
// shape the Interpreter interface (§6) expects as input.
func (t *PromptTable) Prompts() []string {
	out := make([]string, len(t.order))
	for i, id := range t.order {
		out[i] = t.entries[id].Expr
	}
	return out
}

func (t *PromptTable) Len() int { return len(t.order) }

var sentinelRe = regexp.MustCompile(`⟦PROMPT:([0-9a-fA-F-]+)⟧`)

func sentinelFor(id string) string {
	return fmt.Sprintf("⟦PROMPT:%s⟧", id)
}

// ResolvePrompts runs the second pass described in §4.H step 7: each
// sentinel is replaced by the filter-chain-applied interpreter answer. A
// missing id (stale table) or a short answer list degrades to empty string,
// never an error — rendering stays total.
func ResolvePrompts(rendered string, table *PromptTable, answers []string, rc *renderCtx) string {
	answerByID := make(map[string]string, len(table.order))
	for i, id := range table.order {
		if i < len(answers) {
			answerByID[id] = answers[i]
		}
	}
	return sentinelRe.ReplaceAllStringFunc(rendered, func(m string) string {
		mm := sentinelRe.FindStringSubmatch(m)
		if len(mm) < 2 {
			return ""
		}
		entry, ok := table.entries[mm[1]]
		if !ok {
			return ""
		}
		answer := answerByID[mm[1]]
		carry := runFilterChain(answer, entry.Filters, rc)
		return carry.finalize()
	})
}

// stripSentinels is used by callers that need a prompt-free preview before
// interpreter answers are available.
func stripSentinels(s string) string {
	return sentinelRe.ReplaceAllString(s, "")
}
