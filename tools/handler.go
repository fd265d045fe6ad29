// Package tools implements the agent-facing tool surface of the
// gateway: typed inputs, call-sequence gating, search orchestration,
// and response shaping.
package tools

import (
	"context"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/cache"
	"github.com/support-tools/freescout-mcp/config"
	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/search"
	"github.com/support-tools/freescout-mcp/validate"
)

// Upstream is the slice of the FreeScout client the tools need.
// *freescout.Client satisfies it; tests substitute fakes.
type Upstream interface {
	search.ConversationSearcher
	ListMailboxes(ctx context.Context) ([]freescout.Mailbox, error)
	GetConversation(ctx context.Context, id int64, embedThreads bool) (*freescout.Conversation, error)
	ListThreads(ctx context.Context, conversationID int64) ([]freescout.Thread, error)
}

// Handler owns the tool implementations and the per-session call
// contexts. One Handler serves every session; the contexts map keeps
// the call-ordering state separated per session so concurrent agents
// never share history.
type Handler struct {
	upstream   Upstream
	aggregator *search.Aggregator
	cache      *cache.Store
	cfg        *config.Config

	mu       sync.Mutex
	sessions map[*mcp.ServerSession]*validate.CallContext

	now func() time.Time
}

func NewHandler(upstream Upstream, store *cache.Store, cfg *config.Config) *Handler {
	return &Handler{
		upstream:   upstream,
		aggregator: search.NewAggregator(search.NewClientFetcher(upstream)),
		cache:      store,
		cfg:        cfg,
		sessions:   make(map[*mcp.ServerSession]*validate.CallContext),
		now:        time.Now,
	}
}

// sessionContext returns the CallContext owned by the request's
// session, creating it on first use.
func (h *Handler) sessionContext(session *mcp.ServerSession) *validate.CallContext {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx, ok := h.sessions[session]
	if !ok {
		ctx = validate.NewCallContext()
		h.sessions[session] = ctx
	}
	return ctx
}

// gate runs the call-sequence validator for one proposed call. It
// stores the user's wording first (the rules read it), and returns a
// blocking error envelope when validation fails. The call itself is
// recorded into history only later, by recordCall, and only on success.
func (h *Handler) gate(session *mcp.ServerSession, userRequest string, call validate.ProposedCall) (*validate.CallContext, validate.Result, *mcp.CallToolResult) {
	sessionCtx := h.sessionContext(session)

	h.mu.Lock()
	sessionCtx.SetUserRequest(userRequest)
	result := validate.Check(call, sessionCtx)
	h.mu.Unlock()

	if !result.Valid {
		return sessionCtx, result, validationFailure(result)
	}
	return sessionCtx, result, nil
}

func (h *Handler) recordCall(sessionCtx *validate.CallContext, tool string) {
	h.mu.Lock()
	sessionCtx.RecordCall(tool)
	h.mu.Unlock()
}
