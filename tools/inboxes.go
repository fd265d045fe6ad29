package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/validate"
)

const mailboxCacheKey = "mailboxes"

type SearchInboxesInput struct {
	Query       string `json:"query" jsonschema:"text matched against inbox name and email (case-insensitive substring)"`
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum number of inboxes to return, 1-100, default 50"`
	UserRequest string `json:"userRequest,omitempty" jsonschema:"the end user's original wording, used for call-ordering checks and guidance"`
}

type ListInboxesInput struct {
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum number of inboxes to return, 1-100, default 100"`
	UserRequest string `json:"userRequest,omitempty" jsonschema:"the end user's original wording, used for call-ordering checks and guidance"`
}

type inboxesOutput struct {
	Inboxes []freescout.Mailbox `json:"inboxes"`
	Count   int                 `json:"count"`
	Usage   []string            `json:"usage,omitempty"`
}

// SearchInboxes resolves inbox names to ids. It is the prerequisite the
// validator points to when a search mentions an inbox by name.
func (h *Handler) SearchInboxes(ctx context.Context, req *mcp.CallToolRequest, in SearchInboxesInput) (*mcp.CallToolResult, any, error) {
	sessionCtx, _, blocked := h.gate(req.Session, in.UserRequest, validate.ProposedCall{Tool: validate.ToolSearchInboxes})
	if blocked != nil {
		return blocked, nil, nil
	}

	query := strings.TrimSpace(in.Query)
	if query == "" {
		return argumentFailure("query is required; use " + validate.ToolListInboxes + " to list every inbox"), nil, nil
	}

	mailboxes, err := h.mailboxes(ctx)
	if err != nil {
		return upstreamFailure(err), nil, nil
	}

	needle := strings.ToLower(query)
	matches := make([]freescout.Mailbox, 0, len(mailboxes))
	for _, mailbox := range mailboxes {
		if strings.Contains(strings.ToLower(mailbox.Name), needle) ||
			strings.Contains(strings.ToLower(mailbox.Email), needle) {
			matches = append(matches, mailbox)
		}
	}
	if limit := clamp(in.Limit, 1, 100, 50); len(matches) > limit {
		matches = matches[:limit]
	}

	var firstID int64
	if len(matches) > 0 {
		firstID = matches[0].ID
	}

	h.recordCall(sessionCtx, validate.ToolSearchInboxes)
	return jsonResult(inboxesOutput{
		Inboxes: matches,
		Count:   len(matches),
		Usage:   validate.AfterInboxLookup(len(matches), firstID),
	}), nil, nil
}

// ListInboxes returns every inbox visible to the API key.
func (h *Handler) ListInboxes(ctx context.Context, req *mcp.CallToolRequest, in ListInboxesInput) (*mcp.CallToolResult, any, error) {
	sessionCtx, _, blocked := h.gate(req.Session, in.UserRequest, validate.ProposedCall{Tool: validate.ToolListInboxes})
	if blocked != nil {
		return blocked, nil, nil
	}

	mailboxes, err := h.mailboxes(ctx)
	if err != nil {
		return upstreamFailure(err), nil, nil
	}

	if limit := clamp(in.Limit, 1, 100, 100); len(mailboxes) > limit {
		mailboxes = mailboxes[:limit]
	}

	h.recordCall(sessionCtx, validate.ToolListInboxes)
	return jsonResult(inboxesOutput{
		Inboxes: mailboxes,
		Count:   len(mailboxes),
	}), nil, nil
}

// mailboxes fetches the mailbox list through the response cache.
func (h *Handler) mailboxes(ctx context.Context) ([]freescout.Mailbox, error) {
	var cached []freescout.Mailbox
	if h.cache.Get(ctx, mailboxCacheKey, &cached) {
		log.Debug().Int("count", len(cached)).Msg("Mailbox list served from cache")
		return cached, nil
	}

	mailboxes, err := h.upstream.ListMailboxes(ctx)
	if err != nil {
		return nil, err
	}
	h.cache.Set(ctx, mailboxCacheKey, mailboxes)
	return mailboxes, nil
}

// clamp bounds a user-supplied limit, substituting the default for the
// zero value.
func clamp(value, min, max, def int) int {
	if value == 0 {
		return def
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
