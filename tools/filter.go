package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/search"
	"github.com/support-tools/freescout-mcp/validate"
)

type FilterConversationsInput struct {
	AssignedTo         string   `json:"assignedTo,omitempty" jsonschema:"numeric user id of the assignee"`
	FolderID           string   `json:"folderId,omitempty" jsonschema:"numeric folder id"`
	CustomerIDs        []string `json:"customerIds,omitempty" jsonschema:"numeric customer ids"`
	ConversationNumber int64    `json:"conversationNumber,omitempty" jsonschema:"human-facing conversation number"`
	Status             string   `json:"status,omitempty" jsonschema:"active, pending, closed, spam or all, default all"`
	InboxID            string   `json:"inboxId,omitempty" jsonschema:"numeric inbox id; resolve names with search_inboxes first"`
	Tag                string   `json:"tag,omitempty" jsonschema:"only conversations carrying this tag"`
	CreatedAfter       string   `json:"createdAfter,omitempty" jsonschema:"ISO 8601 lower bound on creation time"`
	CreatedBefore      string   `json:"createdBefore,omitempty" jsonschema:"ISO 8601 upper bound on creation time (applied client-side)"`
	ModifiedSince      string   `json:"modifiedSince,omitempty" jsonschema:"ISO 8601 lower bound on last update time"`
	SortBy             string   `json:"sortBy,omitempty" jsonschema:"createdAt, updatedAt or number, default createdAt"`
	SortOrder          string   `json:"sortOrder,omitempty" jsonschema:"asc or desc, default desc"`
	Limit              int      `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 50"`
	UserRequest        string   `json:"userRequest,omitempty" jsonschema:"the end user's original wording, used for call-ordering checks and guidance"`
}

type filterConversationsOutput struct {
	Results             []freescout.Conversation `json:"results"`
	FilterApplied       FilterConversationsInput `json:"filterApplied"`
	InboxScope          string                   `json:"inboxScope"`
	Pagination          *pagination              `json:"pagination"`
	ClientSideFiltering string                   `json:"clientSideFiltering,omitempty"`
}

// FilterConversations exposes the upstream's native structural filters
// in a single request, without the status fan-out of the search tools.
func (h *Handler) FilterConversations(ctx context.Context, req *mcp.CallToolRequest, in FilterConversationsInput) (*mcp.CallToolResult, any, error) {
	sessionCtx, _, blocked := h.gate(req.Session, in.UserRequest, validate.ProposedCall{
		Tool:      validate.ToolFilterConvos,
		InboxID:   in.InboxID,
		HasStatus: in.Status != "" && in.Status != "all",
		HasQuery:  true,
	})
	if blocked != nil {
		return blocked, nil, nil
	}

	status := in.Status
	if status == "" || status == "all" {
		// "all" is the upstream default; omitting the parameter searches
		// every status in one request.
		status = ""
	} else if !validStatus(status) {
		return argumentFailure("status must be one of active, pending, closed, spam, all"), nil, nil
	}

	sortField, sortOrder, err := resolveSort(in.SortBy, in.SortOrder)
	if err != nil {
		return argumentFailure(err.Error()), nil, nil
	}
	before, err := search.ParseBefore(in.CreatedBefore)
	if err != nil {
		return argumentFailure(err.Error()), nil, nil
	}

	scope, inboxID := h.inboxScope(in.InboxID)
	limit := clamp(in.Limit, 1, 100, 50)

	page, err := h.upstream.SearchConversations(ctx, freescout.ConversationQuery{
		Status:       status,
		MailboxID:    inboxID,
		FolderID:     in.FolderID,
		Tag:          in.Tag,
		AssignedTo:   in.AssignedTo,
		CustomerIDs:  in.CustomerIDs,
		Number:       in.ConversationNumber,
		CreatedSince: search.ResolveAfter(in.CreatedAfter, 0, h.now()),
		UpdatedSince: search.ResolveAfter(in.ModifiedSince, 0, h.now()),
		SortField:    sortField,
		SortOrder:    sortOrder,
		PageSize:     limit,
	})
	if err != nil {
		return upstreamFailure(err), nil, nil
	}

	results := page.Conversations
	if results == nil {
		results = []freescout.Conversation{}
	}
	out := filterConversationsOutput{
		FilterApplied: in,
		InboxScope:    scope,
		Pagination:    paginationFromPage(page.Page),
	}
	out.FilterApplied.UserRequest = ""

	if !before.IsZero() {
		kept := results[:0:0]
		for _, conversation := range results {
			if conversation.CreatedTime().Before(before) {
				kept = append(kept, conversation)
			}
		}
		if len(kept) < len(results) {
			out.ClientSideFiltering = "some results were removed by the createdBefore filter after fetching; the pagination totals do not reflect this"
		}
		results = kept
	}
	out.Results = results

	h.recordCall(sessionCtx, validate.ToolFilterConvos)
	return jsonResult(out), nil, nil
}
