package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/search"
	"github.com/support-tools/freescout-mcp/validate"
)

type SearchConversationsInput struct {
	Query         string   `json:"query,omitempty" jsonschema:"FreeScout search expression passed through to the API, e.g. body:\"refund\""`
	InboxID       string   `json:"inboxId,omitempty" jsonschema:"numeric inbox id; resolve names with search_inboxes first"`
	Tag           string   `json:"tag,omitempty" jsonschema:"only conversations carrying this tag"`
	Status        string   `json:"status,omitempty" jsonschema:"one of active, pending, closed, spam; omit to search active, pending and closed in parallel"`
	CreatedAfter  string   `json:"createdAfter,omitempty" jsonschema:"ISO 8601 lower bound on creation time"`
	CreatedBefore string   `json:"createdBefore,omitempty" jsonschema:"ISO 8601 upper bound on creation time (applied client-side)"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 50"`
	SortField     string   `json:"sortField,omitempty" jsonschema:"createdAt, updatedAt or number, default createdAt"`
	SortOrder     string   `json:"sortOrder,omitempty" jsonschema:"asc or desc, default desc"`
	Fields        []string `json:"fields,omitempty" jsonschema:"project each result down to these fields (id is always kept)"`
	UserRequest   string   `json:"userRequest,omitempty" jsonschema:"the end user's original wording, used for call-ordering checks and guidance"`
}

type searchConversationsOutput struct {
	Results    any         `json:"results"`
	Pagination *pagination `json:"pagination"`
	SearchInfo searchInfo  `json:"searchInfo"`
}

// SearchConversations is the metadata search: native upstream filters,
// optional query expression, and a multi-status fan-out when no status
// is given.
func (h *Handler) SearchConversations(ctx context.Context, req *mcp.CallToolRequest, in SearchConversationsInput) (*mcp.CallToolResult, any, error) {
	sessionCtx, checked, blocked := h.gate(req.Session, in.UserRequest, validate.ProposedCall{
		Tool:      validate.ToolSearchConvos,
		InboxID:   in.InboxID,
		HasStatus: in.Status != "",
		HasQuery:  in.Query != "" || in.Tag != "",
	})
	if blocked != nil {
		return blocked, nil, nil
	}

	statuses, err := resolveStatuses(in.Status, nil)
	if err != nil {
		return argumentFailure(err.Error()), nil, nil
	}
	sortField, sortOrder, err := resolveSort(in.SortField, in.SortOrder)
	if err != nil {
		return argumentFailure(err.Error()), nil, nil
	}

	before, err := search.ParseBefore(in.CreatedBefore)
	if err != nil {
		return argumentFailure(err.Error()), nil, nil
	}

	scope, inboxID := h.inboxScope(in.InboxID)
	limit := clamp(in.Limit, 1, 100, 50)

	agg, err := h.aggregator.Search(ctx, search.Request{
		Query:          in.Query,
		Statuses:       statuses,
		InboxID:        inboxID,
		Tag:            in.Tag,
		CreatedAfter:   search.ResolveAfter(in.CreatedAfter, 0, h.now()),
		CreatedBefore:  before,
		LimitPerStatus: limit,
		GlobalLimit:    limit,
		SortField:      sortField,
		SortOrder:      sortOrder,
	})
	if err != nil {
		return upstreamFailure(err), nil, nil
	}

	// Merged multi-status pages have no shared cursor, so pagination is
	// only reported for single-status searches.
	var pageInfo *pagination
	if len(statuses) == 1 && len(agg.ByStatus) == 1 {
		pageInfo = singleStatusPagination(agg.ByStatus[0].Total, limit)
	}

	h.recordCall(sessionCtx, validate.ToolSearchConvos)
	return jsonResult(searchConversationsOutput{
		Results:    projectFields(agg.Conversations, in.Fields),
		Pagination: pageInfo,
		SearchInfo: buildSearchInfo(scope, agg, checked.Suggestions),
	}), nil, nil
}

// resolveStatuses validates a single status or a status list. An empty
// input yields the fan-out defaults.
func resolveStatuses(single string, many []string) ([]string, error) {
	if single != "" {
		if !validStatus(single) {
			return nil, fmt.Errorf("status %q is not one of active, pending, closed, spam", single)
		}
		return []string{single}, nil
	}
	if len(many) == 0 {
		return search.DefaultStatuses, nil
	}
	statuses := make([]string, 0, len(many))
	seen := map[string]bool{}
	for _, status := range many {
		if !validStatus(status) {
			return nil, fmt.Errorf("status %q is not one of active, pending, closed, spam", status)
		}
		if !seen[status] {
			seen[status] = true
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}

func validStatus(status string) bool {
	switch status {
	case freescout.StatusActive, freescout.StatusPending, freescout.StatusClosed, freescout.StatusSpam:
		return true
	default:
		return false
	}
}

func resolveSort(field, order string) (string, string, error) {
	switch field {
	case "":
		field = "createdAt"
	case "createdAt", "updatedAt", "number":
	default:
		return "", "", fmt.Errorf("sortField %q is not one of createdAt, updatedAt, number", field)
	}
	switch order {
	case "":
		order = "desc"
	case "asc", "desc":
	default:
		return "", "", fmt.Errorf("sortOrder %q is not one of asc, desc", order)
	}
	return field, order, nil
}
