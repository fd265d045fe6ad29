package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/search"
	"github.com/support-tools/freescout-mcp/validate"
)

type AdvancedSearchInput struct {
	ContentTerms  []string `json:"contentTerms,omitempty" jsonschema:"terms matched against message bodies (OR within the group)"`
	SubjectTerms  []string `json:"subjectTerms,omitempty" jsonschema:"terms matched against subjects (OR within the group)"`
	CustomerEmail string   `json:"customerEmail,omitempty" jsonschema:"exact customer email address"`
	EmailDomain   string   `json:"emailDomain,omitempty" jsonschema:"customer email domain, with or without leading @"`
	Tags          []string `json:"tags,omitempty" jsonschema:"conversation tags (OR within the group)"`
	InboxID       string   `json:"inboxId,omitempty" jsonschema:"numeric inbox id; resolve names with search_inboxes first"`
	Status        string   `json:"status,omitempty" jsonschema:"one of active, pending, closed, spam; omit to search active, pending and closed"`
	CreatedAfter  string   `json:"createdAfter,omitempty" jsonschema:"ISO 8601 lower bound on creation time"`
	CreatedBefore string   `json:"createdBefore,omitempty" jsonschema:"ISO 8601 upper bound on creation time (applied client-side)"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 50"`
	UserRequest   string   `json:"userRequest,omitempty" jsonschema:"the end user's original wording, used for call-ordering checks and guidance"`
}

type advancedSearchOutput struct {
	Results             []freescout.Conversation `json:"results"`
	SearchQuery         string                   `json:"searchQuery"`
	InboxScope          string                   `json:"inboxScope"`
	SearchCriteria      AdvancedSearchInput      `json:"searchCriteria"`
	StatusesSearched    []string                 `json:"statusesSearched"`
	ClientSideFiltering string                   `json:"clientSideFiltering,omitempty"`
	SearchGuidance      []string                 `json:"searchGuidance,omitempty"`
	Note                string                   `json:"note,omitempty"`
}

// AdvancedSearchConversations AND-combines structured criteria groups
// into one upstream expression and runs it across statuses.
func (h *Handler) AdvancedSearchConversations(ctx context.Context, req *mcp.CallToolRequest, in AdvancedSearchInput) (*mcp.CallToolResult, any, error) {
	query := search.BuildAdvancedQuery(search.Criteria{
		ContentTerms:  in.ContentTerms,
		SubjectTerms:  in.SubjectTerms,
		CustomerEmail: in.CustomerEmail,
		EmailDomain:   in.EmailDomain,
		Tags:          in.Tags,
	})

	sessionCtx, checked, blocked := h.gate(req.Session, in.UserRequest, validate.ProposedCall{
		Tool:      validate.ToolAdvancedSearch,
		InboxID:   in.InboxID,
		HasStatus: in.Status != "",
		HasQuery:  query != "",
	})
	if blocked != nil {
		return blocked, nil, nil
	}

	if query == "" {
		return argumentFailure("at least one search criterion is required (contentTerms, subjectTerms, customerEmail, emailDomain or tags)"), nil, nil
	}

	statuses, err := resolveStatuses(in.Status, nil)
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
		Query:          query,
		Statuses:       statuses,
		InboxID:        inboxID,
		CreatedAfter:   search.ResolveAfter(in.CreatedAfter, 0, h.now()),
		CreatedBefore:  before,
		LimitPerStatus: limit,
		GlobalLimit:    limit,
		SortField:      "createdAt",
		SortOrder:      "desc",
	})
	if err != nil {
		return upstreamFailure(err), nil, nil
	}

	out := advancedSearchOutput{
		Results:          agg.Conversations,
		SearchQuery:      query,
		InboxScope:       scope,
		SearchCriteria:   in,
		StatusesSearched: agg.StatusesSearched,
		Note:             agg.Note,
	}
	out.SearchCriteria.UserRequest = ""
	if agg.Filtered {
		out.ClientSideFiltering = "some results were removed by the createdBefore filter after fetching; upstream totals do not reflect this"
	}
	guidance := append([]string{}, checked.Suggestions...)
	if len(agg.Conversations) == 0 {
		guidance = append(guidance, validate.AfterSearch(0)...)
	}
	out.SearchGuidance = guidance

	h.recordCall(sessionCtx, validate.ToolAdvancedSearch)
	return jsonResult(out), nil, nil
}
