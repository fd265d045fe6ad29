package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/search"
	"github.com/support-tools/freescout-mcp/validate"
)

const defaultTimeframeDays = 60

type KeywordSearchInput struct {
	SearchTerms    []string `json:"searchTerms" jsonschema:"terms to search for in conversation content; at least one is required"`
	InboxID        string   `json:"inboxId,omitempty" jsonschema:"numeric inbox id; resolve names with search_inboxes first"`
	Statuses       []string `json:"statuses,omitempty" jsonschema:"statuses to search, default active, pending, closed"`
	SearchIn       []string `json:"searchIn,omitempty" jsonschema:"where terms must match: body, subject or both, default both"`
	TimeframeDays  int      `json:"timeframeDays,omitempty" jsonschema:"only conversations created in the last N days, default 60"`
	CreatedAfter   string   `json:"createdAfter,omitempty" jsonschema:"explicit ISO 8601 lower bound; overrides timeframeDays"`
	CreatedBefore  string   `json:"createdBefore,omitempty" jsonschema:"ISO 8601 upper bound on creation time (applied client-side)"`
	LimitPerStatus int      `json:"limitPerStatus,omitempty" jsonschema:"maximum results per status, 1-100, default 25"`
	UserRequest    string   `json:"userRequest,omitempty" jsonschema:"the end user's original wording, used for call-ordering checks and guidance"`
}

type statusBucket struct {
	Status        string                   `json:"status"`
	TotalCount    int                      `json:"totalCount"`
	Conversations []freescout.Conversation `json:"conversations"`
}

type timeframeInfo struct {
	CreatedAfter  string `json:"createdAfter"`
	Days          int    `json:"days,omitempty"`
	CreatedBefore string `json:"createdBefore,omitempty"`
}

type keywordSearchOutput struct {
	SearchTerms                  []string       `json:"searchTerms"`
	SearchQuery                  string         `json:"searchQuery"`
	InboxScope                   string         `json:"inboxScope"`
	Timeframe                    timeframeInfo  `json:"timeframe"`
	TotalConversationsFound      int            `json:"totalConversationsFound"`
	TotalAvailableAcrossStatuses int            `json:"totalAvailableAcrossStatuses"`
	ResultsByStatus              []statusBucket `json:"resultsByStatus"`
	SearchTips                   []string       `json:"searchTips,omitempty"`
	Note                         string         `json:"note,omitempty"`
}

// SearchConversationsByKeywords is the content search: it builds one
// upstream query expression from the terms and fans it out across the
// requested statuses in parallel.
func (h *Handler) SearchConversationsByKeywords(ctx context.Context, req *mcp.CallToolRequest, in KeywordSearchInput) (*mcp.CallToolResult, any, error) {
	sessionCtx, checked, blocked := h.gate(req.Session, in.UserRequest, validate.ProposedCall{
		Tool:        validate.ToolKeywordSearch,
		InboxID:     in.InboxID,
		SearchTerms: in.SearchTerms,
		HasStatus:   len(in.Statuses) > 0,
		HasQuery:    true,
	})
	if blocked != nil {
		return blocked, nil, nil
	}

	statuses, err := resolveStatuses("", in.Statuses)
	if err != nil {
		return argumentFailure(err.Error()), nil, nil
	}

	// An explicit createdAfter wins over the relative timeframe; the
	// reported window reflects whichever applied.
	days := in.TimeframeDays
	if in.CreatedAfter != "" {
		days = 0
	} else if days == 0 {
		days = defaultTimeframeDays
	}

	before, err := search.ParseBefore(in.CreatedBefore)
	if err != nil {
		return argumentFailure(err.Error()), nil, nil
	}

	query := search.BuildKeywordQuery(in.SearchTerms, resolveSearchIn(in.SearchIn))
	after := search.ResolveAfter(in.CreatedAfter, days, h.now())
	scope, inboxID := h.inboxScope(in.InboxID)

	agg, err := h.aggregator.Search(ctx, search.Request{
		Query:          query,
		Statuses:       statuses,
		InboxID:        inboxID,
		CreatedAfter:   after,
		CreatedBefore:  before,
		LimitPerStatus: clamp(in.LimitPerStatus, 1, 100, 25),
		SortField:      "createdAt",
		SortOrder:      "desc",
	})
	if err != nil {
		return upstreamFailure(err), nil, nil
	}

	buckets := make([]statusBucket, 0, len(agg.ByStatus))
	for _, result := range agg.ByStatus {
		buckets = append(buckets, statusBucket{
			Status:        result.Status,
			TotalCount:    result.Total,
			Conversations: result.Conversations,
		})
	}

	tips := append([]string{}, checked.Suggestions...)
	tips = append(tips, validate.AfterSearch(len(agg.Conversations))...)

	h.recordCall(sessionCtx, validate.ToolKeywordSearch)
	return jsonResult(keywordSearchOutput{
		SearchTerms: in.SearchTerms,
		SearchQuery: query,
		InboxScope:  scope,
		Timeframe: timeframeInfo{
			CreatedAfter:  after,
			Days:          days,
			CreatedBefore: in.CreatedBefore,
		},
		TotalConversationsFound:      len(agg.Conversations),
		TotalAvailableAcrossStatuses: agg.TotalAvailable,
		ResultsByStatus:              buckets,
		SearchTips:                   tips,
		Note:                         agg.Note,
	}), nil, nil
}

// resolveSearchIn collapses the searchIn subset into the single
// selector the query builder understands. "both" or the presence of
// body and subject together widens to both fields.
func resolveSearchIn(searchIn []string) string {
	if len(searchIn) == 0 {
		return search.SearchInBoth
	}
	body, subject := false, false
	for _, field := range searchIn {
		switch field {
		case search.SearchInBody:
			body = true
		case search.SearchInSubject:
			subject = true
		case search.SearchInBoth:
			return search.SearchInBoth
		}
	}
	switch {
	case body && !subject:
		return search.SearchInBody
	case subject && !body:
		return search.SearchInSubject
	default:
		return search.SearchInBoth
	}
}
