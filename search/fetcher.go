package search

import (
	"context"
	"time"

	"github.com/support-tools/freescout-mcp/freescout"
)

// DefaultStatuses are searched when a caller names none. Spam is
// excluded unless asked for explicitly.
var DefaultStatuses = []string{
	freescout.StatusActive,
	freescout.StatusPending,
	freescout.StatusClosed,
}

// Request describes one status-partitioned conversation search.
type Request struct {
	// Query is the upstream search expression; empty means list by
	// metadata only.
	Query string

	// Statuses to search. Must be non-empty.
	Statuses []string

	InboxID string
	Tag     string

	// CreatedAfter is an upstream-native filter (already resolved and
	// formatted). CreatedBefore has no upstream equivalent and is
	// applied client-side after each fetch; zero means no bound.
	CreatedAfter  string
	CreatedBefore time.Time

	// LimitPerStatus caps each per-status fetch. GlobalLimit caps the
	// merged result; it is applied only after merging.
	LimitPerStatus int
	GlobalLimit    int

	SortField string
	SortOrder string
}

// StatusResult is the outcome of one per-status fetch.
type StatusResult struct {
	Status string
	// Total is the upstream-reported total for this status, counted
	// before any client-side filtering.
	Total         int
	Conversations []freescout.Conversation
	// Filtered reports that the client-side "created before" bound
	// removed items from this page.
	Filtered bool
}

// ConversationSearcher is the slice of the upstream client the fetcher
// needs.
type ConversationSearcher interface {
	SearchConversations(ctx context.Context, q freescout.ConversationQuery) (*freescout.ConversationPage, error)
}

// Fetcher issues a single upstream search for one status value.
type Fetcher interface {
	FetchStatus(ctx context.Context, req Request, status string) (StatusResult, error)
}

// ClientFetcher is the production Fetcher backed by the FreeScout
// client. Errors pass through untouched; partial-failure policy belongs
// to the Aggregator.
type ClientFetcher struct {
	client ConversationSearcher
}

func NewClientFetcher(client ConversationSearcher) *ClientFetcher {
	return &ClientFetcher{client: client}
}

func (f *ClientFetcher) FetchStatus(ctx context.Context, req Request, status string) (StatusResult, error) {
	page, err := f.client.SearchConversations(ctx, freescout.ConversationQuery{
		Query:        req.Query,
		Status:       status,
		MailboxID:    req.InboxID,
		Tag:          req.Tag,
		CreatedSince: req.CreatedAfter,
		SortField:    req.SortField,
		SortOrder:    req.SortOrder,
		PageSize:     req.LimitPerStatus,
	})
	if err != nil {
		return StatusResult{Status: status}, err
	}

	result := StatusResult{
		Status:        status,
		Total:         page.Page.TotalElements,
		Conversations: page.Conversations,
	}

	// The upstream API cannot express "created before", so the fetched
	// page is filtered here. This can return fewer items than the
	// per-status cap without fetching further pages; callers surface
	// that in diagnostics instead of hiding it.
	if !req.CreatedBefore.IsZero() {
		kept := result.Conversations[:0:0]
		for _, conversation := range result.Conversations {
			if conversation.CreatedTime().Before(req.CreatedBefore) {
				kept = append(kept, conversation)
			}
		}
		if len(kept) < len(result.Conversations) {
			result.Filtered = true
		}
		result.Conversations = kept
	}

	return result, nil
}
