package search

import (
	"context"
	"testing"
	"time"

	"github.com/support-tools/freescout-mcp/freescout"
)

type fakeSearcher struct {
	lastQuery freescout.ConversationQuery
	page      *freescout.ConversationPage
	err       error
}

func (f *fakeSearcher) SearchConversations(ctx context.Context, q freescout.ConversationQuery) (*freescout.ConversationPage, error) {
	f.lastQuery = q
	return f.page, f.err
}

func TestFetchStatus_PassesNativeFilters(t *testing.T) {
	searcher := &fakeSearcher{
		page: &freescout.ConversationPage{
			Page: freescout.Page{TotalElements: 3},
			Conversations: []freescout.Conversation{
				conv(1, "active", "2024-03-01T10:00:00Z"),
			},
		},
	}
	fetcher := NewClientFetcher(searcher)

	result, err := fetcher.FetchStatus(context.Background(), Request{
		Query:          `body:"refund"`,
		InboxID:        "4",
		Tag:            "vip",
		CreatedAfter:   "2024-02-01T00:00:00Z",
		LimitPerStatus: 25,
		SortField:      "createdAt",
		SortOrder:      "desc",
	}, "active")
	if err != nil {
		t.Fatalf("FetchStatus returned error: %v", err)
	}

	q := searcher.lastQuery
	if q.Status != "active" || q.MailboxID != "4" || q.Tag != "vip" {
		t.Errorf("Native filters not passed through: %+v", q)
	}
	if q.CreatedSince != "2024-02-01T00:00:00Z" {
		t.Errorf("Expected createdSince passthrough, got %q", q.CreatedSince)
	}
	if q.PageSize != 25 {
		t.Errorf("Expected pageSize 25, got %d", q.PageSize)
	}
	if result.Total != 3 {
		t.Errorf("Expected upstream total 3, got %d", result.Total)
	}
	if result.Filtered {
		t.Error("No before-bound given, result must not be marked filtered")
	}
}

func TestFetchStatus_ClientSideBeforeFilter(t *testing.T) {
	searcher := &fakeSearcher{
		page: &freescout.ConversationPage{
			Page: freescout.Page{TotalElements: 2},
			Conversations: []freescout.Conversation{
				conv(1, "active", "2024-03-10T10:00:00Z"),
				conv(2, "active", "2024-02-10T10:00:00Z"),
			},
		},
	}
	fetcher := NewClientFetcher(searcher)

	result, err := fetcher.FetchStatus(context.Background(), Request{
		CreatedBefore: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}, "active")
	if err != nil {
		t.Fatalf("FetchStatus returned error: %v", err)
	}

	if len(result.Conversations) != 1 {
		t.Fatalf("Expected 1 conversation after filtering, got %d", len(result.Conversations))
	}
	if result.Conversations[0].ID != 2 {
		t.Errorf("Expected the older conversation to survive, got id %d", result.Conversations[0].ID)
	}
	if !result.Filtered {
		t.Error("Expected the result to be marked as client-side filtered")
	}
	if result.Total != 2 {
		t.Errorf("Upstream total must stay pre-filter, got %d", result.Total)
	}
}
