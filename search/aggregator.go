package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/support-tools/freescout-mcp/freescout"
)

// Aggregated is the merged outcome of a status-partitioned search.
type Aggregated struct {
	// Conversations is the merged, deduplicated list, truncated to the
	// request's global limit. A multi-status merge is sorted by createdAt
	// descending; a single-status result keeps the upstream order.
	Conversations []freescout.Conversation

	// StatusesSearched are the requested statuses whose fetch
	// succeeded; failed statuses are dropped here but do not abort the
	// search.
	StatusesSearched []string

	// ByStatus holds the per-status results (deduplicated across
	// statuses, first-seen wins) in request order. Failed statuses are
	// absent.
	ByStatus []StatusResult

	// TotalAvailable sums the upstream-reported totals of the
	// succeeded statuses. It may overcount relative to the
	// deduplicated list and does not reflect client-side filtering.
	TotalAvailable int

	// Filtered reports that client-side time filtering reduced at
	// least one status's page.
	Filtered bool

	// Note carries a human-readable diagnostic when statuses failed,
	// duplicates were dropped, or client-side filtering applied.
	Note string
}

// Aggregator fans a search out across statuses and merges the results.
type Aggregator struct {
	fetcher Fetcher
}

func NewAggregator(fetcher Fetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

// Search runs the request. For a single explicit status exactly one
// fetch is issued; otherwise one fetch per status runs concurrently and
// the call waits for every branch to settle. A partial failure degrades
// the result; the returned error is non-nil only when every status
// failed, and even then the Aggregated value is well-formed and empty.
func (a *Aggregator) Search(ctx context.Context, req Request) (Aggregated, error) {
	statuses := req.Statuses
	if len(statuses) == 0 {
		statuses = DefaultStatuses
	}

	results := make([]StatusResult, len(statuses))
	errs := make([]error, len(statuses))

	if len(statuses) == 1 {
		results[0], errs[0] = a.fetcher.FetchStatus(ctx, req, statuses[0])
	} else {
		var wg sync.WaitGroup
		for i, status := range statuses {
			wg.Add(1)
			go func(i int, status string) {
				defer wg.Done()
				results[i], errs[i] = a.fetcher.FetchStatus(ctx, req, status)
			}(i, status)
		}
		wg.Wait()
	}

	return a.merge(req, statuses, results, errs)
}

func (a *Aggregator) merge(req Request, statuses []string, results []StatusResult, errs []error) (Aggregated, error) {
	// Conversations starts non-nil so an empty outcome serializes as an
	// empty list rather than null.
	out := Aggregated{Conversations: []freescout.Conversation{}}
	var failed []string
	var firstErr error

	seen := make(map[int64]string)
	conflicts := 0

	for i, status := range statuses {
		if errs[i] != nil {
			failed = append(failed, status)
			if firstErr == nil {
				firstErr = errs[i]
			}
			log.Warn().
				Err(errs[i]).
				Str("status", status).
				Msg("Status branch failed, continuing with remaining statuses")
			continue
		}

		result := results[i]
		deduped := result.Conversations[:0:0]
		for _, conversation := range result.Conversations {
			if firstStatus, dup := seen[conversation.ID]; dup {
				// Same id under two statuses is an upstream data
				// inconsistency; keep the first-seen occurrence and
				// report the conflict rather than resolving it.
				if firstStatus != conversation.Status {
					conflicts++
				}
				continue
			}
			seen[conversation.ID] = conversation.Status
			deduped = append(deduped, conversation)
			out.Conversations = append(out.Conversations, conversation)
		}
		result.Conversations = deduped

		out.StatusesSearched = append(out.StatusesSearched, status)
		out.ByStatus = append(out.ByStatus, result)
		out.TotalAvailable += result.Total
		if result.Filtered {
			out.Filtered = true
		}
	}

	// A single-status result keeps the upstream page order, which already
	// honors the request's sort parameters. Only a merged multi-status
	// list has no upstream order and falls back to createdAt descending.
	if len(statuses) > 1 {
		sort.SliceStable(out.Conversations, func(i, j int) bool {
			return out.Conversations[i].CreatedTime().After(out.Conversations[j].CreatedTime())
		})
	}

	if req.GlobalLimit > 0 && len(out.Conversations) > req.GlobalLimit {
		out.Conversations = out.Conversations[:req.GlobalLimit]
	}

	out.Note = buildNote(failed, conflicts, out.Filtered)

	if len(out.StatusesSearched) == 0 && firstErr != nil {
		return out, firstErr
	}
	return out, nil
}

func buildNote(failed []string, conflicts int, filtered bool) string {
	var parts []string
	if len(failed) > 0 {
		parts = append(parts, "search failed for statuses: "+strings.Join(failed, ", "))
	}
	if conflicts > 0 {
		parts = append(parts, fmt.Sprintf("%d conversation(s) were reported under more than one status; the first occurrence was kept", conflicts))
	}
	if filtered {
		parts = append(parts, "results were filtered client-side by the createdBefore bound; reported totals do not reflect this")
	}
	return strings.Join(parts, "; ")
}
