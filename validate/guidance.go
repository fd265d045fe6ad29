package validate

import "fmt"

// Post-call guidance: advisory follow-up text derived from the result
// of a call that already succeeded. This is a separate step from
// validation and never blocks anything.

// AfterInboxLookup suggests the next call once inboxes were found,
// including a literal example using the first returned id.
func AfterInboxLookup(matches int, firstID int64) []string {
	if matches == 0 {
		return []string{
			"No inboxes matched; try a shorter query or call " + ToolListInboxes + " to see every inbox",
		}
	}
	return []string{
		fmt.Sprintf("Found %d inbox(es); pass the id of the right one to the search tools", matches),
		fmt.Sprintf(`Example: %s with {"inboxId": "%d", "searchTerms": ["billing"]}`, ToolKeywordSearch, firstID),
	}
}

// AfterSearch produces follow-up advice for a content or metadata
// search result.
func AfterSearch(found int) []string {
	if found == 0 {
		return []string{
			"No conversations matched; broaden the search terms, extend the timeframe, or drop the inbox filter",
		}
	}
	return []string{
		fmt.Sprintf("%d conversation(s) found; use %s for a quick overview or %s for the full message history", found, ToolConvoSummary, ToolConvoThreads),
	}
}
