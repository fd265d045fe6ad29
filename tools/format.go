package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/search"
	"github.com/support-tools/freescout-mcp/validate"
)

// Inbox scope labels reported in searchInfo.
const (
	scopeAll      = "ALL inboxes"
	scopeDefault  = "Default inbox: %s"
	scopeSpecific = "Specific inbox: %s"
)

// inboxScope resolves the effective inbox filter by precedence:
// explicit per-call id, then the configured default, then none.
// Returns the descriptive label and the id to filter by (empty for no
// scoping).
func (h *Handler) inboxScope(explicit string) (string, string) {
	if explicit != "" {
		return fmt.Sprintf(scopeSpecific, explicit), explicit
	}
	if h.cfg.DefaultInboxID != "" {
		return fmt.Sprintf(scopeDefault, h.cfg.DefaultInboxID), h.cfg.DefaultInboxID
	}
	return scopeAll, ""
}

// searchInfo is the diagnostic block attached to search responses.
// Conditional fields are omitted when not relevant.
type searchInfo struct {
	StatusesSearched    []string `json:"statusesSearched"`
	InboxScope          string   `json:"inboxScope"`
	ClientSideFiltering string   `json:"clientSideFiltering,omitempty"`
	Note                string   `json:"note,omitempty"`
	SearchGuidance      []string `json:"searchGuidance,omitempty"`
}

func buildSearchInfo(scope string, agg search.Aggregated, suggestions []string) searchInfo {
	info := searchInfo{
		StatusesSearched: agg.StatusesSearched,
		InboxScope:       scope,
		Note:             agg.Note,
	}
	if agg.Filtered {
		info.ClientSideFiltering = "some results were removed by the createdBefore filter after fetching; upstream totals do not reflect this"
	}

	guidance := append([]string{}, suggestions...)
	if len(agg.Conversations) == 0 {
		guidance = append(guidance, validate.AfterSearch(0)...)
	}
	info.SearchGuidance = guidance
	if len(info.SearchGuidance) == 0 {
		info.SearchGuidance = nil
	}
	return info
}

// pagination is the translated upstream page block. Merged multi-status
// results have no real cursor, so search responses carry nil instead of
// inventing one.
type pagination struct {
	Page         int `json:"page"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
}

func paginationFromPage(p freescout.Page) *pagination {
	page := p.Number
	if page == 0 {
		page = 1
	}
	totalPages := p.TotalPages
	if totalPages == 0 && p.TotalElements > 0 && p.Size > 0 {
		totalPages = (p.TotalElements + p.Size - 1) / p.Size
	}
	return &pagination{
		Page:         page,
		TotalPages:   totalPages,
		TotalResults: p.TotalElements,
	}
}

func singleStatusPagination(total, limit int) *pagination {
	if limit <= 0 {
		limit = 1
	}
	return &pagination{
		Page:         1,
		TotalPages:   (total + limit - 1) / limit,
		TotalResults: total,
	}
}

// projectFields reduces conversation objects to the requested fields.
// The id is always kept so results stay addressable. An empty field
// list means no projection.
func projectFields(conversations []freescout.Conversation, fields []string) any {
	if len(fields) == 0 {
		return conversations
	}

	wanted := make(map[string]bool, len(fields)+1)
	wanted["id"] = true
	for _, field := range fields {
		wanted[field] = true
	}

	projected := make([]map[string]any, 0, len(conversations))
	for _, conversation := range conversations {
		raw, err := json.Marshal(conversation)
		if err != nil {
			continue
		}
		var full map[string]any
		if err := json.Unmarshal(raw, &full); err != nil {
			continue
		}
		entry := make(map[string]any, len(wanted))
		for key, value := range full {
			if wanted[key] {
				entry[key] = value
			}
		}
		projected = append(projected, entry)
	}
	return projected
}

// jsonResult wraps a payload in the tool-response envelope: one text
// content block holding serialized JSON.
func jsonResult(payload any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize tool response")
		return errorText("internal error: response not serializable")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func errorResult(payload any) *mcp.CallToolResult {
	result := jsonResult(payload)
	result.IsError = true
	return result
}

func errorText(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}

// validationFailure is the structured envelope returned instead of
// invoking the tool body when the call-sequence validator blocks a
// call.
func validationFailure(result validate.Result) *mcp.CallToolResult {
	return errorResult(map[string]any{
		"error": "API Constraint Validation Failed",
		"details": map[string]any{
			"errors":                result.Errors,
			"suggestions":           result.Suggestions,
			"requiredPrerequisites": result.RequiredPrerequisites,
		},
	})
}

// upstreamFailure converts an upstream error into an error envelope
// with actionable remediation, keyed off the error classification.
func upstreamFailure(err error) *mcp.CallToolResult {
	payload := map[string]any{
		"error":   "FreeScout API request failed",
		"message": err.Error(),
	}

	var apiErr *freescout.APIError
	if errors.As(err, &apiErr) {
		payload["kind"] = apiErr.Kind.String()
		switch apiErr.Kind {
		case freescout.KindAuth:
			payload["remediation"] = "check FREESCOUT_API_KEY and the API permissions of the key"
		case freescout.KindNotFound:
			payload["remediation"] = "the resource does not exist; verify the id with a lookup tool first"
		case freescout.KindRateLimit:
			payload["remediation"] = "the upstream rate limit was hit; retry after a short pause"
		case freescout.KindServer:
			payload["remediation"] = "upstream server error; retry later or narrow the search"
		}
	}
	return errorResult(payload)
}

func argumentFailure(message string) *mcp.CallToolResult {
	return errorResult(map[string]any{
		"error":   "Invalid arguments",
		"message": message,
	})
}
