package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// inboxCues are the words in a user request that suggest the user is
// talking about a specific inbox.
var inboxCues = []string{
	"inbox",
	"mailbox",
	"mail box",
	"queue",
	"department",
	"support box",
}

var (
	numericID      = regexp.MustCompile(`^\d+$`)
	conversationID = regexp.MustCompile(`^\d{1,10}$`)
)

// ProposedCall is the rule engine's view of a tool invocation, reduced
// to the fields the rules inspect.
type ProposedCall struct {
	Tool           string
	InboxID        string
	ConversationID string
	SearchTerms    []string
	HasStatus      bool
	HasQuery       bool
}

// Result is the outcome of validating one proposed call. Errors block
// the call; Suggestions are advisory and attached to output either way.
type Result struct {
	Valid                 bool
	Errors                []string
	Suggestions           []string
	RequiredPrerequisites []string
}

// Check evaluates every rule against the proposed call and the session
// context. It never mutates the context: recording the call into
// history is the caller's job, and only after the call succeeds.
func Check(call ProposedCall, ctx *CallContext) Result {
	result := Result{Valid: true}

	checkInboxMention(call, ctx, &result)
	checkInboxIDFormat(call, &result)
	checkConversationIDFormat(call, &result)
	checkKeywordTerms(call, &result)
	suggestKeywordSearch(call, &result)

	result.Valid = len(result.Errors) == 0
	return result
}

// checkInboxMention blocks a search that the user phrased around a
// named inbox when no inbox id was supplied and no inbox lookup has
// happened yet in this session.
func checkInboxMention(call ProposedCall, ctx *CallContext, result *Result) {
	if call.InboxID != "" || !isSearchTool(call.Tool) {
		return
	}
	request := strings.ToLower(ctx.UserRequest())
	if request == "" || !containsAny(request, inboxCues) {
		return
	}
	if ctx.HasCalled(ToolSearchInboxes, ToolListInboxes) {
		return
	}

	result.Errors = append(result.Errors,
		"the user request mentions a specific inbox, but no inboxId was provided and no inbox lookup has been performed")
	result.RequiredPrerequisites = append(result.RequiredPrerequisites, ToolSearchInboxes)
	result.Suggestions = append(result.Suggestions,
		fmt.Sprintf("Call %s first to resolve the inbox name to an id, then retry with inboxId set", ToolSearchInboxes))
}

func checkInboxIDFormat(call ProposedCall, result *Result) {
	if call.InboxID == "" {
		return
	}
	if !numericID.MatchString(call.InboxID) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("inboxId %q is not a numeric id; use the id returned by %s", call.InboxID, ToolSearchInboxes))
	}
}

func checkConversationIDFormat(call ProposedCall, result *Result) {
	if call.ConversationID == "" {
		return
	}
	if !conversationID.MatchString(call.ConversationID) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("conversationId %q is not a valid conversation id (numeric, at most 10 digits)", call.ConversationID))
	}
}

func checkKeywordTerms(call ProposedCall, result *Result) {
	if call.Tool != ToolKeywordSearch {
		return
	}
	for _, term := range call.SearchTerms {
		if strings.TrimSpace(term) != "" {
			return
		}
	}
	result.Errors = append(result.Errors,
		"searchTerms is required and must contain at least one non-empty term")
}

// suggestKeywordSearch attaches a non-blocking hint when a metadata
// listing without status or content filter probably means the user
// wanted a content search.
func suggestKeywordSearch(call ProposedCall, result *Result) {
	if call.Tool != ToolSearchConvos || call.HasStatus || call.HasQuery {
		return
	}
	result.Suggestions = append(result.Suggestions,
		fmt.Sprintf("No status or query filter was given; if you are looking for conversations about a topic, %s searches message content across statuses", ToolKeywordSearch))
}

func isSearchTool(tool string) bool {
	switch tool {
	case ToolSearchConvos, ToolKeywordSearch, ToolAdvancedSearch, ToolFilterConvos:
		return true
	default:
		return false
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
