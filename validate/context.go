// Package validate implements the call-sequence constraint checker: a
// rule engine that inspects a proposed tool call together with the
// session's call history and the user's wording, and either blocks the
// call or attaches advisory guidance.
package validate

// Canonical tool names. They live here because the rule engine keys on
// them; the registration layer reuses these constants so the two can
// never drift apart.
const (
	ToolSearchInboxes   = "search_inboxes"
	ToolListInboxes     = "list_inboxes"
	ToolSearchConvos    = "search_conversations"
	ToolKeywordSearch   = "search_conversations_by_keywords"
	ToolAdvancedSearch  = "advanced_search_conversations"
	ToolFilterConvos    = "filter_conversations"
	ToolConvoSummary    = "get_conversation_summary"
	ToolConvoThreads    = "get_conversation_threads"
	ToolCurrentTime     = "get_current_time"
)

// CallContext is the per-session state the rule engine evaluates
// against: the ordered history of successfully invoked tools and the
// most recent free-text user request. It is owned by one logical
// session and is not safe for concurrent use; the session layer
// serializes access.
type CallContext struct {
	history     []string
	userRequest string
}

func NewCallContext() *CallContext {
	return &CallContext{}
}

// RecordCall appends a tool name to the history. Only successful calls
// are recorded; a blocked call never happened as far as the rules are
// concerned.
func (c *CallContext) RecordCall(tool string) {
	c.history = append(c.history, tool)
}

// SetUserRequest replaces the remembered user wording. The latest
// request wins; requests are not accumulated.
func (c *CallContext) SetUserRequest(request string) {
	if request != "" {
		c.userRequest = request
	}
}

func (c *CallContext) UserRequest() string {
	return c.userRequest
}

// History returns a copy of the call history, oldest first.
func (c *CallContext) History() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// HasCalled reports whether any of the given tools appears in the
// history.
func (c *CallContext) HasCalled(tools ...string) bool {
	for _, called := range c.history {
		for _, tool := range tools {
			if called == tool {
				return true
			}
		}
	}
	return false
}
