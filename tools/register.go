package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/validate"
)

// Register wires every tool into the MCP server. Input schemas are
// inferred from the typed input structs.
func (h *Handler) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolSearchInboxes,
		Description: "Find helpdesk inboxes by name or email. Call this first whenever the user refers to an inbox by name.",
	}, h.SearchInboxes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolListInboxes,
		Description: "List every helpdesk inbox visible to the configured API key.",
	}, h.ListInboxes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolSearchConvos,
		Description: "Search conversations by metadata filters and an optional FreeScout query expression. Omitting status searches active, pending and closed in parallel.",
	}, h.SearchConversations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolKeywordSearch,
		Description: "Search conversation content for keywords across statuses. Best tool for 'find conversations about X'.",
	}, h.SearchConversationsByKeywords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolAdvancedSearch,
		Description: "Structured content search combining body terms, subject terms, customer email, email domain and tags.",
	}, h.AdvancedSearchConversations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolFilterConvos,
		Description: "Filter conversations by structural attributes: assignee, folder, customer ids, conversation number, modification time.",
	}, h.FilterConversations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolConvoSummary,
		Description: "Fetch a conversation's metadata together with the first customer message and the latest staff reply.",
	}, h.GetConversationSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolConvoThreads,
		Description: "Fetch the full message history (threads) of a conversation.",
	}, h.GetConversationThreads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        validate.ToolCurrentTime,
		Description: "Current server time as ISO 8601 and unix seconds. No upstream call.",
	}, h.GetCurrentTime)
}
