package tools

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/validate"
)

type ConversationSummaryInput struct {
	ConversationID string `json:"conversationId" jsonschema:"numeric conversation id"`
	UserRequest    string `json:"userRequest,omitempty" jsonschema:"the end user's original wording, used for call-ordering checks and guidance"`
}

type ConversationThreadsInput struct {
	ConversationID string `json:"conversationId" jsonschema:"numeric conversation id"`
	Limit          int    `json:"limit,omitempty" jsonschema:"maximum threads to return, 1-200, default 200"`
	UserRequest    string `json:"userRequest,omitempty" jsonschema:"the end user's original wording, used for call-ordering checks and guidance"`
}

// threadView is a thread with its body passed through redaction.
type threadView struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	Body      string            `json:"body,omitempty"`
	CreatedAt string            `json:"createdAt"`
	CreatedBy *freescout.Person `json:"createdBy,omitempty"`
	Customer  *freescout.Person `json:"customer,omitempty"`
}

type conversationMeta struct {
	ID           int64             `json:"id"`
	Number       int64             `json:"number"`
	Subject      string            `json:"subject"`
	Status       string            `json:"status"`
	MailboxID    int64             `json:"mailboxId"`
	CreatedAt    string            `json:"createdAt"`
	UpdatedAt    string            `json:"updatedAt,omitempty"`
	ThreadsCount int               `json:"threadsCount,omitempty"`
	Customer     *freescout.Person `json:"customer,omitempty"`
	Assignee     *freescout.Person `json:"assignee,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
}

type conversationSummaryOutput struct {
	Conversation         conversationMeta `json:"conversation"`
	FirstCustomerMessage *threadView      `json:"firstCustomerMessage"`
	LatestStaffReply     *threadView      `json:"latestStaffReply"`
}

type conversationThreadsOutput struct {
	ConversationID int64        `json:"conversationId"`
	Threads        []threadView `json:"threads"`
	Pagination     *pagination  `json:"pagination"`
}

// GetConversationSummary returns conversation metadata plus the first
// customer message and the latest staff reply, bodies redacted unless
// the PII toggle allows them.
func (h *Handler) GetConversationSummary(ctx context.Context, req *mcp.CallToolRequest, in ConversationSummaryInput) (*mcp.CallToolResult, any, error) {
	sessionCtx, _, blocked := h.gate(req.Session, in.UserRequest, validate.ProposedCall{
		Tool:           validate.ToolConvoSummary,
		ConversationID: in.ConversationID,
	})
	if blocked != nil {
		return blocked, nil, nil
	}
	if in.ConversationID == "" {
		return argumentFailure("conversationId is required"), nil, nil
	}
	id, _ := strconv.ParseInt(in.ConversationID, 10, 64)

	conversation, err := h.upstream.GetConversation(ctx, id, true)
	if err != nil {
		return upstreamFailure(err), nil, nil
	}

	var threads []freescout.Thread
	if conversation.Embedded != nil {
		threads = conversation.Embedded.Threads
	}

	h.recordCall(sessionCtx, validate.ToolConvoSummary)
	return jsonResult(conversationSummaryOutput{
		Conversation: conversationMeta{
			ID:           conversation.ID,
			Number:       conversation.Number,
			Subject:      conversation.Subject,
			Status:       conversation.Status,
			MailboxID:    conversation.MailboxID,
			CreatedAt:    conversation.CreatedAt,
			UpdatedAt:    conversation.UpdatedAt,
			ThreadsCount: conversation.ThreadsCount,
			Customer:     conversation.Customer,
			Assignee:     conversation.Assignee,
			Tags:         conversation.Tags,
		},
		FirstCustomerMessage: h.firstOfType(threads, "customer"),
		LatestStaffReply:     h.latestOfType(threads, "message"),
	}), nil, nil
}

// GetConversationThreads returns the full message history of a
// conversation with redacted bodies.
func (h *Handler) GetConversationThreads(ctx context.Context, req *mcp.CallToolRequest, in ConversationThreadsInput) (*mcp.CallToolResult, any, error) {
	sessionCtx, _, blocked := h.gate(req.Session, in.UserRequest, validate.ProposedCall{
		Tool:           validate.ToolConvoThreads,
		ConversationID: in.ConversationID,
	})
	if blocked != nil {
		return blocked, nil, nil
	}
	if in.ConversationID == "" {
		return argumentFailure("conversationId is required"), nil, nil
	}
	id, _ := strconv.ParseInt(in.ConversationID, 10, 64)

	threads, err := h.upstream.ListThreads(ctx, id)
	if err != nil {
		return upstreamFailure(err), nil, nil
	}

	total := len(threads)
	if limit := clamp(in.Limit, 1, 200, 200); len(threads) > limit {
		threads = threads[:limit]
	}

	views := make([]threadView, 0, len(threads))
	for _, thread := range threads {
		views = append(views, h.threadView(thread))
	}

	h.recordCall(sessionCtx, validate.ToolConvoThreads)
	return jsonResult(conversationThreadsOutput{
		ConversationID: id,
		Threads:        views,
		Pagination:     &pagination{Page: 1, TotalPages: 1, TotalResults: total},
	}), nil, nil
}

func (h *Handler) threadView(thread freescout.Thread) threadView {
	return threadView{
		ID:        thread.ID,
		Type:      thread.Type,
		Body:      h.redactBody(thread.Body),
		CreatedAt: thread.CreatedAt,
		CreatedBy: thread.CreatedBy,
		Customer:  thread.Customer,
	}
}

// firstOfType picks the chronologically earliest thread of the given
// type; the API does not guarantee thread order, so it compares
// timestamps rather than trusting positions.
func (h *Handler) firstOfType(threads []freescout.Thread, threadType string) *threadView {
	var best *freescout.Thread
	for i := range threads {
		thread := &threads[i]
		if thread.Type != threadType {
			continue
		}
		if best == nil || thread.CreatedAt < best.CreatedAt {
			best = thread
		}
	}
	if best == nil {
		return nil
	}
	view := h.threadView(*best)
	return &view
}

func (h *Handler) latestOfType(threads []freescout.Thread, threadType string) *threadView {
	var best *freescout.Thread
	for i := range threads {
		thread := &threads[i]
		if thread.Type != threadType {
			continue
		}
		if best == nil || thread.CreatedAt > best.CreatedAt {
			best = thread
		}
	}
	if best == nil {
		return nil
	}
	view := h.threadView(*best)
	return &view
}
