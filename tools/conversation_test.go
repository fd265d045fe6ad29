package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/freescout"
)

func thread(id int64, threadType, createdAt, body string) freescout.Thread {
	return freescout.Thread{
		ID:        id,
		Type:      threadType,
		Body:      body,
		CreatedAt: createdAt,
	}
}

func TestGetConversationSummary_PicksBoundaryThreads(t *testing.T) {
	upstream := &fakeUpstream{
		conversation: &freescout.Conversation{
			ID:      12,
			Number:  112,
			Subject: "Refund request",
			Status:  "active",
			Embedded: &freescout.ConversationEmbedded{
				Threads: []freescout.Thread{
					// Deliberately out of chronological order.
					thread(3, "message", "2024-03-02T10:00:00Z", "We are looking into it."),
					thread(1, "customer", "2024-03-01T09:00:00Z", "I want a refund."),
					thread(4, "message", "2024-03-03T10:00:00Z", "Refund issued."),
					thread(2, "customer", "2024-03-02T09:00:00Z", "Any update?"),
					thread(5, "note", "2024-03-04T10:00:00Z", "internal note"),
				},
			},
		},
	}
	handler := newTestHandler(upstream, nil)

	result, _, err := handler.GetConversationSummary(context.Background(), &mcp.CallToolRequest{}, ConversationSummaryInput{
		ConversationID: "12",
	})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatal("Expected success envelope")
	}

	var out conversationSummaryOutput
	decode(t, result, &out)

	if out.FirstCustomerMessage == nil || out.FirstCustomerMessage.ID != 1 {
		t.Errorf("Expected the earliest customer thread (id 1), got %+v", out.FirstCustomerMessage)
	}
	if out.LatestStaffReply == nil || out.LatestStaffReply.ID != 4 {
		t.Errorf("Expected the latest staff reply (id 4), got %+v", out.LatestStaffReply)
	}
	if out.Conversation.Subject != "Refund request" {
		t.Errorf("Expected conversation metadata, got %+v", out.Conversation)
	}
}

func TestGetConversationSummary_NotFound(t *testing.T) {
	handler := newTestHandler(&fakeUpstream{}, nil)

	result, _, err := handler.GetConversationSummary(context.Background(), &mcp.CallToolRequest{}, ConversationSummaryInput{
		ConversationID: "999",
	})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected an error envelope for a missing conversation")
	}

	var payload struct {
		Kind        string `json:"kind"`
		Remediation string `json:"remediation"`
	}
	decode(t, result, &payload)
	if payload.Kind != "not_found" {
		t.Errorf("Expected not_found classification, got %q", payload.Kind)
	}
	if payload.Remediation == "" {
		t.Error("Expected a remediation hint for a missing conversation")
	}
}

func TestGetConversationSummary_IDRequired(t *testing.T) {
	handler := newTestHandler(&fakeUpstream{}, nil)

	result, _, err := handler.GetConversationSummary(context.Background(), &mcp.CallToolRequest{}, ConversationSummaryInput{})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected an error envelope for a missing conversationId")
	}
}

func TestGetConversationThreads_RedactsAndLimits(t *testing.T) {
	upstream := &fakeUpstream{
		threads: []freescout.Thread{
			thread(1, "customer", "2024-03-01T09:00:00Z", "Reach me at jane@example.com or +1 555 123 4567."),
			thread(2, "message", "2024-03-01T10:00:00Z", "Will do."),
			thread(3, "note", "2024-03-01T11:00:00Z", "internal"),
		},
	}
	handler := newTestHandler(upstream, nil)

	result, _, err := handler.GetConversationThreads(context.Background(), &mcp.CallToolRequest{}, ConversationThreadsInput{
		ConversationID: "12",
		Limit:          2,
	})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	var out conversationThreadsOutput
	decode(t, result, &out)

	if len(out.Threads) != 2 {
		t.Fatalf("Expected limit applied, got %d threads", len(out.Threads))
	}
	if out.Pagination == nil || out.Pagination.TotalResults != 3 {
		t.Errorf("Expected pagination to report the pre-limit total, got %+v", out.Pagination)
	}
	body := out.Threads[0].Body
	if strings.Contains(body, "jane@example.com") {
		t.Errorf("Email leaked through redaction: %q", body)
	}
	if !strings.Contains(body, "[EMAIL]") || !strings.Contains(body, "[PHONE]") {
		t.Errorf("Expected redaction placeholders, got %q", body)
	}
}
