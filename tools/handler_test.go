package tools

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/support-tools/freescout-mcp/cache"
	"github.com/support-tools/freescout-mcp/config"
	"github.com/support-tools/freescout-mcp/freescout"
)

// fakeUpstream is an in-memory stand-in for the FreeScout client.
type fakeUpstream struct {
	mu            sync.Mutex
	searchCalls   []freescout.ConversationQuery
	pagesByStatus map[string]*freescout.ConversationPage
	searchErrs    map[string]error
	mailboxes     []freescout.Mailbox
	conversation  *freescout.Conversation
	threads       []freescout.Thread
}

func (f *fakeUpstream) SearchConversations(ctx context.Context, q freescout.ConversationQuery) (*freescout.ConversationPage, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, q)
	f.mu.Unlock()

	if err, ok := f.searchErrs[q.Status]; ok {
		return nil, err
	}
	if page, ok := f.pagesByStatus[q.Status]; ok {
		return page, nil
	}
	return &freescout.ConversationPage{}, nil
}

func (f *fakeUpstream) ListMailboxes(ctx context.Context) ([]freescout.Mailbox, error) {
	return f.mailboxes, nil
}

func (f *fakeUpstream) GetConversation(ctx context.Context, id int64, embedThreads bool) (*freescout.Conversation, error) {
	if f.conversation == nil {
		return nil, &freescout.APIError{StatusCode: 404, Kind: freescout.KindNotFound}
	}
	return f.conversation, nil
}

func (f *fakeUpstream) ListThreads(ctx context.Context, conversationID int64) ([]freescout.Thread, error) {
	return f.threads, nil
}

func (f *fakeUpstream) searchCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchCalls)
}

func newTestHandler(upstream *fakeUpstream, cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	handler := NewHandler(upstream, cache.New("", "", 0, 0, 0), cfg)
	handler.now = func() time.Time {
		return time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	}
	return handler
}

func page(status string, conversations ...freescout.Conversation) *freescout.ConversationPage {
	return &freescout.ConversationPage{
		Conversations: conversations,
		Page: freescout.Page{
			Size:          25,
			TotalElements: len(conversations),
			TotalPages:    1,
			Number:        1,
		},
	}
}

func conv(id int64, status, createdAt string) freescout.Conversation {
	return freescout.Conversation{
		ID:        id,
		Number:    100 + id,
		Subject:   "subject",
		Status:    status,
		MailboxID: 1,
		CreatedAt: createdAt,
	}
}

// rawText returns the serialized JSON payload of a tool result.
func rawText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected a content block in the tool result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

// decode unmarshals the JSON text payload of a tool result.
func decode(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	raw := rawText(t, result)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		t.Fatalf("Tool payload is not valid JSON: %v\n%s", err, raw)
	}
}
