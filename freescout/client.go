package freescout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client talks to the FreeScout REST API. It issues single requests with
// no retry; timeouts come from the injected http.Client.
type Client struct {
	baseURL string
	apiKey  string
	http    http.Client
}

func NewClient(baseURL, apiKey string, httpClient http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// ConversationQuery holds the native filters the conversations endpoint
// understands. Zero values are omitted from the request.
type ConversationQuery struct {
	// Query is a FreeScout search expression (e.g. `body:"refund"`).
	Query string

	Status        string
	MailboxID     string
	FolderID      string
	Tag           string
	AssignedTo    string
	CustomerIDs   []string
	Number        int64
	CreatedSince  string
	UpdatedSince  string
	SortField     string // createdAt, updatedAt, number
	SortOrder     string // asc, desc
	PageSize      int
	Page          int
	EmbedThreads  bool
}

func (q ConversationQuery) values() url.Values {
	v := url.Values{}
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.MailboxID != "" {
		v.Set("mailboxId", q.MailboxID)
	}
	if q.FolderID != "" {
		v.Set("folderId", q.FolderID)
	}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.AssignedTo != "" {
		v.Set("assignedTo", q.AssignedTo)
	}
	if len(q.CustomerIDs) > 0 {
		v.Set("customerIds", strings.Join(q.CustomerIDs, ","))
	}
	if q.Number > 0 {
		v.Set("number", strconv.FormatInt(q.Number, 10))
	}
	if q.CreatedSince != "" {
		v.Set("createdSince", q.CreatedSince)
	}
	if q.UpdatedSince != "" {
		v.Set("updatedSince", q.UpdatedSince)
	}
	if q.SortField != "" {
		v.Set("sortField", q.SortField)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.EmbedThreads {
		v.Set("embed", "threads")
	}
	return v
}

// SearchConversations issues one GET /api/conversations request.
func (c *Client) SearchConversations(ctx context.Context, q ConversationQuery) (*ConversationPage, error) {
	var envelope conversationsEnvelope
	if err := c.get(ctx, "/api/conversations", q.values(), &envelope); err != nil {
		return nil, err
	}
	return &ConversationPage{
		Conversations: envelope.Embedded.Conversations,
		Page:          envelope.Page,
	}, nil
}

// GetConversation fetches a single conversation, optionally with its
// threads embedded.
func (c *Client) GetConversation(ctx context.Context, id int64, embedThreads bool) (*Conversation, error) {
	v := url.Values{}
	if embedThreads {
		v.Set("embed", "threads")
	}
	var conversation Conversation
	path := fmt.Sprintf("/api/conversations/%d", id)
	if err := c.get(ctx, path, v, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListThreads fetches the threads of a conversation.
func (c *Client) ListThreads(ctx context.Context, conversationID int64) ([]Thread, error) {
	var envelope threadsEnvelope
	path := fmt.Sprintf("/api/conversations/%d/threads", conversationID)
	if err := c.get(ctx, path, url.Values{}, &envelope); err != nil {
		return nil, err
	}
	return envelope.Embedded.Threads, nil
}

// ListMailboxes fetches every mailbox visible to the API key.
func (c *Client) ListMailboxes(ctx context.Context) ([]Mailbox, error) {
	var envelope mailboxesEnvelope
	if err := c.get(ctx, "/api/mailboxes", url.Values{}, &envelope); err != nil {
		return nil, err
	}
	return envelope.Embedded.Mailboxes, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	requestURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-FreeScout-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Kind:       classify(resp.StatusCode),
			Message:    readErrorMessage(resp.Body),
		}
		log.Warn().
			Str("path", path).
			Int("status_code", resp.StatusCode).
			Str("kind", apiErr.Kind.String()).
			Msg("FreeScout API request failed")
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// readErrorMessage pulls a human-readable message out of an error body.
// FreeScout returns {"message": "..."} for most failures; anything else
// is passed through truncated.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
