package freescout

import "time"

// Conversation statuses recognized by the FreeScout API.
const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusClosed  = "closed"
	StatusSpam    = "spam"
)

// Person is a customer or staff user reference embedded in conversations
// and threads.
type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Conversation is a helpdesk conversation as returned by the upstream API.
// The integer ID is stable across statuses; Number is the human-facing
// sequence number shown in the FreeScout UI.
type Conversation struct {
	ID           int64    `json:"id"`
	Number       int64    `json:"number"`
	Subject      string   `json:"subject"`
	Status       string   `json:"status"`
	State        string   `json:"state,omitempty"`
	MailboxID    int64    `json:"mailboxId"`
	FolderID     int64    `json:"folderId,omitempty"`
	Preview      string   `json:"preview,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
	ThreadsCount int      `json:"threadsCount,omitempty"`
	Customer     *Person  `json:"customer,omitempty"`
	Assignee     *Person  `json:"assignee,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	Embedded *ConversationEmbedded `json:"_embedded,omitempty"`
}

// ConversationEmbedded carries threads when the conversation is fetched
// with embed=threads.
type ConversationEmbedded struct {
	Threads []Thread `json:"threads,omitempty"`
}

// CreatedTime parses the conversation's creation timestamp. Unparseable
// timestamps sort as the zero time rather than failing the whole merge.
func (c Conversation) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, c.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Thread is a single message, note, or reply inside a conversation.
type Thread struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"` // "customer", "message", "note", "lineitem"
	Status    string  `json:"status,omitempty"`
	State     string  `json:"state,omitempty"`
	Body      string  `json:"body,omitempty"`
	CreatedAt string  `json:"createdAt"`
	CreatedBy *Person `json:"createdBy,omitempty"`
	Customer  *Person `json:"customer,omitempty"`
}

// Mailbox is an inbox in FreeScout terms.
type Mailbox struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Page is the HAL pagination block the API attaches to collection
// responses.
type Page struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// ConversationPage is one page of conversation search results.
type ConversationPage struct {
	Conversations []Conversation
	Page          Page
}

type conversationsEnvelope struct {
	Embedded struct {
		Conversations []Conversation `json:"conversations"`
	} `json:"_embedded"`
	Page Page `json:"page"`
}

type mailboxesEnvelope struct {
	Embedded struct {
		Mailboxes []Mailbox `json:"mailboxes"`
	} `json:"_embedded"`
	Page Page `json:"page"`
}

type threadsEnvelope struct {
	Embedded struct {
		Threads []Thread `json:"threads"`
	} `json:"_embedded"`
	Page Page `json:"page"`
}
