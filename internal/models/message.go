package models

// MessageSender identifies which party authored a chat message.
type MessageSender string

const (
	SenderStudent MessageSender = "student"
	SenderAgency  MessageSender = "agency"
	SenderCompany MessageSender = "company"
)

// MessageThread is a conversation with a company or the agency advisor.
type MessageThread struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	LastMessage string `json:"lastMessage"`
	UnreadCount int    `json:"unreadCount"`
	UpdatedAt   string `json:"updatedAt"`
}

// ChatMessage is a single message inside a thread.
type ChatMessage struct {
	ID        string        `json:"id"`
	ThreadID  string        `json:"threadId"`
	Sender    MessageSender `json:"sender"`
	Content   string        `json:"content"`
	CreatedAt string        `json:"createdAt"`
}

// ThreadsQuery paginates the thread list.
type ThreadsQuery struct {
	Page     int
	PageSize int
}

// SendMessagePayload posts a new message into a thread.
type SendMessagePayload struct {
	Content string `json:"content" validate:"required"`
}
