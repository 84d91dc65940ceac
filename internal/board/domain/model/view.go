package model

// Placeholder values used when a referenced user or item cannot be resolved.
// Absence is not an error during view resolution.
const (
	PlaceholderUserName  = "User"
	PlaceholderItemTitle = "Item"
)

// ConversationView is the denormalized, consumer-facing projection of a
// conversation. It is derived, never persisted, and replaced wholesale on
// every change-stream tick.
type ConversationView struct {
	Conversation  Conversation `json:"conversation"`
	OtherUserName string       `json:"otherUserName"`
	ItemTitle     string       `json:"itemTitle"`
	LastMessage   *Message     `json:"lastMessage,omitempty"`
	Unread        bool         `json:"unread"`
}
