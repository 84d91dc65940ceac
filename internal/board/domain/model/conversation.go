package model

// Conversation is a two-party message thread scoped to one item. The
// participant pair is an unordered set of exactly two user ids.
type Conversation struct {
	ID           string   `json:"id"`
	ItemID       string   `json:"itemId"`
	Participants []string `json:"participants"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}

// Store field names for the conversations collection.
const (
	ConversationFieldItemID       = "itemId"
	ConversationFieldParticipants = "participants"
	ConversationFieldCreatedAt    = "createdAt"
	ConversationFieldUpdatedAt    = "updatedAt"
)

// HasParticipant reports whether the given user is one of the two parties.
func (c Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the counterpart of the given user, or "" when the
// user is not a participant.
func (c Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// ConversationFromDocument decodes a store document into a Conversation.
func ConversationFromDocument(doc Document) Conversation {
	return Conversation{
		ID:           doc.ID,
		ItemID:       asString(doc.Data, ConversationFieldItemID),
		Participants: asStringSlice(doc.Data, ConversationFieldParticipants),
		CreatedAt:    asInt64(doc.Data, ConversationFieldCreatedAt),
		UpdatedAt:    asInt64(doc.Data, ConversationFieldUpdatedAt),
	}
}

// Fields encodes the conversation for persistence.
func (c Conversation) Fields() map[string]interface{} {
	return map[string]interface{}{
		ConversationFieldItemID:       c.ItemID,
		ConversationFieldParticipants: c.Participants,
		ConversationFieldCreatedAt:    c.CreatedAt,
		ConversationFieldUpdatedAt:    c.UpdatedAt,
	}
}
