package model

// Message is one chat message inside a conversation. Read starts false and
// only ever flips to true; it is never reset.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName"`
	Text           string `json:"text"`
	Timestamp      int64  `json:"timestamp"` // epoch millis
	Read           bool   `json:"read"`
}

// Store field names for the messages collection.
const (
	MessageFieldConversationID = "conversationId"
	MessageFieldSenderID       = "senderId"
	MessageFieldSenderName     = "senderName"
	MessageFieldText           = "text"
	MessageFieldTimestamp      = "timestamp"
	MessageFieldRead           = "read"
)

// MessageFromDocument decodes a store document into a Message.
func MessageFromDocument(doc Document) Message {
	return Message{
		ID:             doc.ID,
		ConversationID: asString(doc.Data, MessageFieldConversationID),
		SenderID:       asString(doc.Data, MessageFieldSenderID),
		SenderName:     asString(doc.Data, MessageFieldSenderName),
		Text:           asString(doc.Data, MessageFieldText),
		Timestamp:      asInt64(doc.Data, MessageFieldTimestamp),
		Read:           asBool(doc.Data, MessageFieldRead),
	}
}

// Fields encodes the message for persistence.
func (m Message) Fields() map[string]interface{} {
	return map[string]interface{}{
		MessageFieldConversationID: m.ConversationID,
		MessageFieldSenderID:       m.SenderID,
		MessageFieldSenderName:     m.SenderName,
		MessageFieldText:           m.Text,
		MessageFieldTimestamp:      m.Timestamp,
		MessageFieldRead:           m.Read,
	}
}
