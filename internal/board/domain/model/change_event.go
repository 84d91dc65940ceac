package model

import "time"

// ChangeType defines the type of document change event.
type ChangeType string

const (
	// ChangeTypeCreated signifies a new document was created.
	ChangeTypeCreated ChangeType = "created"
	// ChangeTypeUpdated signifies an existing document was updated.
	ChangeTypeUpdated ChangeType = "updated"
	// ChangeTypeDeleted signifies a document was deleted.
	ChangeTypeDeleted ChangeType = "deleted"
)

// ChangeEvent represents one document change flowing from a write usecase to
// the realtime hub and the change journal. For deleted documents Data holds
// whatever was known at deletion time, possibly nil.
type ChangeEvent struct {
	Type       ChangeType             `json:"type"`
	Collection string                 `json:"collection"`
	DocumentID string                 `json:"documentId"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Collection names the core reads and writes.
const (
	CollectionItems         = "items"
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionUsers         = "users"
)
