package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "lostfound-board context key " + string(c)
}

// UserIDKey is the key for the authenticated user's ID in context.Context.
const UserIDKey = contextKey("userID")

// UserNameKey is the key for the authenticated user's display name.
const UserNameKey = contextKey("userName")

// RequestIDKey is the key for the request ID assigned by the HTTP layer.
const RequestIDKey = contextKey("requestID")

// ItemIDKey is the key for the item being operated on, when known.
const ItemIDKey = contextKey("itemID")

// ConversationIDKey is the key for the conversation being operated on.
const ConversationIDKey = contextKey("conversationID")

// ComponentKey identifies the component emitting a log line.
const ComponentKey = contextKey("component")

// OperationKey identifies the logical operation in progress.
const OperationKey = contextKey("operation")
