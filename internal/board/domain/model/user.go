package model

// User is a board member's profile as stored in the users collection. The
// core only reads it to resolve display names; account management lives
// outside this module.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	CreatedAt       int64  `json:"createdAt"`
}

// Store field names for the users collection.
const (
	UserFieldName            = "name"
	UserFieldEmail           = "email"
	UserFieldProfileImageURL = "profileImageUrl"
	UserFieldPhoneNumber     = "phoneNumber"
	UserFieldCreatedAt       = "createdAt"
)

// UserFromDocument decodes a store document into a User.
func UserFromDocument(doc Document) User {
	return User{
		ID:              doc.ID,
		Name:            asString(doc.Data, UserFieldName),
		Email:           asString(doc.Data, UserFieldEmail),
		ProfileImageURL: asString(doc.Data, UserFieldProfileImageURL),
		PhoneNumber:     asString(doc.Data, UserFieldPhoneNumber),
		CreatedAt:       asInt64(doc.Data, UserFieldCreatedAt),
	}
}
