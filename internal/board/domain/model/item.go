package model

import "strings"

// ItemStatus says whether an item was reported lost or found.
type ItemStatus string

const (
	StatusLost  ItemStatus = "LOST"
	StatusFound ItemStatus = "FOUND"
)

// ParseItemStatus maps a stored value onto the status set; anything not
// recognizably FOUND is treated as LOST, matching how posts default.
func ParseItemStatus(s string) ItemStatus {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusFound)) {
		return StatusFound
	}
	return StatusLost
}

// Opposite returns the counterpart status used when searching for match
// candidates.
func (s ItemStatus) Opposite() ItemStatus {
	if s == StatusLost {
		return StatusFound
	}
	return StatusLost
}

// Item is a reported lost or found object. ID is empty until the item has
// been persisted; once persisted it is non-empty and stable.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Location    string     `json:"location"`
	CreatedAt   int64      `json:"timestamp"` // epoch millis
	Status      ItemStatus `json:"status"`
	OwnerID     string     `json:"userId"`
	OwnerName   string     `json:"userName"`
	OwnerEmail  string     `json:"userEmail"`
	ImageURLs   []string   `json:"imageUrls"`
	Resolved    bool       `json:"resolved"`
}

// Store field names for the items collection.
const (
	ItemFieldTitle       = "title"
	ItemFieldDescription = "description"
	ItemFieldCategory    = "category"
	ItemFieldLocation    = "location"
	ItemFieldTimestamp   = "timestamp"
	ItemFieldStatus      = "status"
	ItemFieldOwnerID     = "userId"
	ItemFieldOwnerName   = "userName"
	ItemFieldOwnerEmail  = "userEmail"
	ItemFieldImageURLs   = "imageUrls"
	ItemFieldResolved    = "resolved"
)

// ItemFromDocument decodes a store document into an Item.
func ItemFromDocument(doc Document) Item {
	return Item{
		ID:          doc.ID,
		Title:       asString(doc.Data, ItemFieldTitle),
		Description: asString(doc.Data, ItemFieldDescription),
		Category:    ParseCategory(asString(doc.Data, ItemFieldCategory)),
		Location:    asString(doc.Data, ItemFieldLocation),
		CreatedAt:   asInt64(doc.Data, ItemFieldTimestamp),
		Status:      ParseItemStatus(asString(doc.Data, ItemFieldStatus)),
		OwnerID:     asString(doc.Data, ItemFieldOwnerID),
		OwnerName:   asString(doc.Data, ItemFieldOwnerName),
		OwnerEmail:  asString(doc.Data, ItemFieldOwnerEmail),
		ImageURLs:   asStringSlice(doc.Data, ItemFieldImageURLs),
		Resolved:    asBool(doc.Data, ItemFieldResolved),
	}
}

// Fields encodes the item for persistence. The ID travels separately as the
// document key.
func (i Item) Fields() map[string]interface{} {
	urls := i.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return map[string]interface{}{
		ItemFieldTitle:       i.Title,
		ItemFieldDescription: i.Description,
		ItemFieldCategory:    string(i.Category),
		ItemFieldLocation:    i.Location,
		ItemFieldTimestamp:   i.CreatedAt,
		ItemFieldStatus:      string(i.Status),
		ItemFieldOwnerID:     i.OwnerID,
		ItemFieldOwnerName:   i.OwnerName,
		ItemFieldOwnerEmail:  i.OwnerEmail,
		ItemFieldImageURLs:   urls,
		ItemFieldResolved:    i.Resolved,
	}
}
