package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_RemoteName(t *testing.T) {
	tests := []struct {
		local  Category
		remote string
	}{
		{CategoryKeys, "KEYS"},
		{CategoryCards, "STUDENT_CARD"},
		{CategoryElectronics, "ELECTRONICS"},
		{CategoryBags, "BAG"},
		{CategoryDocuments, "DOCUMENTS"},
		{CategoryClothing, "CLOTHING"},
		{CategoryPhone, "PHONE"},
		{CategoryAccessories, "OTHER"},
		{CategoryBooks, "OTHER"},
		{CategoryOther, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.local), func(t *testing.T) {
			assert.Equal(t, tt.remote, tt.local.RemoteName())
		})
	}
}

func TestCategoryFromRemote(t *testing.T) {
	tests := []struct {
		remote string
		local  Category
	}{
		{"KEYS", CategoryKeys},
		{"STUDENT_CARD", CategoryCards},
		{"PHONE", CategoryPhone},
		{"BAG", CategoryBags},
		{"DOCUMENTS", CategoryDocuments},
		{"ELECTRONICS", CategoryElectronics},
		{"CLOTHING", CategoryClothing},
		{"bag", CategoryBags},
		{"WALLET", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			assert.Equal(t, tt.local, CategoryFromRemote(tt.remote))
		})
	}
}

func TestCategoryMapping_RoundTripForMappedCategories(t *testing.T) {
	// Every category with a dedicated remote name must survive the round
	// trip; the rest collapse to OTHER by design.
	for _, c := range Categories() {
		remote := c.RemoteName()
		back := CategoryFromRemote(remote)
		if remote == "OTHER" {
			assert.Equal(t, CategoryOther, back)
		} else {
			assert.Equal(t, c, back)
		}
	}
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryKeys, ParseCategory("keys"))
	assert.Equal(t, CategoryBags, ParseCategory(" BAGS "))
	assert.Equal(t, CategoryOther, ParseCategory("umbrella"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}

func TestParseItemStatus(t *testing.T) {
	assert.Equal(t, StatusFound, ParseItemStatus("FOUND"))
	assert.Equal(t, StatusFound, ParseItemStatus("found"))
	assert.Equal(t, StatusLost, ParseItemStatus("LOST"))
	assert.Equal(t, StatusLost, ParseItemStatus("anything"))
}

func TestItemStatus_Opposite(t *testing.T) {
	assert.Equal(t, StatusFound, StatusLost.Opposite())
	assert.Equal(t, StatusLost, StatusFound.Opposite())
}
