package model

import "strings"

// Category is the closed set of item categories the board knows about.
type Category string

const (
	CategoryKeys        Category = "KEYS"
	CategoryCards       Category = "CARDS"
	CategoryElectronics Category = "ELECTRONICS"
	CategoryBags        Category = "BAGS"
	CategoryDocuments   Category = "DOCUMENTS"
	CategoryClothing    Category = "CLOTHING"
	CategoryPhone       Category = "PHONE"
	CategoryAccessories Category = "ACCESSORIES"
	CategoryBooks       Category = "BOOKS"
	CategoryOther       Category = "OTHER"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{
		CategoryKeys,
		CategoryCards,
		CategoryElectronics,
		CategoryBags,
		CategoryDocuments,
		CategoryClothing,
		CategoryPhone,
		CategoryAccessories,
		CategoryBooks,
		CategoryOther,
	}
}

// ParseCategory maps a stored or user-supplied value onto the closed set.
// Unknown values collapse to OTHER.
func ParseCategory(s string) Category {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryKeys:
		return CategoryKeys
	case CategoryCards:
		return CategoryCards
	case CategoryElectronics:
		return CategoryElectronics
	case CategoryBags:
		return CategoryBags
	case CategoryDocuments:
		return CategoryDocuments
	case CategoryClothing:
		return CategoryClothing
	case CategoryPhone:
		return CategoryPhone
	case CategoryAccessories:
		return CategoryAccessories
	case CategoryBooks:
		return CategoryBooks
	default:
		return CategoryOther
	}
}

// RemoteName maps a local category to the remote matcher API's vocabulary.
// Categories the remote API does not know collapse to OTHER.
func (c Category) RemoteName() string {
	switch c {
	case CategoryKeys:
		return "KEYS"
	case CategoryCards:
		return "STUDENT_CARD"
	case CategoryElectronics:
		return "ELECTRONICS"
	case CategoryBags:
		return "BAG"
	case CategoryDocuments:
		return "DOCUMENTS"
	case CategoryClothing:
		return "CLOTHING"
	case CategoryPhone:
		return "PHONE"
	default:
		return "OTHER"
	}
}

// CategoryFromRemote is the inverse of RemoteName for parsing matcher
// responses. Unknown remote names collapse to OTHER.
func CategoryFromRemote(s string) Category {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "KEYS":
		return CategoryKeys
	case "STUDENT_CARD":
		return CategoryCards
	case "PHONE":
		return CategoryPhone
	case "BAG":
		return CategoryBags
	case "DOCUMENTS":
		return CategoryDocuments
	case "ELECTRONICS":
		return CategoryElectronics
	case "CLOTHING":
		return CategoryClothing
	default:
		return CategoryOther
	}
}
