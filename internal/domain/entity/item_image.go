package entity

import "github.com/google/uuid"

// ItemImage is a stored picture of an item. The first image of an item is its representative.
type ItemImage struct {
	ID             uuid.UUID
	ItemID         uuid.UUID
	ObjectKey      string // key in the image bucket
	OriginalName   string
	URL            string
	Representative bool
	Audit
}

// ItemDetail is an item together with its images, representative first.
type ItemDetail struct {
	Item   *Item
	Images []*ItemImage
}

// MainItem is the storefront projection of an item.
type MainItem struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Price       int64
}
