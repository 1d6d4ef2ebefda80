package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeResidential PropertyType = "RESIDENTIAL"
	PropertyTypeCondo       PropertyType = "CONDO"
)

// ParsePropertyType accepts the type name case-insensitively.
func ParsePropertyType(s string) (PropertyType, bool) {
	switch PropertyType(strings.ToUpper(strings.TrimSpace(s))) {
	case PropertyTypeResidential:
		return PropertyTypeResidential, true
	case PropertyTypeCondo:
		return PropertyTypeCondo, true
	}
	return "", false
}

type Listing struct {
	ID                uuid.UUID    `json:"id" db:"id"`
	Address           string       `json:"address" db:"address"`
	City              string       `json:"city" db:"city"`
	Price             float64      `json:"price" db:"price"`
	PropertyType      PropertyType `json:"propertyType" db:"property_type"`
	NumberOfBedrooms  float64      `json:"numberOfBedrooms" db:"number_of_bedrooms"`
	NumberOfBathrooms float64      `json:"numberOfBathrooms" db:"number_of_bathrooms"`
	LandSize          float64      `json:"landSize" db:"land_size"`
	ListedDate        time.Time    `json:"listedDate" db:"listed_date"`
	RealtorID         uuid.UUID    `json:"realtorId" db:"realtor_id"`
	UpdatedAt         time.Time    `json:"updatedAt" db:"updated_at"`
}

// ListingSummary is a search result row: summary fields plus one representative image.
type ListingSummary struct {
	ID                uuid.UUID    `json:"id"`
	Address           string       `json:"address"`
	City              string       `json:"city"`
	Price             float64      `json:"price"`
	PropertyType      PropertyType `json:"propertyType"`
	NumberOfBedrooms  float64      `json:"numberOfBedrooms"`
	NumberOfBathrooms float64      `json:"numberOfBathrooms"`
	LandSize          float64      `json:"landSize"`
	ListedDate        time.Time    `json:"listedDate"`
	Image             string       `json:"image"`
}

// ListingDetail is a listing with every image and its realtor's contact fields.
type ListingDetail struct {
	Listing
	Images  []*Image `json:"images"`
	Realtor Contact  `json:"realtor"`
}

// ListingFilter holds the optional search predicates. Nil fields are not applied.
type ListingFilter struct {
	City         *string       `json:"city,omitempty"`
	PropertyType *PropertyType `json:"propertyType,omitempty"`
	MinPrice     *float64      `json:"minPrice,omitempty"` // inclusive
	MaxPrice     *float64      `json:"maxPrice,omitempty"` // inclusive
	Limit        int           `json:"limit,omitempty"`
	Offset       int           `json:"offset,omitempty"`
}

// ListingUpdate is a partial update; only non-nil fields are written.
type ListingUpdate struct {
	Address           *string       `json:"address,omitempty"`
	City              *string       `json:"city,omitempty"`
	Price             *float64      `json:"price,omitempty"`
	PropertyType      *PropertyType `json:"propertyType,omitempty"`
	NumberOfBedrooms  *float64      `json:"numberOfBedrooms,omitempty"`
	NumberOfBathrooms *float64      `json:"numberOfBathrooms,omitempty"`
	LandSize          *float64      `json:"landSize,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u *ListingUpdate) IsEmpty() bool {
	return u.Address == nil && u.City == nil && u.Price == nil && u.PropertyType == nil &&
		u.NumberOfBedrooms == nil && u.NumberOfBathrooms == nil && u.LandSize == nil
}
