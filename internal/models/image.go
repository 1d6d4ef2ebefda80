package models

import (
	"time"

	"github.com/google/uuid"
)

type Image struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ListingID uuid.UUID `json:"listingId" db:"listing_id"`
	URL       string    `json:"url" db:"url"`
	ObjectKey *string   `json:"-" db:"object_key"` // set only for uploads kept in object storage
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
