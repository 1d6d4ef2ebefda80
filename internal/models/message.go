package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a buyer's inquiry about a listing, addressed to the listing's realtor.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Message   string    `json:"message" db:"message"`
	BuyerID   uuid.UUID `json:"buyerId" db:"buyer_id"`
	RealtorID uuid.UUID `json:"realtorId" db:"realtor_id"`
	ListingID uuid.UUID `json:"listingId" db:"listing_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// InquiryView is a message as shown to the realtor, with the buyer's contact fields.
type InquiryView struct {
	Message
	Buyer Contact `json:"buyer"`
}
