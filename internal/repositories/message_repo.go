package repositories

import (
	"context"

	"github.com/GoodNightBuddy/realtor-app/internal/models"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByListingID(ctx context.Context, listingID uuid.UUID) ([]*models.InquiryView, error)
}

type messageRepo struct {
	db Database
}

func NewMessageRepo(db Database) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, message, buyer_id, realtor_id, listing_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, message.ID, message.Message, message.BuyerID, message.RealtorID, message.ListingID).
		Scan(&message.CreatedAt)
}

func (r *messageRepo) ListByListingID(ctx context.Context, listingID uuid.UUID) ([]*models.InquiryView, error) {
	query := `
		SELECT m.id, m.message, m.buyer_id, m.realtor_id, m.listing_id, m.created_at, u.name, u.email, u.phone
		FROM messages m
		JOIN users u ON u.id = m.buyer_id
		WHERE m.listing_id = $1
		ORDER BY m.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.InquiryView{}
	for rows.Next() {
		m := &models.InquiryView{}
		if err := rows.Scan(&m.ID, &m.Message.Message, &m.BuyerID, &m.RealtorID, &m.ListingID, &m.CreatedAt,
			&m.Buyer.Name, &m.Buyer.Email, &m.Buyer.Phone); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
