package repositories

import (
	"context"

	"github.com/GoodNightBuddy/realtor-app/internal/models"

	"github.com/google/uuid"
)

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByListingID(ctx context.Context, listingID uuid.UUID) ([]*models.Image, error)
}

type imageRepo struct {
	db Database
}

func NewImageRepo(db Database) ImageRepository {
	return &imageRepo{db: db}
}

func (r *imageRepo) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (id, listing_id, url, object_key, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, image.ID, image.ListingID, image.URL, image.ObjectKey).Scan(&image.CreatedAt)
}

func (r *imageRepo) GetByListingID(ctx context.Context, listingID uuid.UUID) ([]*models.Image, error) {
	query := `
		SELECT id, listing_id, url, object_key, created_at
		FROM images
		WHERE listing_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []*models.Image{}
	for rows.Next() {
		image := &models.Image{}
		if err := rows.Scan(&image.ID, &image.ListingID, &image.URL, &image.ObjectKey, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}
