package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ListingRepository interface {
	CreateWithImages(ctx context.Context, listing *models.Listing, images []*models.Image) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	GetWithRealtor(ctx context.Context, id uuid.UUID) (*models.ListingDetail, error)
	List(ctx context.Context, filter *models.ListingFilter) ([]*models.ListingSummary, error)
	Update(ctx context.Context, id uuid.UUID, update *models.ListingUpdate) (*models.Listing, error)
	DeleteWithImages(ctx context.Context, id uuid.UUID) error
	GetRealtorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ListOrphans(ctx context.Context, listedBefore time.Time) ([]uuid.UUID, error)
}

type listingRepo struct {
	db Database
}

func NewListingRepo(db Database) ListingRepository {
	return &listingRepo{db: db}
}

var imageColumns = []string{"id", "listing_id", "url", "object_key", "created_at"}

// CreateWithImages inserts the listing and copies its images in one transaction.
func (r *listingRepo) CreateWithImages(ctx context.Context, listing *models.Listing, images []*models.Image) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO listings (id, address, city, price, property_type, number_of_bedrooms, number_of_bathrooms, land_size, realtor_id, listed_date, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING listed_date, updated_at
		`
		err := tx.QueryRow(ctx, query, listing.ID, listing.Address, listing.City, listing.Price, string(listing.PropertyType),
			listing.NumberOfBedrooms, listing.NumberOfBathrooms, listing.LandSize, listing.RealtorID).
			Scan(&listing.ListedDate, &listing.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert listing: %w", err)
		}

		if len(images) == 0 {
			return nil
		}

		rows := make([][]interface{}, 0, len(images))
		for _, img := range images {
			rows = append(rows, []interface{}{img.ID, img.ListingID, img.URL, img.ObjectKey, img.CreatedAt})
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"images"}, imageColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("insert images: %w", err)
		}
		if n != int64(len(images)) {
			return fmt.Errorf("insert images: copied %d of %d rows", n, len(images))
		}
		return nil
	})
}

const listingColumns = `id, address, city, price, property_type, number_of_bedrooms, number_of_bathrooms, land_size, listed_date, realtor_id, updated_at`

func scanListing(row pgx.Row) (*models.Listing, error) {
	listing := &models.Listing{}
	var propertyType string
	err := row.Scan(&listing.ID, &listing.Address, &listing.City, &listing.Price, &propertyType,
		&listing.NumberOfBedrooms, &listing.NumberOfBathrooms, &listing.LandSize, &listing.ListedDate,
		&listing.RealtorID, &listing.UpdatedAt)
	if err != nil {
		return nil, err
	}
	listing.PropertyType = models.PropertyType(propertyType)
	return listing, nil
}

func (r *listingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return scanListing(r.db.QueryRow(ctx, query, id))
}

func (r *listingRepo) GetWithRealtor(ctx context.Context, id uuid.UUID) (*models.ListingDetail, error) {
	query := `
		SELECT l.id, l.address, l.city, l.price, l.property_type, l.number_of_bedrooms, l.number_of_bathrooms,
		       l.land_size, l.listed_date, l.realtor_id, l.updated_at, u.name, u.email, u.phone
		FROM listings l
		JOIN users u ON u.id = l.realtor_id
		WHERE l.id = $1
	`
	detail := &models.ListingDetail{}
	var propertyType string
	err := r.db.QueryRow(ctx, query, id).Scan(&detail.ID, &detail.Address, &detail.City, &detail.Price, &propertyType,
		&detail.NumberOfBedrooms, &detail.NumberOfBathrooms, &detail.LandSize, &detail.ListedDate,
		&detail.RealtorID, &detail.UpdatedAt, &detail.Realtor.Name, &detail.Realtor.Email, &detail.Realtor.Phone)
	if err != nil {
		return nil, err
	}
	detail.PropertyType = models.PropertyType(propertyType)
	return detail, nil
}

// buildListingFilter renders only the predicates present in filter, ANDed
// together. It never references a column whose filter field is nil.
func buildListingFilter(filter *models.ListingFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.City != nil {
		add("l.city = $%d", *filter.City)
	}
	if filter.PropertyType != nil {
		add("l.property_type = $%d", string(*filter.PropertyType))
	}
	if filter.MinPrice != nil {
		add("l.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("l.price <= $%d", *filter.MaxPrice)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *listingRepo) List(ctx context.Context, filter *models.ListingFilter) ([]*models.ListingSummary, error) {
	where, args := buildListingFilter(filter)

	query := `
		SELECT l.id, l.address, l.city, l.price, l.property_type, l.number_of_bedrooms, l.number_of_bathrooms,
		       l.land_size, l.listed_date,
		       COALESCE((SELECT i.url FROM images i WHERE i.listing_id = l.id ORDER BY i.created_at ASC LIMIT 1), '')
		FROM listings l` + where + `
		ORDER BY l.listed_date DESC`

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.ListingSummary
	for rows.Next() {
		l := &models.ListingSummary{}
		var propertyType string
		if err := rows.Scan(&l.ID, &l.Address, &l.City, &l.Price, &propertyType, &l.NumberOfBedrooms,
			&l.NumberOfBathrooms, &l.LandSize, &l.ListedDate, &l.Image); err != nil {
			return nil, err
		}
		l.PropertyType = models.PropertyType(propertyType)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Update writes the non-nil fields of update and returns the stored row.
// pgx.ErrNoRows means no listing has that id.
func (r *listingRepo) Update(ctx context.Context, id uuid.UUID, update *models.ListingUpdate) (*models.Listing, error) {
	var sets []string
	var args []interface{}

	set := func(column string, arg interface{}) {
		args = append(args, arg)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Address != nil {
		set("address", *update.Address)
	}
	if update.City != nil {
		set("city", *update.City)
	}
	if update.Price != nil {
		set("price", *update.Price)
	}
	if update.PropertyType != nil {
		set("property_type", string(*update.PropertyType))
	}
	if update.NumberOfBedrooms != nil {
		set("number_of_bedrooms", *update.NumberOfBedrooms)
	}
	if update.NumberOfBathrooms != nil {
		set("number_of_bathrooms", *update.NumberOfBathrooms)
	}
	if update.LandSize != nil {
		set("land_size", *update.LandSize)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE listings SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), listingColumns)
	return scanListing(r.db.QueryRow(ctx, query, args...))
}

// DeleteWithImages removes the listing's images and then the listing in one
// transaction. pgx.ErrNoRows means the listing did not exist.
func (r *listingRepo) DeleteWithImages(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM images WHERE listing_id = $1`, id); err != nil {
			return fmt.Errorf("delete images: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete listing: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (r *listingRepo) GetRealtorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var realtorID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT realtor_id FROM listings WHERE id = $1`, id).Scan(&realtorID)
	if err != nil {
		return uuid.Nil, err
	}
	return realtorID, nil
}

// ListOrphans returns listings without any image that were listed before the cutoff.
func (r *listingRepo) ListOrphans(ctx context.Context, listedBefore time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT l.id
		FROM listings l
		WHERE l.listed_date < $1
		  AND NOT EXISTS (SELECT 1 FROM images i WHERE i.listing_id = l.id)
		ORDER BY l.listed_date ASC
	`
	rows, err := r.db.Query(ctx, query, listedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
