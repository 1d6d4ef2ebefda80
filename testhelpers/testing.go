//go:build integration

package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/models"
	"github.com/GoodNightBuddy/realtor-app/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool *pgxpool.Pool
}

// SetupTestDB starts a Postgres container, or reuses TEST_DATABASE_URL when set,
// and applies the schema. Everything is torn down through t.Cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		container, err := postgres.Run(ctx,
			"postgres:16",
			postgres.WithDatabase("realtor_test"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
		)
		if err != nil {
			t.Fatalf("Failed to start postgres container: %v", err)
		}
		t.Cleanup(func() {
			if err := container.Terminate(context.Background()); err != nil {
				t.Logf("Failed to terminate postgres container: %v", err)
			}
		})

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("Failed to get connection string: %v", err)
		}
	}

	pool := connectWithRetry(t, dsn)
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE messages, images, listings, users CASCADE`); err != nil {
		t.Fatalf("Failed to reset test database: %v", err)
	}

	return &TestDB{Pool: pool}
}

// The container reports ready before it accepts connections on some hosts.
func connectWithRetry(t *testing.T, dsn string) *pgxpool.Pool {
	t.Helper()

	var lastErr error
	for attempt := 0; attempt < 20; attempt++ {
		pool, err := database.NewPool(context.Background(), dsn)
		if err == nil {
			return pool
		}
		lastErr = err
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("Failed to connect to test database: %v", lastErr)
	return nil
}

// SeedUser inserts a user with a placeholder password hash.
func SeedUser(t *testing.T, db *TestDB, userType models.UserType) *models.User {
	t.Helper()

	id := uuid.New()
	user := &models.User{
		ID:           id,
		Name:         "Test " + string(userType),
		Phone:        "+1 555 010 0000",
		Email:        id.String() + "@example.com",
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold",
		UserType:     userType,
	}

	query := `
		INSERT INTO users (id, name, phone, email, password_hash, user_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	err := db.Pool.QueryRow(context.Background(), query,
		user.ID, user.Name, user.Phone, user.Email, user.PasswordHash, string(user.UserType)).
		Scan(&user.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// SeedListing inserts a listing owned by realtorID, listed at listedDate.
func SeedListing(t *testing.T, db *TestDB, realtorID uuid.UUID, city string, price float64, listedDate time.Time) *models.Listing {
	t.Helper()

	listing := &models.Listing{
		ID:                uuid.New(),
		Address:           "1 Test Street",
		City:              city,
		Price:             price,
		PropertyType:      models.PropertyTypeResidential,
		NumberOfBedrooms:  3,
		NumberOfBathrooms: 2,
		LandSize:          450,
		ListedDate:        listedDate,
		RealtorID:         realtorID,
		UpdatedAt:         listedDate,
	}

	query := `
		INSERT INTO listings (id, address, city, price, property_type, number_of_bedrooms, number_of_bathrooms, land_size, realtor_id, listed_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		listing.ID, listing.Address, listing.City, listing.Price, string(listing.PropertyType),
		listing.NumberOfBedrooms, listing.NumberOfBathrooms, listing.LandSize, listing.RealtorID,
		listing.ListedDate, listing.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test listing: %v", err)
	}

	return listing
}
