package repositories

import (
	"context"

	"github.com/GoodNightBuddy/realtor-app/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserType(ctx context.Context, id uuid.UUID) (models.UserType, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, phone, email, password_hash, user_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Phone, user.Email, user.PasswordHash, string(user.UserType))
	return err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, phone, email, password_hash, user_type, created_at
		FROM users
		WHERE email = $1
	`
	user := &models.User{}
	var userType string
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Phone, &user.Email, &user.PasswordHash, &userType, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.UserType = models.UserType(userType)
	return user, nil
}

// GetUserType is the role lookup used by the role guard on every gated request.
func (r *userRepo) GetUserType(ctx context.Context, id uuid.UUID) (models.UserType, error) {
	var userType string
	err := r.db.QueryRow(ctx, `SELECT user_type FROM users WHERE id = $1`, id).Scan(&userType)
	if err != nil {
		return "", err
	}
	return models.UserType(userType), nil
}
