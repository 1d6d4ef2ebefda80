package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/caching"
	"github.com/GoodNightBuddy/realtor-app/internal/models"
	"github.com/GoodNightBuddy/realtor-app/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	signInAttemptLimit  = 5
	signInAttemptWindow = 15 * time.Minute
)

// SignUpParams is the sign-up payload; the role comes from the route.
type SignUpParams struct {
	Name       string
	Phone      string
	Email      string
	Password   string
	ProductKey *string
}

// AuthService implements sign-up, sign-in and product keys.
type AuthService interface {
	SignUp(ctx context.Context, userType models.UserType, params SignUpParams) (*models.TokenResponse, error)
	SignIn(ctx context.Context, email, password string) (*models.TokenResponse, error)
	GenerateProductKey(email string, userType models.UserType) (string, error)
	ValidProductKey(email string, userType models.UserType, productKey string) bool
}

type authService struct {
	userRepo         repositories.UserRepository
	tokens           TokenService
	cacheSvc         caching.CacheService
	productKeySecret string
}

func NewAuthService(userRepo repositories.UserRepository, tokens TokenService, cacheSvc caching.CacheService, productKeySecret string) AuthService {
	return &authService{
		userRepo:         userRepo,
		tokens:           tokens,
		cacheSvc:         cacheSvc,
		productKeySecret: productKeySecret,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, userType models.UserType, params SignUpParams) (*models.TokenResponse, error) {
	email := normalizeEmail(params.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrConflict
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if userType.RequiresProductKey() {
		if params.ProductKey == nil || *params.ProductKey == "" {
			return nil, fmt.Errorf("%w: product key required for %s", ErrUnauthorized, userType)
		}
		if !s.ValidProductKey(email, userType, *params.ProductKey) {
			return nil, fmt.Errorf("%w: invalid product key", ErrUnauthorized)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(params.Name),
		Phone:        strings.TrimSpace(params.Phone),
		Email:        email,
		PasswordHash: string(hashed),
		UserType:     userType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.tokens.Issue(user.ID, user.Name)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = normalizeEmail(email)
	limitKey := "signin:" + email

	limited, err := s.cacheSvc.IsRateLimited(ctx, limitKey, signInAttemptLimit, signInAttemptWindow)
	if err != nil {
		log.Printf("WARN: sign-in rate limit check failed for %s: %v", email, err)
	} else if limited {
		return nil, ErrRateLimited
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("sign-in rejected: unknown email %s", email)
			s.recordFailure(ctx, limitKey)
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("sign-in rejected: wrong password for user %s", user.ID)
		s.recordFailure(ctx, limitKey)
		return nil, ErrUnauthorized
	}

	if err := s.cacheSvc.ResetRateLimit(ctx, limitKey); err != nil {
		log.Printf("WARN: failed to reset sign-in failures for %s: %v", email, err)
	}

	return s.tokens.Issue(user.ID, user.Name)
}

func (s *authService) recordFailure(ctx context.Context, key string) {
	if err := s.cacheSvc.IncrementRateLimit(ctx, key, signInAttemptWindow); err != nil {
		log.Printf("WARN: failed to record sign-in failure: %v", err)
	}
}

// productKeyMaterial digests email:userType:secret first, since bcrypt only
// reads the first 72 bytes of its input.
func (s *authService) productKeyMaterial(email string, userType models.UserType) []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", normalizeEmail(email), userType, s.productKeySecret)))
	return []byte(hex.EncodeToString(sum[:]))
}

func (s *authService) GenerateProductKey(email string, userType models.UserType) (string, error) {
	key, err := bcrypt.GenerateFromPassword(s.productKeyMaterial(email, userType), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate product key: %w", err)
	}
	return string(key), nil
}

func (s *authService) ValidProductKey(email string, userType models.UserType, productKey string) bool {
	return bcrypt.CompareHashAndPassword([]byte(productKey), s.productKeyMaterial(email, userType)) == nil
}
