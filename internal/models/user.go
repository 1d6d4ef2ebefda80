package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType is the closed set of account roles.
type UserType string

const (
	UserTypeBuyer   UserType = "BUYER"
	UserTypeRealtor UserType = "REALTOR"
	UserTypeAdmin   UserType = "ADMIN"
)

// ParseUserType accepts the role name case-insensitively.
func ParseUserType(s string) (UserType, bool) {
	switch UserType(strings.ToUpper(strings.TrimSpace(s))) {
	case UserTypeBuyer:
		return UserTypeBuyer, true
	case UserTypeRealtor:
		return UserTypeRealtor, true
	case UserTypeAdmin:
		return UserTypeAdmin, true
	}
	return "", false
}

// RequiresProductKey reports whether sign-up for this role needs a product key.
func (t UserType) RequiresProductKey() bool {
	return t != UserTypeBuyer
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone" db:"phone"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	UserType     UserType  `json:"userType" db:"user_type"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Contact is the public part of a user profile: a realtor on a listing, a buyer on an inquiry.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
