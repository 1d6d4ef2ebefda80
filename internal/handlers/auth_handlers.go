package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/GoodNightBuddy/realtor-app/internal/common"
	"github.com/GoodNightBuddy/realtor-app/internal/models"
	"github.com/GoodNightBuddy/realtor-app/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	ProductKey *string `json:"productKey,omitempty"`
}

func (r *SignupRequest) validate() (string, error) {
	if err := common.ValidateRequiredString(r.Name, "name"); err != nil {
		return "name", err
	}
	if err := validatePhone(r.Phone); err != nil {
		return "phone", err
	}
	if err := validateEmail(r.Email); err != nil {
		return "email", err
	}
	if len(r.Password) < 5 {
		return "password", errors.New("password must be at least 5 characters")
	}
	return "", nil
}

// SignInRequest represents the sign-in request payload
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProductKeyRequest asks for a product key for a future non-buyer account
type ProductKeyRequest struct {
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

type ProductKeyResponse struct {
	ProductKey string `json:"productKey"`
}

// SignUp registers a user with the role named in the path
func (h *AuthHandlers) SignUp(c echo.Context) error {
	userType, ok := models.ParseUserType(c.Param("userType"))
	if !ok {
		return common.SendValidationError(c, "userType", "userType must be one of BUYER, REALTOR, ADMIN")
	}

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if field, err := req.validate(); err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	resp, err := h.authService.SignUp(c.Request().Context(), userType, services.SignUpParams{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Password:   req.Password,
		ProductKey: req.ProductKey,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid product key")
		}
		return serviceError(err, "")
	}

	return c.JSON(http.StatusCreated, resp)
}

// SignIn exchanges email and password for a bearer token
func (h *AuthHandlers) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := validateEmail(req.Email); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if len(req.Password) < 5 {
		return common.SendValidationError(c, "password", "password must be at least 5 characters")
	}

	resp, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return serviceError(err, "")
	}

	return c.JSON(http.StatusOK, resp)
}

// GenerateProductKey issues the key a realtor or admin needs to sign up
func (h *AuthHandlers) GenerateProductKey(c echo.Context) error {
	var req ProductKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := validateEmail(req.Email); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	userType, ok := models.ParseUserType(req.UserType)
	if !ok {
		return common.SendValidationError(c, "userType", "userType must be one of BUYER, REALTOR, ADMIN")
	}

	key, err := h.authService.GenerateProductKey(strings.TrimSpace(req.Email), userType)
	if err != nil {
		return serviceError(err, "")
	}

	return c.JSON(http.StatusOK, ProductKeyResponse{ProductKey: key})
}

// Me returns the caller's verified identity
func (h *AuthHandlers) Me(c echo.Context) error {
	identity, ok := common.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(http.StatusOK, identity.Response())
}
