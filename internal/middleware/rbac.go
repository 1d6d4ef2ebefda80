package middleware

import (
	"net/http"
	"slices"

	"github.com/GoodNightBuddy/realtor-app/internal/common"
	"github.com/GoodNightBuddy/realtor-app/internal/models"
	"github.com/GoodNightBuddy/realtor-app/internal/repositories"

	"github.com/labstack/echo/v4"
)

// RoleGuard admits requests whose verified caller currently holds one of
// the required roles. The role is re-read from the store on every request.
type RoleGuard struct {
	userRepo repositories.UserRepository
}

func NewRoleGuard(userRepo repositories.UserRepository) *RoleGuard {
	return &RoleGuard{userRepo: userRepo}
}

func (g *RoleGuard) RequireRoles(roles ...models.UserType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if len(roles) == 0 {
			return next
		}
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			identity, ok := common.IdentityFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			userType, err := g.userRepo.GetUserType(ctx, identity.UserID)
			if err != nil {
				c.Logger().Warnf("role lookup failed for user %s: %v", identity.UserID, err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			if !slices.Contains(roles, userType) {
				c.Logger().Infof("user %s with role %s denied %s %s", identity.UserID, userType, c.Request().Method, c.Path())
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			return next(c)
		}
	}
}
