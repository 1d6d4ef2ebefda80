package middleware

import (
	"strings"

	"github.com/GoodNightBuddy/realtor-app/internal/common"
	"github.com/GoodNightBuddy/realtor-app/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	identityContextKey = "identity"
	rejectedSubjectKey = "rejected_subject"
)

// AuthResolver verifies the bearer token, when one is present, and attaches
// the caller's Identity to the request context. Requests without a valid
// token continue unauthenticated; RoleGuard decides whether that is allowed.
func AuthResolver(tokens services.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:             identityContextKey,
		ContinueOnIgnoredError: true,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := tokens.Verify(auth)
			if err != nil {
				return nil, err
			}
			identity, err := claims.Identity()
			if err != nil {
				return nil, err
			}
			c.SetRequest(c.Request().WithContext(common.WithIdentity(c.Request().Context(), identity)))
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			raw := bearerToken(c)
			if raw == "" {
				return nil
			}
			// Unverified; only used to tag log lines.
			if claims, decodeErr := tokens.Decode(raw); decodeErr == nil {
				c.Set(rejectedSubjectKey, claims.UserID)
			}
			c.Logger().Debugf("bearer token rejected: %v", err)
			return nil
		},
	})
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
