package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// AuditRequest writes one structured log line per state-changing request,
// and per failed request, tagged with the caller.
func AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method := c.Request().Method
			path := c.Path()
			if !shouldAudit(method, path, err) {
				return err
			}

			status := auditStatus(c, err)

			entry := log.JSON{
				"event":      "audit",
				"method":     method,
				"path":       path,
				"uri":        c.Request().RequestURI,
				"status":     status,
				"ip":         c.RealIP(),
				"user_agent": c.Request().UserAgent(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if identity, ok := common.IdentityFromContext(c.Request().Context()); ok {
				entry["user_id"] = identity.UserID.String()
			} else {
				entry["user_id"] = "anonymous"
			}
			if subject, ok := c.Get(rejectedSubjectKey).(string); ok && subject != "" {
				entry["claimed_user_id"] = subject
			}
			if err != nil {
				entry["error"] = err.Error()
			}

			c.Logger().Infoj(entry)
			return err
		}
	}
}

func shouldAudit(method, path string, reqErr error) bool {
	if strings.HasPrefix(path, "/health") {
		return false
	}
	if reqErr != nil {
		return true
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// auditStatus is the status the error handler will write for err.
func auditStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
