package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// Pinger is anything whose connectivity can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db      Pinger
	cache   Pinger
	storage Pinger
	started time.Time
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db, cache, storage Pinger) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		cache:   cache,
		storage: storage,
		started: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Uptime    string            `json:"uptime"`
}

// LivenessCheck reports that the process is serving requests
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	})
}

// ReadinessCheck probes the database, cache and object storage concurrently
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	checks := map[string]Pinger{
		"database": h.db,
		"redis":    h.cache,
		"storage":  h.storage,
	}
	names := make([]string, 0, len(checks))
	results := make([]error, 0, len(checks))
	for name := range checks {
		names = append(names, name)
		results = append(results, nil)
	}

	// Each goroutine writes only its own slot; Wait orders the reads.
	var g errgroup.Group
	for i, name := range names {
		pinger := checks[name]
		g.Go(func() error {
			if pinger == nil {
				return nil
			}
			results[i] = pinger.Ping(ctx)
			return results[i]
		})
	}
	firstErr := g.Wait()

	health := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, len(names)),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}
	for i, name := range names {
		if results[i] != nil {
			health.Services[name] = "unhealthy"
			c.Logger().Warnf("readiness check %s failed: %v", name, results[i])
			continue
		}
		health.Services[name] = "healthy"
	}

	if firstErr != nil {
		health.Status = "not_ready"
		return c.JSON(http.StatusServiceUnavailable, health)
	}
	return c.JSON(http.StatusOK, health)
}
