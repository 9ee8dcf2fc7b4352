package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthTimeout = 2 * time.Second

// HealthChecker is anything with a Ping: Database, RedisClient, EventBus and
// TemporalClient all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks maps a component name to its check. Nil checks are skipped, so
// optional components can be listed unconditionally.
type HealthChecks map[string]HealthChecker

// ComponentHealth is the check result of one component. Check errors are not
// exposed.
type ComponentHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthReport is the /health response body.
type HealthReport struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthHandler checks every component concurrently within 2s and answers 503
// when any of them is unreachable.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		report := HealthReport{Status: "ok", Components: make(map[string]ComponentHealth, len(checks))}
		var mu sync.Mutex
		var g errgroup.Group
		for name, check := range checks {
			if check == nil {
				continue
			}
			g.Go(func() error {
				start := time.Now()
				err := check.Ping(ctx)
				c := ComponentHealth{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
				if err != nil {
					c.Status = "unreachable"
				}
				mu.Lock()
				defer mu.Unlock()
				report.Components[name] = c
				if err != nil {
					report.Status = "degraded"
				}
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		if report.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, report)
	}
}
