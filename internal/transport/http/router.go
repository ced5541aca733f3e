// Package httptransport assembles the portal's HTTP surface: public info
// pages, the auth endpoints, and the guarded feature route groups.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	analyticshandler "innoport/internal/analytics/handler"
	"innoport/internal/authz"
	collabhandler "innoport/internal/collab/handler"
	identityhandler "innoport/internal/identity/handler"
	interesthandler "innoport/internal/interest/handler"
	patenthandler "innoport/internal/patent/handler"
	"innoport/internal/platform/metrics"
	researchhandler "innoport/internal/research/handler"
	startuphandler "innoport/internal/startup/handler"
	"innoport/pkg/platform/httputil"
	authmw "innoport/pkg/platform/middleware/auth"
	"innoport/pkg/platform/middleware/metadata"
	requestmw "innoport/pkg/platform/middleware/request"
)

// HealthChecker reports whether a backing dependency still answers.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Identity  *identityhandler.Handler
	Research  *researchhandler.Handler
	Patents   *patenthandler.Handler
	Startups  *startuphandler.Handler
	Interest  *interesthandler.Handler
	Collab    *collabhandler.Handler
	Analytics *analyticshandler.Handler

	Guard     *authz.Guard
	Validator authmw.TokenValidator
	Revoked   authmw.RevocationChecker
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	// Health is probed by /healthz; nil means no backing dependency to
	// check (in-memory mode) and the endpoint always reports ok.
	Health HealthChecker
}

// NewRouter wires the full portal surface. Every request gets a request id
// and passes the bearer-token middleware; each feature group then sits
// behind the route guard entry for its screen. There is no DELETE anywhere:
// the portal never exposes destructive removal.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestmw.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(authmw.Authenticate(deps.Validator, deps.Revoked, deps.Logger))

	// Public portal pages and operational endpoints.
	r.Get("/", infoHandler("Government Innovation Portal"))
	r.Get("/about", infoHandler("About the portal"))
	r.Get("/innovation", infoHandler("Innovation showcase"))
	r.Get("/healthz", healthHandler(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Auth endpoints are public by construction: sign-in must be reachable
	// signed out, and sign-out/session carry their own identity checks.
	deps.Identity.Register(r)

	r.Group(func(g chi.Router) {
		g.Use(deps.Guard.Protect(authz.RouteDashboard))
		deps.Analytics.RegisterDashboard(g)
	})
	r.Group(func(g chi.Router) {
		g.Use(deps.Guard.Protect(authz.RouteResearch))
		deps.Research.Register(g)
	})
	r.Group(func(g chi.Router) {
		g.Use(deps.Guard.Protect(authz.RouteIPR))
		deps.Patents.Register(g)
	})
	r.Group(func(g chi.Router) {
		g.Use(deps.Guard.Protect(authz.RouteStartups))
		deps.Startups.Register(g)
		deps.Interest.Register(g)
	})
	r.Group(func(g chi.Router) {
		g.Use(deps.Guard.Protect(authz.RouteCollaboration))
		deps.Collab.Register(g)
	})
	r.Group(func(g chi.Router) {
		g.Use(deps.Guard.Protect(authz.RouteAnalytics))
		deps.Analytics.RegisterOverview(g)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error":             "not_found",
			"error_description": "the page you are looking for does not exist",
		})
	})
	return r
}

// healthHandler reports ok while every checked dependency answers, and 503
// with a degraded body once one stops.
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func infoHandler(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"title": title})
	}
}
