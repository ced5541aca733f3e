package authz

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	id "innoport/pkg/domain"
	"innoport/pkg/platform/httputil"
	"innoport/pkg/requestcontext"
)

// Guard turns the decision table into chi middleware. The decision is
// re-evaluated on every request, so a sign-out (revoked token) denies on the
// next evaluation with no allow window.
type Guard struct {
	resolver  *Resolver
	logger    *slog.Logger
	decisions *prometheus.CounterVec
}

func NewGuard(resolver *Resolver, logger *slog.Logger, decisions *prometheus.CounterVec) *Guard {
	return &Guard{resolver: resolver, logger: logger, decisions: decisions}
}

// Protect gates every request under it with the route's entry in the
// authorization table.
func (g *Guard) Protect(route Route) func(http.Handler) http.Handler {
	requiredRoles, guarded := RequiredRoles(route)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !guarded {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			userID := requestcontext.UserID(ctx)
			authenticated := !userID.IsZero()

			var role id.Role
			var roleResolved bool
			if authenticated && len(requiredRoles) > 0 {
				role, roleResolved = g.resolver.Resolve(ctx, userID)
			}

			decision := Decide(authenticated, requiredRoles, role, roleResolved)
			if g.decisions != nil {
				g.decisions.WithLabelValues(decision.String()).Inc()
			}

			switch decision {
			case DecisionAllow:
				next.ServeHTTP(w, r)
			case DecisionHold:
				// Role row not yet readable. Ask the client to retry
				// shortly instead of misreading the gap as forbidden.
				w.Header().Set("Retry-After", "1")
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"error":             "role_pending",
					"error_description": "role assignment is still resolving",
				})
			case DecisionDenyUnauthenticated:
				httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "unauthorized",
					"redirect": RedirectSignIn,
				})
			case DecisionDenyForbidden:
				g.logger.WarnContext(ctx, "route access denied",
					"route", string(route),
					"user_id", userID.String(),
					"role", string(role),
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":    "forbidden",
					"redirect": RedirectNeutral,
				})
			}
		})
	}
}
