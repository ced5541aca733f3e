// Package authz implements the route guard: the single decision function
// gating every protected screen, plus the shared authorization table mapping
// routes to allowed role sets. Every gated route consults the same table and
// the same Decide implementation; no per-screen ad hoc checks.
package authz

import (
	"slices"

	id "innoport/pkg/domain"
)

// Decision is the route guard's verdict for one request.
type Decision int

const (
	// DecisionAllow admits the request.
	DecisionAllow Decision = iota
	// DecisionHold defers: the identity is present but its role is not yet
	// readable. Denying here would bounce a legitimate user whose role row
	// is still resolving.
	DecisionHold
	// DecisionDenyUnauthenticated denies and redirects to sign-in.
	DecisionDenyUnauthenticated
	// DecisionDenyForbidden denies an authenticated user and redirects to a
	// neutral page (not sign-in, since they are already signed in).
	DecisionDenyForbidden
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionHold:
		return "hold"
	case DecisionDenyUnauthenticated:
		return "deny_unauthenticated"
	case DecisionDenyForbidden:
		return "deny_forbidden"
	}
	return "unknown"
}

// Redirect targets for the deny decisions.
const (
	RedirectSignIn  = "/auth"
	RedirectNeutral = "/dashboard"
)

// Decide applies the guard's decision table. An empty requiredRoles means
// "any authenticated user". roleResolved=false means the role is still
// loading (or failed soft); it must not read as forbidden.
func Decide(authenticated bool, requiredRoles []id.Role, role id.Role, roleResolved bool) Decision {
	if !authenticated {
		return DecisionDenyUnauthenticated
	}
	if len(requiredRoles) == 0 {
		return DecisionAllow
	}
	if !roleResolved {
		return DecisionHold
	}
	if slices.Contains(requiredRoles, role) {
		return DecisionAllow
	}
	return DecisionDenyForbidden
}

// Route names the portal's screens. The HTTP layer maps URL prefixes onto
// these; the guard table is keyed by screen, not by URL shape.
type Route string

const (
	RouteDashboard     Route = "/dashboard"
	RouteResearch      Route = "/research"
	RouteIPR           Route = "/ipr"
	RouteStartups      Route = "/startups"
	RouteCollaboration Route = "/collaboration"
	RouteAnalytics     Route = "/analytics"
)

// routeRoles is the single authorization table. A present entry with an
// empty set means "any authenticated user"; absent routes are public.
var routeRoles = map[Route][]id.Role{
	RouteDashboard:     {},
	RouteResearch:      {id.RoleAdmin, id.RoleResearcher, id.RoleInvestor},
	RouteIPR:           {id.RoleAdmin, id.RoleResearcher, id.RoleInvestor},
	RouteStartups:      {id.RoleAdmin, id.RoleStartup, id.RoleInvestor},
	RouteCollaboration: {id.RoleResearcher, id.RoleStartup},
	RouteAnalytics:     {id.RoleAdmin, id.RoleInvestor},
}

// RequiredRoles looks a route up in the authorization table. guarded=false
// means the route is public.
func RequiredRoles(route Route) (roles []id.Role, guarded bool) {
	roles, guarded = routeRoles[route]
	return roles, guarded
}

// GuardedRoutes lists every gated route, for exhaustive tests.
func GuardedRoutes() []Route {
	return []Route{
		RouteDashboard, RouteResearch, RouteIPR,
		RouteStartups, RouteCollaboration, RouteAnalytics,
	}
}
