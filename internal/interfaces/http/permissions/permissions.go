package permissions

import "net/http"

const (
	// EntityPublic routes are served without authentication.
	EntityPublic = "public"
	// EntityCaller routes require a valid token, the application services
	// decide whether its subject can perform the operation.
	EntityCaller = "caller"
)

// Route identifies an endpoint by method and path template.
type Route struct {
	Method string
	Path   string
}

func (r Route) String() string {
	return r.Method + " " + r.Path
}

// Whitelist returns the routes that don't require authentication.
func Whitelist() map[Route]struct{} {
	return map[Route]struct{}{
		{http.MethodGet, "/v1/info"}: {},
		{http.MethodGet, "/metrics"}: {},
	}
}

// AllPermissionsByRoute returns the entity required by every route exposed
// by the daemon.
func AllPermissionsByRoute() map[Route]string {
	routes := map[Route]string{
		{http.MethodPost, "/v1/mint"}:                      EntityCaller,
		{http.MethodGet, "/v1/mints"}:                      EntityCaller,
		{http.MethodGet, "/v1/mints/:ref"}:                 EntityCaller,
		{http.MethodGet, "/v1/accounts"}:                   EntityCaller,
		{http.MethodGet, "/v1/accounts/:address"}:          EntityCaller,
		{http.MethodGet, "/v1/supply"}:                     EntityCaller,
		{http.MethodPost, "/v1/approve"}:                   EntityCaller,
		{http.MethodGet, "/v1/allowances/:owner/:spender"}: EntityCaller,
		{http.MethodPost, "/v1/transfer"}:                  EntityCaller,
		{http.MethodPost, "/v1/transfer-from"}:             EntityCaller,
		{http.MethodPost, "/v1/peers"}:                     EntityCaller,
		{http.MethodGet, "/v1/peers"}:                      EntityCaller,
		{http.MethodPost, "/v1/transport/send"}:            EntityCaller,
		{http.MethodPost, "/v1/transport/receive"}:         EntityCaller,
		{http.MethodGet, "/v1/transport/messages"}:         EntityCaller,
		{http.MethodGet, "/v1/transport/messages/:id"}:     EntityCaller,
		{http.MethodPost, "/v1/collateral/deposit"}:        EntityCaller,
		{http.MethodPost, "/v1/collateral/withdraw"}:       EntityCaller,
		{http.MethodGet, "/v1/collateral"}:                 EntityCaller,
		{http.MethodGet, "/v1/exchange"}:                   EntityCaller,
		{http.MethodGet, "/v1/exchange/quote"}:             EntityCaller,
		{http.MethodGet, "/v1/exchange/can-redeem"}:        EntityCaller,
		{http.MethodPost, "/v1/exchange/redeem"}:           EntityCaller,
		{http.MethodPost, "/v1/exchange/pause"}:            EntityCaller,
		{http.MethodPost, "/v1/exchange/resume"}:           EntityCaller,
		{http.MethodPost, "/v1/exchange/rate"}:             EntityCaller,
		{http.MethodGet, "/v1/exchange/redemptions"}:       EntityCaller,
		{http.MethodPost, "/v1/auth/tokens"}:               EntityCaller,
	}
	for route := range Whitelist() {
		routes[route] = EntityPublic
	}
	return routes
}

// IsPublic ...
func IsPublic(method, path string) bool {
	_, ok := Whitelist()[Route{method, path}]
	return ok
}
