package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/huellitas/vetrecords/internal/api/metrics"
	"github.com/huellitas/vetrecords/internal/core/access"
	"github.com/huellitas/vetrecords/internal/core/domain"
)

// ProtectedHandler is a handler that only runs for an authorized caller.
type ProtectedHandler func(c echo.Context, caller domain.SessionIdentity) error

// Dispatch wraps h so it only runs when the session may perform action.
// Denied requests never reach h and fail with an error wrapping
// domain.ErrForbidden, or domain.ErrUnauthenticated when the request came
// with a token whose session is gone.
func Dispatch(action access.Action, h ProtectedHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := SessionIdentity(c)
		decision := access.Check(identity, action)
		if !decision.Allowed {
			metrics.AuthorizationDecisionsTotal.WithLabelValues(string(action), string(decision.Reason)).Inc()
			if identity == nil && StaleSession(c) {
				return domain.ErrUnauthenticated
			}
			return decision.Err()
		}

		metrics.AuthorizationDecisionsTotal.WithLabelValues(string(action), "allowed").Inc()
		return h(c, *identity)
	}
}
