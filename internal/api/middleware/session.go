package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

// SessionCookie is the cookie carrying the session token for browser clients.
const SessionCookie = "session"

const (
	ctxIdentity  = "session_identity"
	ctxSessionID = "session_id"
	ctxStale     = "session_stale"
)

// SessionResolver turns a token into the session it names.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, *domain.SessionIdentity, error)
}

// Session loads the caller's session when a token is presented, either as a
// bearer token or as the session cookie. Requests without a token continue
// anonymously and are refused later by Dispatch. A token that no longer
// resolves is treated the same way, except that the request is marked stale
// so Dispatch answers domain.ErrUnauthenticated, and a stale cookie is
// cleared. Public routes such as login keep working with a stale token.
func Session(resolver SessionResolver, secureCookie bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := Token(c)
			if token == "" {
				return next(c)
			}

			sessionID, identity, err := resolver.Resolve(c.Request().Context(), token)
			if errors.Is(err, domain.ErrUnauthenticated) {
				c.Set(ctxStale, true)
				if fromCookie(c, token) {
					c.SetCookie(NewSessionCookie("", -1, secureCookie))
				}
				return next(c)
			}
			if err != nil {
				return err
			}

			c.Set(ctxSessionID, sessionID)
			c.Set(ctxIdentity, identity)
			return next(c)
		}
	}
}

// NewSessionCookie builds the session cookie. A negative maxAge deletes it.
func NewSessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Token returns the session token from the Authorization header or, failing
// that, from the session cookie.
func Token(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// StaleSession reports whether the request carried a token that did not
// resolve to a live session.
func StaleSession(c echo.Context) bool {
	stale, _ := c.Get(ctxStale).(bool)
	return stale
}

func fromCookie(c echo.Context, token string) bool {
	if c.Request().Header.Get(echo.HeaderAuthorization) != "" {
		return false
	}
	cookie, err := c.Cookie(SessionCookie)
	return err == nil && cookie.Value == token
}

// SessionIdentity returns the identity loaded by Session, or nil.
func SessionIdentity(c echo.Context) *domain.SessionIdentity {
	identity, _ := c.Get(ctxIdentity).(*domain.SessionIdentity)
	return identity
}

// SessionID returns the id of the session loaded by Session, or "".
func SessionID(c echo.Context) string {
	id, _ := c.Get(ctxSessionID).(string)
	return id
}
