package middleware

import (
	"context"

	"github.com/deskenvy/deskenvy-backend/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// UserKey is the context key for the verified session user
const UserKey contextKey = "session_user"

// SessionMiddleware re-derives the acting user from the session cookie on
// every request
type SessionMiddleware struct {
	manager *session.Manager
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(manager *session.Manager) *SessionMiddleware {
	return &SessionMiddleware{manager: manager}
}

// Optional verifies the session cookie when present. Any verification
// failure degrades to anonymous; no error surfaces.
func (m *SessionMiddleware) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user := m.verify(c); user != nil {
				c.SetRequest(c.Request().WithContext(
					context.WithValue(c.Request().Context(), UserKey, user)))
			}
			return next(c)
		}
	}
}

// Required rejects requests without a valid session
func (m *SessionMiddleware) Required() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := m.verify(c)
			if user == nil {
				return unauthorizedError(c, "Authentication required")
			}
			c.SetRequest(c.Request().WithContext(
				context.WithValue(c.Request().Context(), UserKey, user)))
			return next(c)
		}
	}
}

func (m *SessionMiddleware) verify(c echo.Context) *session.SessionUser {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	user, err := m.manager.Verify(cookie.Value)
	if err != nil {
		// Expired, tampered, malformed: all collapse to "no session"
		log.Debug().Err(err).Msg("Session verification failed")
		return nil
	}
	return user
}

// CurrentUser extracts the verified session user from the context, or nil
func CurrentUser(c echo.Context) *session.SessionUser {
	if user, ok := c.Request().Context().Value(UserKey).(*session.SessionUser); ok {
		return user
	}
	return nil
}
