package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the session cookie carrying the signed token
const CookieName = "session"

// TTL is the fixed validity window for a session token
const TTL = 7 * 24 * time.Hour

// ErrInvalidSession is returned for every verification failure: bad
// signature, malformed token, wrong algorithm, or expiry. Callers treat it
// as "no session".
var ErrInvalidSession = errors.New("invalid session")

// SessionUser is the identity carried in the token claims
type SessionUser struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
}

// Claims are the signed session claims
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues and verifies stateless HS256 session tokens. There is no
// server-side session table; a token is valid until it expires or the
// cookie is deleted.
type Manager struct {
	secret []byte
}

// NewManager creates a Manager with the given signing secret
func NewManager(secret []byte) *Manager {
	return &Manager{secret: secret}
}

// Issue produces a signed token bound to the user, valid for one week
func (m *Manager) Issue(user *domain.User) (string, error) {
	return m.sign(SessionUser{ID: user.ID, Email: user.Email, Username: user.Username}, time.Now())
}

// Verify checks signature and expiry and returns the embedded identity
func (m *Manager) Verify(tokenStr string) (*SessionUser, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalidSession
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidSession
	}
	return &SessionUser{ID: id, Email: claims.Email, Username: claims.Username}, nil
}

// Refresh re-signs the token's claims with a new one-week expiry. The user
// identity is carried over unchanged.
func (m *Manager) Refresh(tokenStr string) (string, error) {
	user, err := m.Verify(tokenStr)
	if err != nil {
		return "", err
	}
	return m.sign(*user, time.Now())
}

func (m *Manager) sign(user SessionUser, now time.Time) (string, error) {
	claims := Claims{
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// NewCookie wraps a token in the session cookie
func NewCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearedCookie returns an already-expired session cookie. Signing state is
// untouched; outstanding tokens remain valid until they expire.
func ClearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
