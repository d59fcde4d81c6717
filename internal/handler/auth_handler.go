package handler

import (
	"errors"
	"net/http"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/deskenvy/deskenvy-backend/internal/middleware"
	"github.com/deskenvy/deskenvy-backend/internal/service"
	"github.com/deskenvy/deskenvy-backend/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, signin, and session lifecycle requests
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SigninRequest represents the signin request body
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
	}
}

// Signup creates an account and starts a session in the same response
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.authService.Signup(service.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Email, username and password are required", nil)
		}
		if errors.Is(err, domain.ErrUserExists) {
			return NewConflictError(c, "Email or username is already taken")
		}
		log.Error().Err(err).Msg("Signup failed")
		return NewInternalError(c, "Failed to create account")
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Signin verifies credentials and starts a session
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.authService.Signin(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Email and password are required", nil)
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid credentials")
		}
		log.Error().Err(err).Msg("Signin failed")
		return NewInternalError(c, "Failed to sign in")
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout clears the session cookie. Outstanding tokens stay valid until
// they expire; logout is purely client-side state removal.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(session.ClearedCookie())
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Refresh re-signs the current session token with a fresh expiry
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	token, err := h.sessions.Refresh(cookie.Value)
	if err != nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	c.SetCookie(session.NewCookie(token))
	return c.JSON(http.StatusOK, map[string]string{"message": "Session refreshed"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c echo.Context) error {
	sessionUser := middleware.CurrentUser(c)
	if sessionUser == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetUserByID(sessionUser.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Token outlived the account
			return NewUnauthorizedError(c, "Authentication required")
		}
		log.Error().Err(err).Msg("Failed to load user")
		return NewInternalError(c, "Failed to load user")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) startSession(c echo.Context, user *domain.User) error {
	token, err := h.sessions.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to issue session token")
		return NewInternalError(c, "Failed to start session")
	}
	c.SetCookie(session.NewCookie(token))
	return nil
}
