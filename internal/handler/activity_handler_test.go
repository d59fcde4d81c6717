package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/deskenvy/deskenvy-backend/internal/realtime"
	"github.com/deskenvy/deskenvy-backend/internal/service"
	"github.com/deskenvy/deskenvy-backend/internal/session"
	"github.com/deskenvy/deskenvy-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newActivityHandlerFixture(t *testing.T) (*ActivityHandler, *session.Manager, uuid.UUID) {
	t.Helper()

	workspaceRepo := testutil.NewMockWorkspaceRepository()
	deviceRepo := testutil.NewMockDeviceRepository()
	uploader := testutil.NewMockImageUploader()
	workspaceService := service.NewWorkspaceService(workspaceRepo, deviceRepo, uploader, nil)

	workspaceID := uuid.New()
	workspaceRepo.AddWorkspace(&domain.Workspace{
		ID:       workspaceID,
		UserID:   uuid.New(),
		Title:    "Battlestation",
		Category: "Gaming",
	})

	sessions := session.NewManager([]byte(testSecret))
	handler := NewActivityHandler(realtime.NewHub(), workspaceService, sessions, []string{"http://localhost:3000"})
	return handler, sessions, workspaceID
}

func subscribeRequest(t *testing.T, handler *ActivityHandler, paramID string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/:id/activity", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(paramID)

	if err := handler.Subscribe(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return rec
}

func TestSubscribe_NoSession_Unauthorized(t *testing.T) {
	handler, _, workspaceID := newActivityHandlerFixture(t)

	rec := subscribeRequest(t, handler, workspaceID.String(), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestSubscribe_InvalidToken_Unauthorized(t *testing.T) {
	handler, _, workspaceID := newActivityHandlerFixture(t)

	rec := subscribeRequest(t, handler, workspaceID.String(), session.NewCookie("not-a-token"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestSubscribe_UnknownWorkspace_NotFound(t *testing.T) {
	handler, sessions, _ := newActivityHandlerFixture(t)

	token, err := sessions.Issue(&domain.User{ID: uuid.New(), Email: "a@example.com", Username: "deskfan"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rec := subscribeRequest(t, handler, uuid.NewString(), session.NewCookie(token))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestSubscribe_MalformedID_BadRequest(t *testing.T) {
	handler, sessions, _ := newActivityHandlerFixture(t)

	token, err := sessions.Issue(&domain.User{ID: uuid.New(), Email: "a@example.com", Username: "deskfan"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rec := subscribeRequest(t, handler, "nope", session.NewCookie(token))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
