package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/deskenvy/deskenvy-backend/internal/service"
	"github.com/deskenvy/deskenvy-backend/internal/session"
	"github.com/deskenvy/deskenvy-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type workspaceHandlerFixture struct {
	handler       *WorkspaceHandler
	userRepo      *testutil.MockUserRepository
	workspaceRepo *testutil.MockWorkspaceRepository
	deviceRepo    *testutil.MockDeviceRepository
	uploader      *testutil.MockImageUploader
	viewer        *session.SessionUser
}

func newWorkspaceHandlerFixture() *workspaceHandlerFixture {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	deviceRepo := testutil.NewMockDeviceRepository()
	interactionRepo := testutil.NewMockInteractionRepository()
	uploader := testutil.NewMockImageUploader()

	feedService := service.NewFeedService(workspaceRepo, deviceRepo, userRepo, interactionRepo, nil)
	workspaceService := service.NewWorkspaceService(workspaceRepo, deviceRepo, uploader, feedService)

	return &workspaceHandlerFixture{
		handler:       NewWorkspaceHandler(workspaceService, feedService),
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
		deviceRepo:    deviceRepo,
		uploader:      uploader,
		viewer:        &session.SessionUser{ID: uuid.New(), Email: "v@example.com", Username: "viewer"},
	}
}

// multipartWorkspaceForm builds the publish form. image may be nil to omit
// the file part.
func multipartWorkspaceForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("Failed to write form field: %v", err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "setup.jpg")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestCreateWorkspace_Multipart(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()

	body, contentType := multipartWorkspaceForm(t, map[string]string{
		"title":    "Battlestation",
		"category": "Gaming",
		"devices":  `[{"name": "Monitor", "xPercent": 50.5, "yPercent": 30.2, "price": "299.99"}]`,
	}, []byte("fake image bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupSessionContext(c, f.viewer)

	if err := f.handler.Create(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response domain.Workspace
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Title != "Battlestation" {
		t.Errorf("Expected title 'Battlestation', got %q", response.Title)
	}
	if response.ImageURL == "" {
		t.Error("Expected the image URL to be set")
	}

	devices := f.workspaceRepo.Devices[response.ID]
	if len(devices) != 1 {
		t.Fatalf("Expected 1 stored device, got %d", len(devices))
	}
}

func TestCreateWorkspace_MissingImage_BadRequest(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()

	body, contentType := multipartWorkspaceForm(t, map[string]string{
		"title":    "Battlestation",
		"category": "Gaming",
		"devices":  `[]`,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupSessionContext(c, f.viewer)

	if err := f.handler.Create(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem workspaceFormProblem
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Submitted.Title != "Battlestation" {
		t.Errorf("Expected the submitted title echoed back, got %q", problem.Submitted.Title)
	}
}

func TestCreateWorkspace_Anonymous_Unauthorized(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()

	body, contentType := multipartWorkspaceForm(t, map[string]string{"title": "X"}, []byte("img"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.Create(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCreateWorkspace_UploadFailure_BadGateway(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()
	f.uploader.UploadFn = func(ctx context.Context, data []byte, filename string) (string, error) {
		return "", service.ErrUploadFailed
	}

	body, contentType := multipartWorkspaceForm(t, map[string]string{
		"title":    "Battlestation",
		"category": "Gaming",
		"devices":  `[]`,
	}, []byte("fake image bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupSessionContext(c, f.viewer)

	if err := f.handler.Create(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rec.Code)
	}
	if len(f.workspaceRepo.Workspaces) != 0 {
		t.Error("Expected no workspace row after a failed upload")
	}
}

func TestCreateWorkspace_UploadFailure_EchoesSubmittedForm(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()
	f.uploader.UploadFn = func(ctx context.Context, data []byte, filename string) (string, error) {
		return "", service.ErrUploadFailed
	}

	body, contentType := multipartWorkspaceForm(t, map[string]string{
		"title":       "Minimal Desk",
		"description": "Oak and linen",
		"category":    "Minimalist",
		"devices":     `[{"name": "Lamp", "xPercent": 20, "yPercent": 75}]`,
	}, []byte("fake image bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupSessionContext(c, f.viewer)

	if err := f.handler.Create(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", rec.Code)
	}

	var problem struct {
		Detail    string `json:"detail"`
		Submitted struct {
			Title       string  `json:"title"`
			Description *string `json:"description"`
			Devices     []struct {
				Name string `json:"name"`
			} `json:"devices"`
		} `json:"submitted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Submitted.Title != "Minimal Desk" {
		t.Errorf("Expected the submitted title echoed back, got %q", problem.Submitted.Title)
	}
	if problem.Submitted.Description == nil || *problem.Submitted.Description != "Oak and linen" {
		t.Error("Expected the submitted description echoed back")
	}
	if len(problem.Submitted.Devices) != 1 || problem.Submitted.Devices[0].Name != "Lamp" {
		t.Errorf("Expected the submitted device list echoed back, got %+v", problem.Submitted.Devices)
	}
}

func TestUpdateWorkspace_ValidationFailure_EchoesSubmittedForm(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()

	workspaceID := uuid.New()
	f.workspaceRepo.AddWorkspace(&domain.Workspace{
		ID:       workspaceID,
		UserID:   f.viewer.ID,
		Title:    "Battlestation",
		Category: "Gaming",
	})

	body, contentType := multipartWorkspaceForm(t, map[string]string{
		"title":    "Corner Office",
		"category": "Not A Category",
		"devices":  `[]`,
	}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/workspaces/:id", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspaceID.String())
	setupSessionContext(c, f.viewer)

	if err := f.handler.Update(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problem workspaceFormProblem
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Submitted.Title != "Corner Office" {
		t.Errorf("Expected the submitted title echoed back, got %q", problem.Submitted.Title)
	}
}

func TestGetWorkspace_Detail(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()

	owner := &domain.User{ID: uuid.New(), Email: "o@example.com", Username: "owner"}
	f.userRepo.AddUser(owner)

	workspaceID := uuid.New()
	f.workspaceRepo.AddWorkspace(&domain.Workspace{
		ID:       workspaceID,
		UserID:   owner.ID,
		Title:    "Battlestation",
		Category: "Gaming",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/:id", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspaceID.String())

	if err := f.handler.Get(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var detail service.WorkspaceDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if detail.Username != "owner" {
		t.Errorf("Expected owner username, got %q", detail.Username)
	}
}

func TestGetWorkspace_NotFound(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/:id", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	if err := f.handler.Get(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestListWorkspaces_CategoryFilter(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()
	f.workspaceRepo.Summaries = []*domain.WorkspaceSummary{
		{Workspace: domain.Workspace{ID: uuid.New(), Category: "Gaming"}, Username: "a"},
		{Workspace: domain.Workspace{ID: uuid.New(), Category: "Creative"}, Username: "b"},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces?category=Gaming", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.List(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var summaries []*domain.WorkspaceSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].Category != "Gaming" {
		t.Errorf("Expected Gaming, got %s", summaries[0].Category)
	}
}

func TestDeleteWorkspace_NotOwner_Forbidden(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()

	workspaceID := uuid.New()
	f.workspaceRepo.AddWorkspace(&domain.Workspace{
		ID:       workspaceID,
		UserID:   uuid.New(),
		Title:    "Battlestation",
		Category: "Gaming",
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workspaces/:id", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspaceID.String())
	setupSessionContext(c, f.viewer)

	if err := f.handler.Delete(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestDeleteWorkspace_Owner_NoContent(t *testing.T) {
	e := echo.New()
	f := newWorkspaceHandlerFixture()

	workspaceID := uuid.New()
	f.workspaceRepo.AddWorkspace(&domain.Workspace{
		ID:       workspaceID,
		UserID:   f.viewer.ID,
		Title:    "Battlestation",
		Category: "Gaming",
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workspaces/:id", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspaceID.String())
	setupSessionContext(c, f.viewer)

	if err := f.handler.Delete(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if _, ok := f.workspaceRepo.Workspaces[workspaceID]; ok {
		t.Error("Expected the workspace to be removed")
	}
}
