package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/deskenvy/deskenvy-backend/internal/middleware"
	"github.com/deskenvy/deskenvy-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WorkspaceHandler handles workspace browse, detail, and publish requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
	feedService      *service.FeedService
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService, feedService *service.FeedService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		feedService:      feedService,
	}
}

// List returns workspace cards for the browse page. The viewer's like/save
// flags are filled in when a session is present.
func (h *WorkspaceHandler) List(c echo.Context) error {
	var viewerID *uuid.UUID
	if user := middleware.CurrentUser(c); user != nil {
		viewerID = &user.ID
	}

	summaries, err := h.feedService.ListFeed(c.Request().Context(), viewerID, c.QueryParam("category"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list workspaces")
		return NewInternalError(c, "Failed to load workspaces")
	}

	return c.JSON(http.StatusOK, summaries)
}

// Get returns a workspace page with its tagged devices
func (h *WorkspaceHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	var viewerID *uuid.UUID
	if user := middleware.CurrentUser(c); user != nil {
		viewerID = &user.ID
	}

	detail, err := h.feedService.GetWorkspaceDetail(id, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Str("workspace_id", id.String()).Msg("Failed to load workspace")
		return NewInternalError(c, "Failed to load workspace")
	}

	return c.JSON(http.StatusOK, detail)
}

// submittedWorkspaceForm carries the form fields of a failed create or
// update back to the client so the publish form can be repopulated
type submittedWorkspaceForm struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Devices     json.RawMessage `json:"devices"`
}

// workspaceFormProblem is a ProblemDetails with the submitted form attached
// as an RFC 7807 extension member
type workspaceFormProblem struct {
	ProblemDetails
	Submitted submittedWorkspaceForm `json:"submitted"`
}

func submittedForm(c echo.Context) submittedWorkspaceForm {
	form := submittedWorkspaceForm{
		Title:       c.FormValue("title"),
		Description: optionalFormValue(c, "description"),
	}
	// Malformed device JSON is reported via the problem detail, not echoed
	if devices := c.FormValue("devices"); devices != "" && json.Valid([]byte(devices)) {
		form.Devices = json.RawMessage(devices)
	}
	return form
}

// Create publishes a workspace from a multipart form: title, category,
// optional description, a devices JSON list, and the photo itself
func (h *WorkspaceHandler) Create(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	form := submittedForm(c)

	image, filename, err := readImageFile(c)
	if err != nil {
		problem := newProblem(c, ErrorTypeValidation, "Validation Error",
			http.StatusBadRequest, "Workspace image is required")
		problem.Errors = []ValidationError{{Field: "image", Message: "Must be a valid image file"}}
		return c.JSON(problem.Status, workspaceFormProblem{ProblemDetails: problem, Submitted: form})
	}

	workspace, err := h.workspaceService.Create(c.Request().Context(), service.CreateWorkspaceInput{
		UserID:        user.ID,
		Title:         form.Title,
		Description:   form.Description,
		Category:      c.FormValue("category"),
		Image:         image,
		ImageFilename: filename,
		DevicesJSON:   c.FormValue("devices"),
	})
	if err != nil {
		return h.writeFormError(c, err, form)
	}

	return c.JSON(http.StatusCreated, workspace)
}

// Update edits a workspace the caller owns. Omitting the image file keeps
// the stored photo; the devices list always replaces the stored set.
func (h *WorkspaceHandler) Update(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	form := submittedForm(c)

	// Replacement image is optional on update
	image, filename, _ := readImageFile(c)

	workspace, err := h.workspaceService.Update(c.Request().Context(), service.UpdateWorkspaceInput{
		ID:            id,
		UserID:        user.ID,
		Title:         form.Title,
		Description:   form.Description,
		Category:      c.FormValue("category"),
		Image:         image,
		ImageFilename: filename,
		DevicesJSON:   c.FormValue("devices"),
	})
	if err != nil {
		return h.writeFormError(c, err, form)
	}

	return c.JSON(http.StatusOK, workspace)
}

// Delete removes a workspace the caller owns
func (h *WorkspaceHandler) Delete(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	if err := h.workspaceService.Delete(id, user.ID); err != nil {
		return h.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *WorkspaceHandler) writeError(c echo.Context, err error) error {
	problem := h.problemFor(c, err)
	return c.JSON(problem.Status, problem)
}

// writeFormError reports a failed create or update with the submitted form
// echoed back for repopulation
func (h *WorkspaceHandler) writeFormError(c echo.Context, err error, form submittedWorkspaceForm) error {
	problem := h.problemFor(c, err)
	return c.JSON(problem.Status, workspaceFormProblem{ProblemDetails: problem, Submitted: form})
}

func (h *WorkspaceHandler) problemFor(c echo.Context, err error) ProblemDetails {
	switch {
	case errors.Is(err, domain.ErrWorkspaceNotFound), errors.Is(err, domain.ErrNotFound):
		return newProblem(c, ErrorTypeNotFound, "Not Found",
			http.StatusNotFound, "Workspace not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return newProblem(c, ErrorTypeForbidden, "Forbidden",
			http.StatusForbidden, "You do not own this workspace")
	case errors.Is(err, domain.ErrWorkspaceTitleEmpty),
		errors.Is(err, domain.ErrWorkspaceTitleLong),
		errors.Is(err, domain.ErrWorkspaceImageRequired),
		errors.Is(err, domain.ErrWorkspaceInvalidCategory),
		errors.Is(err, domain.ErrDeviceNameEmpty),
		errors.Is(err, domain.ErrDeviceNameLong),
		errors.Is(err, domain.ErrDevicePositionRange),
		errors.Is(err, domain.ErrDevicePriceNegative),
		errors.Is(err, domain.ErrDeviceInvalidLink),
		errors.Is(err, service.ErrInvalidDevicePayload),
		errors.Is(err, service.ErrImageTooLarge),
		errors.Is(err, service.ErrImageTooSmall),
		errors.Is(err, service.ErrInvalidFormat),
		errors.Is(err, service.ErrInvalidImageData):
		return newProblem(c, ErrorTypeValidation, "Validation Error",
			http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		return newProblem(c, ErrorTypeUpstream, "Upstream Error",
			http.StatusBadGateway, "Image storage is unavailable")
	default:
		log.Error().Err(err).Msg("Workspace operation failed")
		return newProblem(c, ErrorTypeInternal, "Internal Server Error",
			http.StatusInternalServerError, "Something went wrong")
	}
}

func readImageFile(c echo.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, "", err
	}
	return readMultipartFile(fileHeader)
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Filename, nil
}

func optionalFormValue(c echo.Context, name string) *string {
	value := c.FormValue(name)
	if value == "" {
		return nil
	}
	return &value
}
