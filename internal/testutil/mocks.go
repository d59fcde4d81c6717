package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID     map[uuid.UUID]*domain.User
	ByEmail  map[string]*domain.User
	CreateFn func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmailOrUsername retrieves a user matching either identifier
func (m *MockUserRepository) GetByEmailOrUsername(email, username string) (*domain.User, error) {
	if user, ok := m.ByEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	for _, user := range m.ByID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[strings.ToLower(user.Email)] = user
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces map[uuid.UUID]*domain.Workspace
	Devices    map[uuid.UUID][]*domain.Device // keyed by workspace ID
	Summaries  []*domain.WorkspaceSummary

	CreateWithDevicesFn func(workspace *domain.Workspace, devices []*domain.Device) (*domain.Workspace, error)
	UpdateWithDevicesFn func(workspace *domain.Workspace, devices []*domain.Device) (*domain.Workspace, error)
	ListSummariesFn     func(viewerID *uuid.UUID, category *string) ([]*domain.WorkspaceSummary, error)
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces: make(map[uuid.UUID]*domain.Workspace),
		Devices:    make(map[uuid.UUID][]*domain.Device),
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(id uuid.UUID) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// ListSummaries returns the configured summary list, filtered by category
func (m *MockWorkspaceRepository) ListSummaries(viewerID *uuid.UUID, category *string) ([]*domain.WorkspaceSummary, error) {
	if m.ListSummariesFn != nil {
		return m.ListSummariesFn(viewerID, category)
	}
	if category == nil {
		return m.Summaries, nil
	}
	filtered := make([]*domain.WorkspaceSummary, 0)
	for _, s := range m.Summaries {
		if s.Category == *category {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// ListByUser returns a user's own workspaces
func (m *MockWorkspaceRepository) ListByUser(userID uuid.UUID) ([]*domain.Workspace, error) {
	result := make([]*domain.Workspace, 0)
	for _, ws := range m.Workspaces {
		if ws.UserID == userID {
			result = append(result, ws)
		}
	}
	return result, nil
}

// ListSavedByUser returns workspaces the user has saved. Tests seed this via
// the Summaries or Workspaces maps directly; the default is empty.
func (m *MockWorkspaceRepository) ListSavedByUser(userID uuid.UUID) ([]*domain.Workspace, error) {
	return []*domain.Workspace{}, nil
}

// CreateWithDevices stores the workspace and its device list
func (m *MockWorkspaceRepository) CreateWithDevices(workspace *domain.Workspace, devices []*domain.Device) (*domain.Workspace, error) {
	if m.CreateWithDevicesFn != nil {
		return m.CreateWithDevicesFn(workspace, devices)
	}
	workspace.ID = uuid.New()
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = workspace.CreatedAt
	m.Workspaces[workspace.ID] = workspace
	for _, d := range devices {
		d.ID = uuid.New()
		d.WorkspaceID = workspace.ID
	}
	m.Devices[workspace.ID] = devices
	return workspace, nil
}

// UpdateWithDevices replaces the workspace row and its device list
func (m *MockWorkspaceRepository) UpdateWithDevices(workspace *domain.Workspace, devices []*domain.Device) (*domain.Workspace, error) {
	if m.UpdateWithDevicesFn != nil {
		return m.UpdateWithDevicesFn(workspace, devices)
	}
	if _, ok := m.Workspaces[workspace.ID]; !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	workspace.UpdatedAt = time.Now()
	m.Workspaces[workspace.ID] = workspace
	for _, d := range devices {
		d.ID = uuid.New()
		d.WorkspaceID = workspace.ID
	}
	m.Devices[workspace.ID] = devices
	return workspace, nil
}

// Delete removes a workspace and its devices
func (m *MockWorkspaceRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Workspaces[id]; !ok {
		return domain.ErrWorkspaceNotFound
	}
	delete(m.Workspaces, id)
	delete(m.Devices, id)
	return nil
}

// AddWorkspace adds a workspace to the mock repository (helper for tests)
func (m *MockWorkspaceRepository) AddWorkspace(workspace *domain.Workspace) {
	m.Workspaces[workspace.ID] = workspace
}

// MockDeviceRepository is a mock implementation of domain.DeviceRepository
type MockDeviceRepository struct {
	Devices map[uuid.UUID]*domain.Device
	Saved   map[uuid.UUID][]*domain.Device // keyed by user ID
}

// NewMockDeviceRepository creates a new MockDeviceRepository
func NewMockDeviceRepository() *MockDeviceRepository {
	return &MockDeviceRepository{
		Devices: make(map[uuid.UUID]*domain.Device),
		Saved:   make(map[uuid.UUID][]*domain.Device),
	}
}

// GetByID retrieves a device by ID
func (m *MockDeviceRepository) GetByID(id uuid.UUID) (*domain.Device, error) {
	if d, ok := m.Devices[id]; ok {
		return d, nil
	}
	return nil, domain.ErrDeviceNotFound
}

// ListByWorkspace returns devices tagged on a workspace
func (m *MockDeviceRepository) ListByWorkspace(workspaceID uuid.UUID) ([]*domain.Device, error) {
	result := make([]*domain.Device, 0)
	for _, d := range m.Devices {
		if d.WorkspaceID == workspaceID {
			result = append(result, d)
		}
	}
	return result, nil
}

// ListSavedByUser returns devices the user has saved
func (m *MockDeviceRepository) ListSavedByUser(userID uuid.UUID) ([]*domain.Device, error) {
	if saved, ok := m.Saved[userID]; ok {
		return saved, nil
	}
	return []*domain.Device{}, nil
}

// AddDevice adds a device to the mock repository (helper for tests)
func (m *MockDeviceRepository) AddDevice(device *domain.Device) {
	m.Devices[device.ID] = device
}

type interactionKey struct {
	userID   uuid.UUID
	targetID uuid.UUID
}

// MockInteractionRepository is an in-memory implementation of
// domain.InteractionRepository backed by four (user, target) maps
type MockInteractionRepository struct {
	mu             sync.Mutex
	likes          map[interactionKey]*domain.Like
	savedWs        map[interactionKey]*domain.SavedWorkspace
	deviceLikes    map[interactionKey]*domain.DeviceLike
	savedDevices   map[interactionKey]*domain.SavedDevice
	CreateLikeFn   func(userID, workspaceID uuid.UUID) (*domain.Like, error)
	DeleteLikeFn   func(id uuid.UUID) error
}

// NewMockInteractionRepository creates a new MockInteractionRepository
func NewMockInteractionRepository() *MockInteractionRepository {
	return &MockInteractionRepository{
		likes:        make(map[interactionKey]*domain.Like),
		savedWs:      make(map[interactionKey]*domain.SavedWorkspace),
		deviceLikes:  make(map[interactionKey]*domain.DeviceLike),
		savedDevices: make(map[interactionKey]*domain.SavedDevice),
	}
}

// GetLike retrieves a workspace like row
func (m *MockInteractionRepository) GetLike(userID, workspaceID uuid.UUID) (*domain.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.likes[interactionKey{userID, workspaceID}]; ok {
		return row, nil
	}
	return nil, domain.ErrNotFound
}

// CreateLike inserts a workspace like row
func (m *MockInteractionRepository) CreateLike(userID, workspaceID uuid.UUID) (*domain.Like, error) {
	if m.CreateLikeFn != nil {
		return m.CreateLikeFn(userID, workspaceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := interactionKey{userID, workspaceID}
	if _, ok := m.likes[key]; ok {
		return nil, domain.ErrAlreadyExists
	}
	row := &domain.Like{ID: uuid.New(), UserID: userID, WorkspaceID: workspaceID, CreatedAt: time.Now()}
	m.likes[key] = row
	return row, nil
}

// DeleteLike removes a workspace like row by ID
func (m *MockInteractionRepository) DeleteLike(id uuid.UUID) error {
	if m.DeleteLikeFn != nil {
		return m.DeleteLikeFn(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, row := range m.likes {
		if row.ID == id {
			delete(m.likes, key)
			return nil
		}
	}
	return domain.ErrNotFound
}

// GetSavedWorkspace retrieves a workspace save row
func (m *MockInteractionRepository) GetSavedWorkspace(userID, workspaceID uuid.UUID) (*domain.SavedWorkspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.savedWs[interactionKey{userID, workspaceID}]; ok {
		return row, nil
	}
	return nil, domain.ErrNotFound
}

// CreateSavedWorkspace inserts a workspace save row
func (m *MockInteractionRepository) CreateSavedWorkspace(userID, workspaceID uuid.UUID) (*domain.SavedWorkspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := interactionKey{userID, workspaceID}
	if _, ok := m.savedWs[key]; ok {
		return nil, domain.ErrAlreadyExists
	}
	row := &domain.SavedWorkspace{ID: uuid.New(), UserID: userID, WorkspaceID: workspaceID, CreatedAt: time.Now()}
	m.savedWs[key] = row
	return row, nil
}

// DeleteSavedWorkspace removes a workspace save row by ID
func (m *MockInteractionRepository) DeleteSavedWorkspace(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, row := range m.savedWs {
		if row.ID == id {
			delete(m.savedWs, key)
			return nil
		}
	}
	return domain.ErrNotFound
}

// GetDeviceLike retrieves a device like row
func (m *MockInteractionRepository) GetDeviceLike(userID, deviceID uuid.UUID) (*domain.DeviceLike, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.deviceLikes[interactionKey{userID, deviceID}]; ok {
		return row, nil
	}
	return nil, domain.ErrNotFound
}

// CreateDeviceLike inserts a device like row
func (m *MockInteractionRepository) CreateDeviceLike(userID, deviceID uuid.UUID) (*domain.DeviceLike, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := interactionKey{userID, deviceID}
	if _, ok := m.deviceLikes[key]; ok {
		return nil, domain.ErrAlreadyExists
	}
	row := &domain.DeviceLike{ID: uuid.New(), UserID: userID, DeviceID: deviceID, CreatedAt: time.Now()}
	m.deviceLikes[key] = row
	return row, nil
}

// DeleteDeviceLike removes a device like row by ID
func (m *MockInteractionRepository) DeleteDeviceLike(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, row := range m.deviceLikes {
		if row.ID == id {
			delete(m.deviceLikes, key)
			return nil
		}
	}
	return domain.ErrNotFound
}

// GetSavedDevice retrieves a device save row
func (m *MockInteractionRepository) GetSavedDevice(userID, deviceID uuid.UUID) (*domain.SavedDevice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.savedDevices[interactionKey{userID, deviceID}]; ok {
		return row, nil
	}
	return nil, domain.ErrNotFound
}

// CreateSavedDevice inserts a device save row
func (m *MockInteractionRepository) CreateSavedDevice(userID, deviceID uuid.UUID) (*domain.SavedDevice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := interactionKey{userID, deviceID}
	if _, ok := m.savedDevices[key]; ok {
		return nil, domain.ErrAlreadyExists
	}
	row := &domain.SavedDevice{ID: uuid.New(), UserID: userID, DeviceID: deviceID, CreatedAt: time.Now()}
	m.savedDevices[key] = row
	return row, nil
}

// DeleteSavedDevice removes a device save row by ID
func (m *MockInteractionRepository) DeleteSavedDevice(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, row := range m.savedDevices {
		if row.ID == id {
			delete(m.savedDevices, key)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockImageUploader records uploads and returns a deterministic URL
type MockImageUploader struct {
	Uploads  [][]byte
	UploadFn func(ctx context.Context, data []byte, filename string) (string, error)
}

// NewMockImageUploader creates a new MockImageUploader
func NewMockImageUploader() *MockImageUploader {
	return &MockImageUploader{}
}

// UploadWorkspaceImage records the upload and returns a stable URL
func (m *MockImageUploader) UploadWorkspaceImage(ctx context.Context, data []byte, filename string) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, data, filename)
	}
	m.Uploads = append(m.Uploads, data)
	return "https://images.test/workspaces/" + filename, nil
}

// PublishedActivity is one recorded activity event
type PublishedActivity struct {
	Kind        string
	WorkspaceID uuid.UUID
	TargetID    uuid.UUID
	ActorID     uuid.UUID
	Active      bool
}

// MockActivityPublisher records published activity events
type MockActivityPublisher struct {
	mu     sync.Mutex
	Events []PublishedActivity
}

// NewMockActivityPublisher creates a new MockActivityPublisher
func NewMockActivityPublisher() *MockActivityPublisher {
	return &MockActivityPublisher{}
}

// PublishActivity records the event
func (m *MockActivityPublisher) PublishActivity(kind string, workspaceID, targetID, actorID uuid.UUID, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedActivity{
		Kind:        kind,
		WorkspaceID: workspaceID,
		TargetID:    targetID,
		ActorID:     actorID,
		Active:      active,
	})
}

// Published returns a copy of the recorded events
func (m *MockActivityPublisher) Published() []PublishedActivity {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedActivity, len(m.Events))
	copy(out, m.Events)
	return out
}
