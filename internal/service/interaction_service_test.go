package service

import (
	"errors"
	"testing"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/deskenvy/deskenvy-backend/internal/testutil"
	"github.com/google/uuid"
)

type interactionFixture struct {
	svc             *InteractionService
	interactionRepo *testutil.MockInteractionRepository
	publisher       *testutil.MockActivityPublisher
	workspaceID     uuid.UUID
	deviceID        uuid.UUID
	userID          uuid.UUID
}

func newInteractionFixture(t *testing.T) *interactionFixture {
	t.Helper()

	workspaceRepo := testutil.NewMockWorkspaceRepository()
	deviceRepo := testutil.NewMockDeviceRepository()
	interactionRepo := testutil.NewMockInteractionRepository()
	publisher := testutil.NewMockActivityPublisher()

	workspaceID := uuid.New()
	workspaceRepo.AddWorkspace(&domain.Workspace{
		ID:       workspaceID,
		UserID:   uuid.New(),
		Title:    "Battlestation",
		Category: "Gaming",
	})

	deviceID := uuid.New()
	deviceRepo.AddDevice(&domain.Device{
		ID:          deviceID,
		WorkspaceID: workspaceID,
		Name:        "Monitor",
		XPercent:    50,
		YPercent:    30,
	})

	return &interactionFixture{
		svc:             NewInteractionService(interactionRepo, workspaceRepo, deviceRepo, publisher),
		interactionRepo: interactionRepo,
		publisher:       publisher,
		workspaceID:     workspaceID,
		deviceID:        deviceID,
		userID:          uuid.New(),
	}
}

func TestToggleLike_OnThenOff(t *testing.T) {
	f := newInteractionFixture(t)

	liked, err := f.svc.ToggleLike(f.userID, f.workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !liked {
		t.Error("Expected first toggle to report liked=true")
	}

	liked, err = f.svc.ToggleLike(f.userID, f.workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if liked {
		t.Error("Expected second toggle to report liked=false")
	}

	events := f.publisher.Published()
	if len(events) != 2 {
		t.Fatalf("Expected 2 activity events, got %d", len(events))
	}
	if events[0].Kind != ActivityWorkspaceLike || !events[0].Active {
		t.Errorf("Expected first event %s active=true, got %+v", ActivityWorkspaceLike, events[0])
	}
	if events[1].Active {
		t.Error("Expected second event active=false")
	}
}

func TestToggleSave_OnThenOff(t *testing.T) {
	f := newInteractionFixture(t)

	saved, err := f.svc.ToggleSave(f.userID, f.workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !saved {
		t.Error("Expected first toggle to report saved=true")
	}

	saved, err = f.svc.ToggleSave(f.userID, f.workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if saved {
		t.Error("Expected second toggle to report saved=false")
	}
}

func TestToggleDeviceLike_OnThenOff(t *testing.T) {
	f := newInteractionFixture(t)

	liked, err := f.svc.ToggleDeviceLike(f.userID, f.deviceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !liked {
		t.Error("Expected first toggle to report liked=true")
	}

	liked, err = f.svc.ToggleDeviceLike(f.userID, f.deviceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if liked {
		t.Error("Expected second toggle to report liked=false")
	}

	// Device events point at the device but carry the owning workspace
	events := f.publisher.Published()
	if len(events) != 2 {
		t.Fatalf("Expected 2 activity events, got %d", len(events))
	}
	if events[0].WorkspaceID != f.workspaceID || events[0].TargetID != f.deviceID {
		t.Errorf("Expected event scoped to workspace %s target %s, got %+v", f.workspaceID, f.deviceID, events[0])
	}
}

func TestToggleSaveDevice_OnThenOff(t *testing.T) {
	f := newInteractionFixture(t)

	saved, err := f.svc.ToggleSaveDevice(f.userID, f.deviceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !saved {
		t.Error("Expected first toggle to report saved=true")
	}

	saved, err = f.svc.ToggleSaveDevice(f.userID, f.deviceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if saved {
		t.Error("Expected second toggle to report saved=false")
	}
}

func TestToggleLike_WorkspaceMissing(t *testing.T) {
	f := newInteractionFixture(t)

	_, err := f.svc.ToggleLike(f.userID, uuid.New())
	if !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Errorf("Expected ErrWorkspaceNotFound, got %v", err)
	}
}

func TestToggleDeviceLike_DeviceMissing(t *testing.T) {
	f := newInteractionFixture(t)

	_, err := f.svc.ToggleDeviceLike(f.userID, uuid.New())
	if !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestToggleLike_RaceLoserFoldedIntoOn(t *testing.T) {
	f := newInteractionFixture(t)

	// Another request created the row between this request's check and insert
	f.interactionRepo.CreateLikeFn = func(userID, workspaceID uuid.UUID) (*domain.Like, error) {
		return nil, domain.ErrAlreadyExists
	}

	liked, err := f.svc.ToggleLike(f.userID, f.workspaceID)
	if err != nil {
		t.Fatalf("Expected the conflict to be benign, got %v", err)
	}
	if !liked {
		t.Error("Expected the race loser to still report liked=true")
	}
}

func TestToggleLike_DistinctUsersIndependent(t *testing.T) {
	f := newInteractionFixture(t)
	otherUser := uuid.New()

	if _, err := f.svc.ToggleLike(f.userID, f.workspaceID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	liked, err := f.svc.ToggleLike(otherUser, f.workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !liked {
		t.Error("Expected the other user's first toggle to report liked=true")
	}
}
