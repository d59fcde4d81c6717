package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InteractionRepository implements domain.InteractionRepository using
// PostgreSQL. Each of the four join tables carries a unique (user, target)
// index; Create maps its violation to domain.ErrAlreadyExists so the toggle
// race loser can be handled as a benign conflict.
type InteractionRepository struct {
	pool *pgxpool.Pool
}

// NewInteractionRepository creates a new InteractionRepository
func NewInteractionRepository(pool *pgxpool.Pool) *InteractionRepository {
	return &InteractionRepository{pool: pool}
}

// Workspace likes

func (r *InteractionRepository) GetLike(userID, workspaceID uuid.UUID) (*domain.Like, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT id, user_id, workspace_id, created_at FROM likes WHERE user_id = $1 AND workspace_id = $2",
		uuidToPg(userID), uuidToPg(workspaceID))
	id, targetID, createdAt, err := scanInteraction(row)
	if err != nil {
		return nil, err
	}
	return &domain.Like{ID: id, UserID: userID, WorkspaceID: targetID, CreatedAt: createdAt}, nil
}

func (r *InteractionRepository) CreateLike(userID, workspaceID uuid.UUID) (*domain.Like, error) {
	row := r.pool.QueryRow(context.Background(),
		"INSERT INTO likes (user_id, workspace_id) VALUES ($1, $2) RETURNING id, user_id, workspace_id, created_at",
		uuidToPg(userID), uuidToPg(workspaceID))
	id, targetID, createdAt, err := scanInteraction(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &domain.Like{ID: id, UserID: userID, WorkspaceID: targetID, CreatedAt: createdAt}, nil
}

func (r *InteractionRepository) DeleteLike(id uuid.UUID) error {
	return r.deleteRow("likes", id)
}

// Workspace saves

func (r *InteractionRepository) GetSavedWorkspace(userID, workspaceID uuid.UUID) (*domain.SavedWorkspace, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT id, user_id, workspace_id, created_at FROM saved_workspaces WHERE user_id = $1 AND workspace_id = $2",
		uuidToPg(userID), uuidToPg(workspaceID))
	id, targetID, createdAt, err := scanInteraction(row)
	if err != nil {
		return nil, err
	}
	return &domain.SavedWorkspace{ID: id, UserID: userID, WorkspaceID: targetID, CreatedAt: createdAt}, nil
}

func (r *InteractionRepository) CreateSavedWorkspace(userID, workspaceID uuid.UUID) (*domain.SavedWorkspace, error) {
	row := r.pool.QueryRow(context.Background(),
		"INSERT INTO saved_workspaces (user_id, workspace_id) VALUES ($1, $2) RETURNING id, user_id, workspace_id, created_at",
		uuidToPg(userID), uuidToPg(workspaceID))
	id, targetID, createdAt, err := scanInteraction(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &domain.SavedWorkspace{ID: id, UserID: userID, WorkspaceID: targetID, CreatedAt: createdAt}, nil
}

func (r *InteractionRepository) DeleteSavedWorkspace(id uuid.UUID) error {
	return r.deleteRow("saved_workspaces", id)
}

// Device likes

func (r *InteractionRepository) GetDeviceLike(userID, deviceID uuid.UUID) (*domain.DeviceLike, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT id, user_id, device_id, created_at FROM device_likes WHERE user_id = $1 AND device_id = $2",
		uuidToPg(userID), uuidToPg(deviceID))
	id, targetID, createdAt, err := scanInteraction(row)
	if err != nil {
		return nil, err
	}
	return &domain.DeviceLike{ID: id, UserID: userID, DeviceID: targetID, CreatedAt: createdAt}, nil
}

func (r *InteractionRepository) CreateDeviceLike(userID, deviceID uuid.UUID) (*domain.DeviceLike, error) {
	row := r.pool.QueryRow(context.Background(),
		"INSERT INTO device_likes (user_id, device_id) VALUES ($1, $2) RETURNING id, user_id, device_id, created_at",
		uuidToPg(userID), uuidToPg(deviceID))
	id, targetID, createdAt, err := scanInteraction(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &domain.DeviceLike{ID: id, UserID: userID, DeviceID: targetID, CreatedAt: createdAt}, nil
}

func (r *InteractionRepository) DeleteDeviceLike(id uuid.UUID) error {
	return r.deleteRow("device_likes", id)
}

// Device saves

func (r *InteractionRepository) GetSavedDevice(userID, deviceID uuid.UUID) (*domain.SavedDevice, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT id, user_id, device_id, created_at FROM saved_devices WHERE user_id = $1 AND device_id = $2",
		uuidToPg(userID), uuidToPg(deviceID))
	id, targetID, createdAt, err := scanInteraction(row)
	if err != nil {
		return nil, err
	}
	return &domain.SavedDevice{ID: id, UserID: userID, DeviceID: targetID, CreatedAt: createdAt}, nil
}

func (r *InteractionRepository) CreateSavedDevice(userID, deviceID uuid.UUID) (*domain.SavedDevice, error) {
	row := r.pool.QueryRow(context.Background(),
		"INSERT INTO saved_devices (user_id, device_id) VALUES ($1, $2) RETURNING id, user_id, device_id, created_at",
		uuidToPg(userID), uuidToPg(deviceID))
	id, targetID, createdAt, err := scanInteraction(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &domain.SavedDevice{ID: id, UserID: userID, DeviceID: targetID, CreatedAt: createdAt}, nil
}

func (r *InteractionRepository) DeleteSavedDevice(id uuid.UUID) error {
	return r.deleteRow("saved_devices", id)
}

func (r *InteractionRepository) deleteRow(table string, id uuid.UUID) error {
	_, err := r.pool.Exec(context.Background(),
		"DELETE FROM "+table+" WHERE id = $1", uuidToPg(id))
	return err
}

func scanInteraction(row pgx.Row) (id, targetID uuid.UUID, createdAt time.Time, err error) {
	var (
		pgID, pgUserID, pgTargetID pgtype.UUID
		pgCreatedAt                pgtype.Timestamptz
	)
	err = row.Scan(&pgID, &pgUserID, &pgTargetID, &pgCreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return
	}
	return pgToUUID(pgID), pgToUUID(pgTargetID), pgCreatedAt.Time, nil
}
