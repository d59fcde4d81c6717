package postgres

import (
	"context"
	"errors"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workspaceColumns = "id, user_id, title, description, image_url, category, created_at, updated_at"

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(id uuid.UUID) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+workspaceColumns+" FROM workspaces WHERE id = $1", uuidToPg(id))
	return scanWorkspace(row)
}

// ListSummaries returns card-level read models for the browse page, newest
// first. viewerID controls the liked/saved flags; category narrows the feed.
func (r *WorkspaceRepository) ListSummaries(viewerID *uuid.UUID, category *string) ([]*domain.WorkspaceSummary, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT w.id, w.user_id, w.title, w.description, w.image_url, w.category, w.created_at, w.updated_at,
		        u.username,
		        (SELECT COUNT(*) FROM devices d WHERE d.workspace_id = w.id) AS device_count,
		        (SELECT COUNT(*) FROM likes l WHERE l.workspace_id = w.id) AS like_count,
		        (SELECT COUNT(*) FROM saved_workspaces s WHERE s.workspace_id = w.id) AS save_count,
		        EXISTS(SELECT 1 FROM likes l WHERE l.workspace_id = w.id AND l.user_id = $1) AS liked,
		        EXISTS(SELECT 1 FROM saved_workspaces s WHERE s.workspace_id = w.id AND s.user_id = $1) AS saved
		 FROM workspaces w
		 JOIN users u ON u.id = w.user_id
		 WHERE $2::text IS NULL OR w.category = $2
		 ORDER BY w.created_at DESC`,
		uuidPtrToPg(viewerID), stringPtrToPgText(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.WorkspaceSummary
	for rows.Next() {
		var (
			id, userID           pgtype.UUID
			description          pgtype.Text
			createdAt, updatedAt pgtype.Timestamptz
			s                    domain.WorkspaceSummary
		)
		err := rows.Scan(&id, &userID, &s.Title, &description, &s.ImageURL, &s.Category,
			&createdAt, &updatedAt, &s.Username,
			&s.DeviceCount, &s.LikeCount, &s.SaveCount, &s.Liked, &s.Saved)
		if err != nil {
			return nil, err
		}
		s.ID = pgToUUID(id)
		s.UserID = pgToUUID(userID)
		s.Description = pgTextToStringPtr(description)
		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time
		result = append(result, &s)
	}
	return result, rows.Err()
}

// ListByUser retrieves all workspaces published by a user, newest first
func (r *WorkspaceRepository) ListByUser(userID uuid.UUID) ([]*domain.Workspace, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+workspaceColumns+" FROM workspaces WHERE user_id = $1 ORDER BY created_at DESC",
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkspaces(rows)
}

// ListSavedByUser retrieves workspaces the user has saved, most recently
// saved first
func (r *WorkspaceRepository) ListSavedByUser(userID uuid.UUID) ([]*domain.Workspace, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT w.id, w.user_id, w.title, w.description, w.image_url, w.category, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN saved_workspaces s ON s.workspace_id = w.id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at DESC`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkspaces(rows)
}

// CreateWithDevices inserts a workspace and its full device list in one
// transaction
func (r *WorkspaceRepository) CreateWithDevices(workspace *domain.Workspace, devices []*domain.Device) (*domain.Workspace, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO workspaces (user_id, title, description, image_url, category)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+workspaceColumns,
		uuidToPg(workspace.UserID), workspace.Title, stringPtrToPgText(workspace.Description),
		workspace.ImageURL, workspace.Category)
	created, err := scanWorkspace(row)
	if err != nil {
		return nil, err
	}

	if err := insertDevices(ctx, tx, created.ID, devices); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateWithDevices replaces a workspace's fields and its entire device list
// atomically: all prior devices are deleted, the new list inserted, and the
// fields updated in one transaction.
func (r *WorkspaceRepository) UpdateWithDevices(workspace *domain.Workspace, devices []*domain.Device) (*domain.Workspace, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM devices WHERE workspace_id = $1", uuidToPg(workspace.ID)); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`UPDATE workspaces
		 SET title = $2, description = $3, image_url = $4, category = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+workspaceColumns,
		uuidToPg(workspace.ID), workspace.Title, stringPtrToPgText(workspace.Description),
		workspace.ImageURL, workspace.Category)
	updated, err := scanWorkspace(row)
	if err != nil {
		return nil, err
	}

	if err := insertDevices(ctx, tx, updated.ID, devices); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a workspace. Devices and interactions cascade.
func (r *WorkspaceRepository) Delete(id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		"DELETE FROM workspaces WHERE id = $1", uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

func insertDevices(ctx context.Context, tx pgx.Tx, workspaceID uuid.UUID, devices []*domain.Device) error {
	for _, d := range devices {
		_, err := tx.Exec(ctx,
			`INSERT INTO devices (workspace_id, name, description, features, x_percent, y_percent, price, link)
			 VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8)`,
			uuidToPg(workspaceID), d.Name, stringPtrToPgText(d.Description), d.Features,
			d.XPercent, d.YPercent, decimalPtrToPgText(d.Price), stringPtrToPgText(d.Link))
		if err != nil {
			return err
		}
	}
	return nil
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var (
		id, userID           pgtype.UUID
		description          pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
		w                    domain.Workspace
	)
	err := row.Scan(&id, &userID, &w.Title, &description, &w.ImageURL, &w.Category, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	w.ID = pgToUUID(id)
	w.UserID = pgToUUID(userID)
	w.Description = pgTextToStringPtr(description)
	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time
	return &w, nil
}

func collectWorkspaces(rows pgx.Rows) ([]*domain.Workspace, error) {
	var result []*domain.Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
