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

// Prices are selected as text and parsed into decimals on the way out.
const deviceColumns = "id, workspace_id, name, description, features, x_percent, y_percent, price::text, link, created_at"

// DeviceRepository implements domain.DeviceRepository using PostgreSQL
type DeviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository creates a new DeviceRepository
func NewDeviceRepository(pool *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{pool: pool}
}

// GetByID retrieves a device by ID
func (r *DeviceRepository) GetByID(id uuid.UUID) (*domain.Device, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+deviceColumns+" FROM devices WHERE id = $1", uuidToPg(id))
	return scanDevice(row)
}

// ListByWorkspace retrieves all devices tagged on a workspace
func (r *DeviceRepository) ListByWorkspace(workspaceID uuid.UUID) ([]*domain.Device, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+deviceColumns+" FROM devices WHERE workspace_id = $1 ORDER BY created_at",
		uuidToPg(workspaceID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDevices(rows)
}

// ListSavedByUser retrieves devices the user has saved, most recently saved
// first
func (r *DeviceRepository) ListSavedByUser(userID uuid.UUID) ([]*domain.Device, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT d.id, d.workspace_id, d.name, d.description, d.features, d.x_percent, d.y_percent, d.price::text, d.link, d.created_at
		 FROM devices d
		 JOIN saved_devices s ON s.device_id = d.id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at DESC`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDevices(rows)
}

func scanDevice(row pgx.Row) (*domain.Device, error) {
	var (
		id, workspaceID   pgtype.UUID
		description, link pgtype.Text
		price             pgtype.Text
		createdAt         pgtype.Timestamptz
		d                 domain.Device
	)
	err := row.Scan(&id, &workspaceID, &d.Name, &description, &d.Features,
		&d.XPercent, &d.YPercent, &price, &link, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, err
	}
	d.ID = pgToUUID(id)
	d.WorkspaceID = pgToUUID(workspaceID)
	d.Description = pgTextToStringPtr(description)
	d.Link = pgTextToStringPtr(link)
	d.CreatedAt = createdAt.Time
	if d.Price, err = pgTextToDecimalPtr(price); err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDevices(rows pgx.Rows) ([]*domain.Device, error) {
	var result []*domain.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
