package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushub/campushub-api/internal/models"
)

// RoomRepository handles persistence of rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns all rooms.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name, building, capacity, room_type, status, created_at, updated_at
        FROM rooms ORDER BY building, name`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListActive returns rooms eligible for scheduling.
func (r *RoomRepository) ListActive(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name, building, capacity, room_type, status, created_at, updated_at
        FROM rooms WHERE status = $1 ORDER BY building, name`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, models.RoomStatusActive); err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	return rooms, nil
}

// FindByID returns a room by its ID.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, name, building, capacity, room_type, status, created_at, updated_at
        FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// Create persists a new room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.Status == "" {
		room.Status = models.RoomStatusActive
	}
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	const query = `INSERT INTO rooms (id, name, building, capacity, room_type, status, created_at, updated_at)
        VALUES (:id, :name, :building, :capacity, :room_type, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// UpdateStatus transitions a room's availability.
func (r *RoomRepository) UpdateStatus(ctx context.Context, id string, status models.RoomStatus) error {
	const query = `UPDATE rooms SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update room status: %w", err)
	}
	return nil
}
