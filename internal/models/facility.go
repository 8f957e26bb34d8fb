package models

import (
	"time"

	"github.com/lib/pq"
)

// RoomStatus marks whether a room can be scheduled.
type RoomStatus string

const (
	RoomStatusActive      RoomStatus = "ACTIVE"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
	RoomStatusRetired     RoomStatus = "RETIRED"
)

// Room is a bookable teaching space.
type Room struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Building  string     `db:"building" json:"building"`
	Capacity  int        `db:"capacity" json:"capacity"`
	RoomType  string     `db:"room_type" json:"room_type"`
	Status    RoomStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Lecturer is teaching staff assignable to schedule entries.
type Lecturer struct {
	ID              string         `db:"id" json:"id"`
	UserID          string         `db:"user_id" json:"user_id"`
	Title           string         `db:"title" json:"title"`
	Department      string         `db:"department" json:"department"`
	Specializations pq.StringArray `db:"specializations" json:"specializations"`
	Active          bool           `db:"active" json:"active"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// LecturerDetail enriches Lecturer with the linked user's name.
type LecturerDetail struct {
	Lecturer
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}
