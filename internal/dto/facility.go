package dto

// CreateRoomRequest registers a teaching room.
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	Building string `json:"building" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	RoomType string `json:"room_type" validate:"omitempty,oneof=CLASSROOM LAB AUDITORIUM"`
}

// CreateLecturerRequest registers a lecturer profile for an existing user.
type CreateLecturerRequest struct {
	UserID          string   `json:"user_id" validate:"required,uuid4"`
	Title           string   `json:"title" validate:"omitempty"`
	Department      string   `json:"department" validate:"required"`
	Specializations []string `json:"specializations" validate:"omitempty,dive,min=1"`
}
