package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. RoleAdmin is only assigned via the configured admin email;
// registration requests may ask for student or teacher.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Nickname     string    `json:"nickname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	// Avatar is an opaque string owned by the frontend: either an
	// "emoji:<char>" literal or a JSON-encoded avataaars config.
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the shape embedded in task and classroom responses
// where the full account record would be overkill.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Nickname string    `json:"nickname"`
	Email    string    `json:"email,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Nickname: u.Nickname, Email: u.Email}
}

// Classroom is identified externally by Code, a short human-typed string,
// distinct from the internal ID. The join password is stored as entered
// and never serialized; it gates joining, not authentication.
type Classroom struct {
	ID        uuid.UUID   `json:"id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Password  string      `json:"-"`
	CreatedBy uuid.UUID   `json:"createdBy"`
	Members   []uuid.UUID `json:"members"`
	CreatedAt time.Time   `json:"createdAt"`

	// Creator is populated on list responses only.
	Creator *UserSummary `json:"creator,omitempty"`
}

// Task belongs to a classroom by code, not by id. The reference is not
// enforced at the storage level.
type Task struct {
	ID            uuid.UUID  `json:"id"`
	ClassroomCode string     `json:"classroomId"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Subject       string     `json:"subject"`
	DateAssigned  *time.Time `json:"dateAssigned,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Completed     bool       `json:"completed"`
	CreatedBy     uuid.UUID  `json:"createdBy"`

	Creator *UserSummary `json:"creator,omitempty"`
}

// Message is an append-only chat record. Author is the display string the
// client sent, not a user reference. bigserial id: messages are the
// highest-volume table and the id doubles as an ordering key.
type Message struct {
	ID            int64     `json:"id"`
	ClassroomCode string    `json:"classroomId"`
	Author        string    `json:"author"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
}

// AnalyticsCounts is the admin analytics payload.
type AnalyticsCounts struct {
	Users      int64 `json:"users"`
	Classrooms int64 `json:"classrooms"`
	Tasks      int64 `json:"tasks"`
	Messages   int64 `json:"messages"`
}
