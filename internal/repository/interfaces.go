package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/classtrack/internal/models"
)

// Every method takes a context so request cancellation propagates into the
// store. All list methods return empty slices (not nil) so JSON serializes
// to [] rather than null. Lookups return nil, nil when the row is absent;
// handlers translate that to 404.

// UserRepository handles account persistence.
type UserRepository interface {
	// Create inserts a user and returns it with ID and CreatedAt populated.
	Create(ctx context.Context, name, nickname, email, passwordHash, role, avatar string) (*models.User, error)

	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByEmail is the login path; email is unique across all users.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateProfile patches name and nickname, and avatar when non-empty.
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, nickname, avatar string) (*models.User, error)

	UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (*models.User, error)

	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	Count(ctx context.Context) (int64, error)
}

// ClassroomRepository handles classroom records and their membership set.
type ClassroomRepository interface {
	// Create inserts the classroom and its creator's membership atomically.
	Create(ctx context.Context, code, name, password string, createdBy uuid.UUID) (*models.Classroom, error)

	GetByCode(ctx context.Context, code string) (*models.Classroom, error)

	// ListForUser returns classrooms the user created or joined, as one set.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Classroom, error)

	AddMember(ctx context.Context, classroomID uuid.UUID, userID uuid.UUID) error

	RemoveMember(ctx context.Context, classroomID uuid.UUID, userID uuid.UUID) error

	// ListMembers returns the member accounts, creator included.
	ListMembers(ctx context.Context, classroomID uuid.UUID) ([]models.User, error)

	// Delete removes the classroom and cascades to tasks and messages
	// recorded under its code.
	Delete(ctx context.Context, classroomID uuid.UUID, code string) error

	Count(ctx context.Context) (int64, error)
}

// TaskRepository handles task persistence, scoped by classroom code.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error)

	// ListByClassroom returns tasks with their creator summaries populated.
	ListByClassroom(ctx context.Context, code string) ([]models.Task, error)

	// Update applies a partial patch; nil fields are left untouched.
	Update(ctx context.Context, taskID uuid.UUID, patch TaskPatch) (*models.Task, error)

	Delete(ctx context.Context, taskID uuid.UUID) error

	Count(ctx context.Context) (int64, error)
}

// TaskPatch is a partial task update. Nil means "leave as is".
type TaskPatch struct {
	Name         *string
	Description  *string
	Subject      *string
	DateAssigned *time.Time
	DueDate      *time.Time
	Completed    *bool
}

// MessageRepository handles the append-only chat log.
type MessageRepository interface {
	// Create persists a message and returns it with ID and Timestamp assigned.
	Create(ctx context.Context, code, author, content string) (*models.Message, error)

	// ListByClassroom returns the full log, oldest first.
	ListByClassroom(ctx context.Context, code string) ([]models.Message, error)

	Count(ctx context.Context) (int64, error)
}
