package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/classtrack/internal/models"
	"github.com/classtrack/classtrack/internal/repository"
)

type TaskStore struct {
	pool *pgxpool.Pool
}

func NewTaskStore(pool *pgxpool.Pool) *TaskStore {
	return &TaskStore{pool: pool}
}

// taskWithCreator selects task rows joined to their creator's summary,
// so every returned task carries a populated createdBy.
const taskWithCreator = `
	SELECT t.id, t.classroom_code, t.name, t.description, t.subject,
	       t.date_assigned, t.due_date, t.completed, t.created_by,
	       u.id, u.name, u.nickname, u.email
	FROM tasks t
	JOIN users u ON u.id = t.created_by`

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	var creator models.UserSummary
	err := row.Scan(
		&t.ID,
		&t.ClassroomCode,
		&t.Name,
		&t.Description,
		&t.Subject,
		&t.DateAssigned,
		&t.DueDate,
		&t.Completed,
		&t.CreatedBy,
		&creator.ID,
		&creator.Name,
		&creator.Nickname,
		&creator.Email,
	)
	if err != nil {
		return nil, err
	}
	t.Creator = &creator
	return &t, nil
}

func (s *TaskStore) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (classroom_code, name, description, subject, date_assigned, due_date, completed, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		task.ClassroomCode,
		task.Name,
		task.Description,
		task.Subject,
		task.DateAssigned,
		task.DueDate,
		task.Completed,
		task.CreatedBy,
	).Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return s.GetByID(ctx, task.ID)
}

func (s *TaskStore) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx, taskWithCreator+` WHERE t.id = $1`, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) ListByClassroom(ctx context.Context, code string) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx, taskWithCreator+` WHERE t.classroom_code = $1 ORDER BY t.due_date NULLS LAST`, code)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Update applies only the fields present in the patch. COALESCE against the
// current row keeps the arbitrary-subset semantics of PUT.
func (s *TaskStore) Update(ctx context.Context, taskID uuid.UUID, patch repository.TaskPatch) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET name          = COALESCE($2, name),
		    description   = COALESCE($3, description),
		    subject       = COALESCE($4, subject),
		    date_assigned = COALESCE($5, date_assigned),
		    due_date      = COALESCE($6, due_date),
		    completed     = COALESCE($7, completed)
		WHERE id = $1
		RETURNING id`

	var id uuid.UUID
	err := s.pool.QueryRow(ctx, query, taskID,
		patch.Name,
		patch.Description,
		patch.Subject,
		patch.DateAssigned,
		patch.DueDate,
		patch.Completed,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *TaskStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *TaskStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}
