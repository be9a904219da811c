package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/classtrack/internal/models"
)

type ClassroomStore struct {
	pool *pgxpool.Pool
}

func NewClassroomStore(pool *pgxpool.Pool) *ClassroomStore {
	return &ClassroomStore{pool: pool}
}

// Create inserts the classroom row and the creator's membership in one
// transaction, so a classroom can never exist without its creator as member.
func (s *ClassroomStore) Create(ctx context.Context, code, name, password string, createdBy uuid.UUID) (*models.Classroom, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO classrooms (code, name, password, created_by, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, code, name, password, created_by, created_at`

	var cr models.Classroom
	err = tx.QueryRow(ctx, query, code, name, password, createdBy).Scan(
		&cr.ID,
		&cr.Code,
		&cr.Name,
		&cr.Password,
		&cr.CreatedBy,
		&cr.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert classroom: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO classroom_members (classroom_id, user_id) VALUES ($1, $2)`,
		cr.ID, createdBy)
	if err != nil {
		return nil, fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	cr.Members = []uuid.UUID{createdBy}
	return &cr, nil
}

func (s *ClassroomStore) GetByCode(ctx context.Context, code string) (*models.Classroom, error) {
	query := `
		SELECT id, code, name, password, created_by, created_at
		FROM classrooms
		WHERE code = $1`

	var cr models.Classroom
	err := s.pool.QueryRow(ctx, query, code).Scan(
		&cr.ID,
		&cr.Code,
		&cr.Name,
		&cr.Password,
		&cr.CreatedBy,
		&cr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get classroom: %w", err)
	}

	if err := s.loadMembers(ctx, &cr); err != nil {
		return nil, err
	}
	return &cr, nil
}

func (s *ClassroomStore) loadMembers(ctx context.Context, cr *models.Classroom) error {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM classroom_members WHERE classroom_id = $1 ORDER BY joined_at`,
		cr.ID)
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()

	cr.Members = make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan member: %w", err)
		}
		cr.Members = append(cr.Members, id)
	}
	return rows.Err()
}

// ListForUser returns the union of created and joined classrooms. The
// creator is always in classroom_members, so the membership join is the
// whole union; creator name/nickname come along for the list view.
func (s *ClassroomStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Classroom, error) {
	query := `
		SELECT c.id, c.code, c.name, c.password, c.created_by, c.created_at,
		       u.id, u.name, u.nickname
		FROM classrooms c
		JOIN classroom_members m ON m.classroom_id = c.id
		JOIN users u ON u.id = c.created_by
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	defer rows.Close()

	classrooms := make([]models.Classroom, 0)
	for rows.Next() {
		var cr models.Classroom
		var creator models.UserSummary
		if err := rows.Scan(
			&cr.ID,
			&cr.Code,
			&cr.Name,
			&cr.Password,
			&cr.CreatedBy,
			&cr.CreatedAt,
			&creator.ID,
			&creator.Name,
			&creator.Nickname,
		); err != nil {
			return nil, fmt.Errorf("scan classroom: %w", err)
		}
		cr.Creator = &creator
		classrooms = append(classrooms, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classrooms: %w", err)
	}

	for i := range classrooms {
		if err := s.loadMembers(ctx, &classrooms[i]); err != nil {
			return nil, err
		}
	}
	return classrooms, nil
}

func (s *ClassroomStore) AddMember(ctx context.Context, classroomID uuid.UUID, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO classroom_members (classroom_id, user_id) VALUES ($1, $2)`,
		classroomID, userID)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *ClassroomStore) RemoveMember(ctx context.Context, classroomID uuid.UUID, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM classroom_members WHERE classroom_id = $1 AND user_id = $2`,
		classroomID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *ClassroomStore) ListMembers(ctx context.Context, classroomID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT u.id, u.name, u.nickname, u.email, u.password_hash, u.role, u.avatar, u.created_at
		FROM classroom_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.classroom_id = $1
		ORDER BY m.joined_at`

	rows, err := s.pool.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("list classroom members: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Nickname,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.Avatar,
			&u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan member user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Delete cascades: tasks and messages recorded under the classroom's code
// go first, then the classroom row (memberships ride the FK cascade).
func (s *ClassroomStore) Delete(ctx context.Context, classroomID uuid.UUID, code string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE classroom_code = $1`, code); err != nil {
		return fmt.Errorf("delete classroom tasks: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE classroom_code = $1`, code); err != nil {
		return fmt.Errorf("delete classroom messages: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM classrooms WHERE id = $1`, classroomID); err != nil {
		return fmt.Errorf("delete classroom: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *ClassroomStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM classrooms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count classrooms: %w", err)
	}
	return n, nil
}
