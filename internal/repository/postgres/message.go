package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/classtrack/internal/models"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

func (s *MessageStore) Create(ctx context.Context, code, author, content string) (*models.Message, error) {
	// bigserial id and server clock timestamp; RETURNING hands both back
	// so the broadcast carries exactly what was stored.
	query := `
		INSERT INTO messages (classroom_code, author, content, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, classroom_code, author, content, created_at`

	var msg models.Message
	err := s.pool.QueryRow(ctx, query, code, author, content).Scan(
		&msg.ID,
		&msg.ClassroomCode,
		&msg.Author,
		&msg.Content,
		&msg.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

// ListByClassroom returns the whole log oldest-first. Clients re-fetch the
// full log after a reconnect; there is no cursor in the API contract.
func (s *MessageStore) ListByClassroom(ctx context.Context, code string) ([]models.Message, error) {
	query := `
		SELECT id, classroom_code, author, content, created_at
		FROM messages
		WHERE classroom_code = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ClassroomCode,
			&msg.Author,
			&msg.Content,
			&msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

func (s *MessageStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
