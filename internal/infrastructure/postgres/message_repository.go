package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/internal/domain/repository"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = `
	m.id, m.room_id, m.user_id, m.body,
	u.username, r.name AS room_name, m.created_at
`

const messageJoins = `
	FROM messages m
	JOIN users u ON u.id = m.user_id
	JOIN rooms r ON r.id = m.room_id
`

func scanMessage(row pgx.Row, m *entity.Message) error {
	return row.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Body,
		&m.Username, &m.RoomName, &m.CreatedAt)
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (room_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.RoomID, m.UserID, m.Body)

	return row.Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	m := &entity.Message{}
	row := r.pool.QueryRow(ctx, `SELECT `+messageColumns+messageJoins+` WHERE m.id = $1`, id)
	if err := scanMessage(row, m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MessageRepository) ListByRoom(ctx context.Context, roomID string) ([]entity.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+messageJoins+`
		WHERE m.room_id = $1
		ORDER BY m.created_at ASC`, roomID)
}

func (r *MessageRepository) ListByUser(ctx context.Context, userID string) ([]entity.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+messageJoins+`
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC`, userID)
}

func (r *MessageRepository) ListByTopicQuery(ctx context.Context, query string) ([]entity.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+messageJoins+`
		JOIN topics t ON t.id = r.topic_id
		WHERE t.name ILIKE '%' || $1 || '%'
		ORDER BY m.created_at DESC`, query)
}

func (r *MessageRepository) ListAll(ctx context.Context) ([]entity.Message, error) {
	return r.list(ctx, `SELECT ` + messageColumns + messageJoins + `
		ORDER BY m.created_at DESC`)
}

func (r *MessageRepository) list(ctx context.Context, sql string, args ...any) ([]entity.Message, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]entity.Message, 0)
	for rows.Next() {
		var m entity.Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
