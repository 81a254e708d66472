package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/internal/domain/repository"
)

type TopicRepository struct {
	pool *pgxpool.Pool
}

func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

// Upsert relies on the unique constraint on topics.name; the no-op DO UPDATE
// makes RETURNING yield the existing row, so concurrent callers converge on
// one topic without a read-then-write race.
func (r *TopicRepository) Upsert(ctx context.Context, name string) (*entity.Topic, error) {
	t := &entity.Topic{}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO topics (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`, name)
	if err := row.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TopicRepository) List(ctx context.Context, query string, limit int) ([]entity.Topic, error) {
	sql := `
		SELECT id, name, created_at
		FROM topics
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`
	args := []any{query}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]entity.Topic, 0)
	for rows.Next() {
		var t entity.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

var _ repository.TopicRepository = (*TopicRepository)(nil)
