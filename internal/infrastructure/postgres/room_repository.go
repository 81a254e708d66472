package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/internal/domain/repository"
)

type RoomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

const roomColumns = `
	r.id, r.name, r.description, r.host_id, r.topic_id,
	t.name AS topic_name, u.username AS host_username,
	r.created_at, r.updated_at
`

const roomJoins = `
	FROM rooms r
	JOIN topics t ON t.id = r.topic_id
	JOIN users u ON u.id = r.host_id
`

func scanRoom(row pgx.Row, r *entity.Room) error {
	return row.Scan(&r.ID, &r.Name, &r.Description, &r.HostID, &r.TopicID,
		&r.TopicName, &r.HostUsername, &r.CreatedAt, &r.UpdatedAt)
}

func (r *RoomRepository) Create(ctx context.Context, room *entity.Room) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO rooms (name, description, host_id, topic_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, room.Name, room.Description, room.HostID, room.TopicID)

	return row.Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	room := &entity.Room{}
	row := r.pool.QueryRow(ctx, `SELECT `+roomColumns+roomJoins+` WHERE r.id = $1`, id)
	if err := scanRoom(row, room); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *entity.Room) error {
	room.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE rooms
		SET name = $1, description = $2, topic_id = $3, updated_at = $4
		WHERE id = $5
	`, room.Name, room.Description, room.TopicID, room.UpdatedAt, room.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RoomRepository) Search(ctx context.Context, query string) ([]entity.Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+roomColumns+roomJoins+`
		WHERE t.name ILIKE '%' || $1 || '%'
		   OR r.name ILIKE '%' || $1 || '%'
		   OR r.description ILIKE '%' || $1 || '%'
		ORDER BY r.created_at DESC
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

func (r *RoomRepository) ListByHost(ctx context.Context, hostID string) ([]entity.Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+roomColumns+roomJoins+`
		WHERE r.host_id = $1
		ORDER BY r.created_at DESC
	`, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

func collectRooms(rows pgx.Rows) ([]entity.Room, error) {
	rooms := make([]entity.Room, 0)
	for rows.Next() {
		var room entity.Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *RoomRepository) Participants(ctx context.Context, roomID string) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at
		FROM room_participants rp
		JOIN users u ON u.id = rp.user_id
		WHERE rp.room_id = $1
		ORDER BY u.username
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *RoomRepository) AddParticipant(ctx context.Context, roomID, userID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO room_participants (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, roomID, userID)
	return err
}

var _ repository.RoomRepository = (*RoomRepository)(nil)
