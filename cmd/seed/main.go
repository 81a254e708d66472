package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/arkandhani/roomtalk/config"
	"github.com/arkandhani/roomtalk/pkg/helpers"
)

// Seeds a demo user hosting one room so a fresh install has something to
// browse.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES (lower($1), $2, $3)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, "demo", "demo@roomtalk.dev", hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=demo password=%s\n", userID, password)

	var topicID string
	if err := db.QueryRow(`
		INSERT INTO topics (name) VALUES ('general')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`).Scan(&topicID); err != nil {
		log.Fatalf("failed to upsert topic: %v", err)
	}

	var roomID string
	if err := db.QueryRow(`
		INSERT INTO rooms (name, description, host_id, topic_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "Welcome", "Introduce yourself here.", userID, topicID).Scan(&roomID); err != nil {
		log.Fatalf("failed to seed room: %v", err)
	}
	fmt.Printf("seeded room: id=%s topic=general\n", roomID)
}
