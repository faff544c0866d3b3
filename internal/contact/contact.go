// Package contact persists contact-form submissions.
package contact

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type NewMessage struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=10"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// InsertMessage stores one submission.
func (c *Conf) InsertMessage(ctx context.Context, nm NewMessage) (Message, error) {
	m := Message{Name: nm.Name, Email: nm.Email, Message: nm.Message}
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, message, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`, m.Name, m.Email, m.Message).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("inserting contact message: %w", err)
	}
	return m, nil
}
