package models

import "time"

type Notification struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Message   string    `db:"message"`
	Type      string    `db:"type"`
	Data      string    `db:"data"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

type ChatMessage struct {
	Sender  string `db:"sender"`
	Message string `db:"message"`
}

type Assignment struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	DueDate     time.Time `db:"due_date"`
	IsCompleted bool      `db:"is_completed"`
}
