package entities

import (
	"time"
)

type Notification struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Message   string    `db:"message"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
}
