package model

import (
	"time"
)

type Note struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Text      string    `db:"text"`
	Seq       int64     `db:"seq"` // store-assigned, reflects creation order
	CreatedAt time.Time `db:"created_at"`
}
