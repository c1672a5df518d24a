package models

import "time"

type Comment struct {
	ID            int64     `json:"id"`
	Body          string    `json:"body"`
	OwnerID       int64     `json:"owner_id"`
	OwnerUsername string    `json:"owner"`
	PostID        int64     `json:"post"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
