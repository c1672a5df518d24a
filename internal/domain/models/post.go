package models

import "time"

// NoOwner marks a record without an owner. Real ids start at 1.
const NoOwner int64 = 0

type Post struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	OwnerID       int64     `json:"owner_id"`
	OwnerUsername string    `json:"owner"`
	CategoryIDs   []int64   `json:"categories"`
	CommentIDs    []int64   `json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
