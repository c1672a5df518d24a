package models

import "time"

// Category groups posts. OwnerID is nil when categories run unowned.
type Category struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	OwnerID       *int64    `json:"owner_id"`
	OwnerUsername *string   `json:"owner"`
	PostIDs       []int64   `json:"posts"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Owner returns the owner id, or NoOwner for unowned categories.
func (c *Category) Owner() int64 {
	if c.OwnerID == nil {
		return NoOwner
	}
	return *c.OwnerID
}
