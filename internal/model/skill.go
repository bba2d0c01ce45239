package model

import "time"

// Skill is a named group of free-text technology labels. Name is unique.
type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Items     []string  `json:"items"`
	Position  int64     `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
