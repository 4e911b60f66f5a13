package models

import "time"

// Task types. Only DAILY is seeded today; the column is free-form so new
// recurring categories can be added without a migration.
const (
	TaskTypeDaily = "DAILY"
)

// Well-known task actions referenced by code.
const (
	ActionFaceScan = "FACE_SCAN"
)

// Task is a definition of an earnable action. Rows come from seed data and
// are read-only at runtime.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"size:512" json:"description"`
	Points      int       `gorm:"not null" json:"points"`
	Type        string    `gorm:"size:32;not null;index" json:"type"`
	Action      string    `gorm:"size:64;uniqueIndex;not null" json:"action"`
	// No column default: gorm skips zero-value fields that carry one, so a
	// default would silently store a false IsActive as true.
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
