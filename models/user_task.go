package models

import "time"

// UserTask statuses. COMPLETED is terminal for a (user, task, date) triple.
const (
	UserTaskPending   = "PENDING"
	UserTaskCompleted = "COMPLETED"
)

// UserTask joins a user, a task, and a calendar date (UTC, YYYY-MM-DD). The
// composite unique index is the natural key that makes the daily reset job and
// concurrent completion attempts commutative: whichever writer loses the
// conflict simply leaves the existing row in place.
type UserTask struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_task_date" json:"user_id"`
	TaskID      uint       `gorm:"not null;uniqueIndex:idx_user_task_date" json:"task_id"`
	Date        string     `gorm:"size:10;not null;uniqueIndex:idx_user_task_date;index" json:"date"`
	Status      string     `gorm:"size:16;not null;default:PENDING" json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
