package models

import "time"

// Task represents a single task owned by a user.
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string     `json:"userId" gorm:"index;type:varchar(36)"`
	Title       string     `json:"title" gorm:"type:varchar(255)"`
	Description string     `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"type:varchar(20)"`   // "pending", "in-progress", "completed"
	Priority    string     `json:"priority" gorm:"type:varchar(20)"` // "low", "medium", "high"
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskFilters holds optional filters for listing tasks.
// Zero values mean the filter is not applied.
type TaskFilters struct {
	Status   string // exact match
	Priority string // exact match
	Search   string // case-insensitive substring match on title or description
}
