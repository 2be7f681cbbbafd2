package model

import "time"

// TaskState is the lifecycle state of a task. There is no enforced
// transition graph; any state may be set at create or patch time.
type TaskState string

const (
	StateDraft TaskState = "draft"
	StateDoing TaskState = "doing"
	StateDone  TaskState = "done"
	StateTrash TaskState = "trash"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"-" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description"`
	State       TaskState `json:"state" gorm:"size:20;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
