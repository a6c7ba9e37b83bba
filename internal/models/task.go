package models

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusBlocked    TaskStatus = "BLOCKED"
	StatusInReview   TaskStatus = "IN_REVIEW"
	StatusBacklog    TaskStatus = "BACKLOG"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{
	StatusTodo,
	StatusInProgress,
	StatusCompleted,
	StatusBlocked,
	StatusInReview,
	StatusBacklog,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted,
		StatusBlocked, StatusInReview, StatusBacklog:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

// TaskPriorities lists every priority from lowest to highest.
var TaskPriorities = []TaskPriority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Task struct {
	ID          string
	WorkspaceID string
	ProjectID   string
	AssigneeID  *string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	Position    int
	StartDate   *time.Time
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
