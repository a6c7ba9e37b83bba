package models

import "time"

type AccessLevel string

const (
	AccessOwner  AccessLevel = "OWNER"
	AccessAdmin  AccessLevel = "ADMIN"
	AccessMember AccessLevel = "MEMBER"
)

type Workspace struct {
	ID          string
	Name        string
	Description string
	InviteCode  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WorkspaceMember struct {
	WorkspaceID string
	UserID      string
	Email       string
	Name        string
	AccessLevel AccessLevel
	JoinedAt    time.Time
}

type Project struct {
	ID          string
	WorkspaceID string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
