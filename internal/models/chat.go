package models

import "time"

// DefaultChatChannel is created lazily for every workspace.
const DefaultChatChannel = "general"

type ChatChannel struct {
	ID           string
	WorkspaceID  string
	Name         string
	Description  string
	MessageCount int
	CreatedAt    time.Time
}

type ChatMessage struct {
	ID        string
	ChannelID string
	UserID    string
	UserName  string
	Content   string
	CreatedAt time.Time
}
