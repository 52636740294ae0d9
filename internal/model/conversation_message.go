package model

import "time"

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ConversationMessage is one role-tagged entry in the conversation log,
// keyed by the visitor's session id. Append-only.
type ConversationMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}
