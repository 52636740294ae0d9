package model

import "time"

// KnowledgeFragment is one unit of extracted knowledge text. Fragments are
// append-only: created by ingestion, never updated. Content is guaranteed
// non-empty by the ingestion pipeline before the write.
type KnowledgeFragment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Source    string    `gorm:"size:256;not null;index" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
