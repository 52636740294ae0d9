package repository

import (
	"fmt"

	"gorm.io/gorm"

	"supportbot/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(message *model.ConversationMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create conversation message failed: %w", err)
	}
	return nil
}

// ListAll returns the full conversation log in timestamp order, capped at
// limit (defaulted when out of range).
func (r *ConversationRepository) ListAll(limit int) ([]model.ConversationMessage, error) {
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}

	var messages []model.ConversationMessage
	if err := r.db.Order("created_at ASC, id ASC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list conversation messages failed: %w", err)
	}
	return messages, nil
}
