package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"supportbot/internal/model"
)

type FragmentRepository struct {
	db *gorm.DB
}

func NewFragmentRepository(db *gorm.DB) *FragmentRepository {
	return &FragmentRepository{db: db}
}

func (r *FragmentRepository) Create(fragment *model.KnowledgeFragment) error {
	if err := r.db.Create(fragment).Error; err != nil {
		return fmt.Errorf("create knowledge fragment failed: %w", err)
	}
	return nil
}

// SearchAnyToken returns fragments whose content contains any of the tokens
// as a case-insensitive substring, in insertion order, capped at limit.
func (r *FragmentRepository) SearchAnyToken(tokens []string, limit int) ([]model.KnowledgeFragment, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}

	q := r.db.Model(&model.KnowledgeFragment{})
	conds := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		conds = append(conds, "LOWER(content) LIKE ?")
		args = append(args, "%"+escapeLike(strings.ToLower(token))+"%")
	}
	q = q.Where(strings.Join(conds, " OR "), args...)

	var fragments []model.KnowledgeFragment
	if err := q.Order("id ASC").Limit(limit).Find(&fragments).Error; err != nil {
		return nil, fmt.Errorf("search knowledge fragments failed: %w", err)
	}
	return fragments, nil
}

// DistinctSources lists every source label that has at least one fragment.
func (r *FragmentRepository) DistinctSources() ([]string, error) {
	var sources []string
	if err := r.db.Model(&model.KnowledgeFragment{}).Distinct().Order("source ASC").Pluck("source", &sources).Error; err != nil {
		return nil, fmt.Errorf("list knowledge sources failed: %w", err)
	}
	return sources, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
