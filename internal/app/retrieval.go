package app

import (
	"log"
	"strings"

	"supportbot/internal/model"
)

// FragmentSearcher is the read side of the knowledge store.
type FragmentSearcher interface {
	SearchAnyToken(tokens []string, limit int) ([]model.KnowledgeFragment, error)
}

// RetrievalFilter selects fragments relevant to a query by keyword match.
// Matching is a case-insensitive substring OR across whitespace tokens, with
// no ranking beyond the store's insertion order. The knowledge base is small
// and curated; the permissive match maximizes recall.
type RetrievalFilter struct {
	store FragmentSearcher
	limit int
}

func NewRetrievalFilter(store FragmentSearcher, limit int) *RetrievalFilter {
	if limit <= 0 {
		limit = 3
	}
	return &RetrievalFilter{store: store, limit: limit}
}

// Retrieve returns matched fragment contents joined by newlines, or "" when
// the query has no tokens, nothing matches, or the store fails. Retrieval is
// best-effort: a store error must never fail the chat turn.
func (f *RetrievalFilter) Retrieve(query string) string {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return ""
	}

	fragments, err := f.store.SearchAnyToken(tokens, f.limit)
	if err != nil {
		log.Printf("knowledge retrieval degraded to empty context: %v", err)
		return ""
	}

	contents := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		contents = append(contents, fragment.Content)
	}
	return strings.Join(contents, "\n")
}
