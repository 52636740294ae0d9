package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"supportbot/internal/ai"
	"supportbot/internal/model"
)

// memFragmentStore is an in-memory knowledge store with the same matching
// semantics as the MySQL repository: case-insensitive substring OR across
// tokens, insertion order, bounded result count.
type memFragmentStore struct {
	mu        sync.Mutex
	fragments []model.KnowledgeFragment
	createErr error
	searchErr error
}

func (m *memFragmentStore) Create(fragment *model.KnowledgeFragment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	fragment.ID = uint(len(m.fragments) + 1)
	m.fragments = append(m.fragments, *fragment)
	return nil
}

func (m *memFragmentStore) SearchAnyToken(tokens []string, limit int) ([]model.KnowledgeFragment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var matched []model.KnowledgeFragment
	for _, fragment := range m.fragments {
		content := strings.ToLower(fragment.Content)
		for _, token := range tokens {
			if strings.Contains(content, strings.ToLower(token)) {
				matched = append(matched, fragment)
				break
			}
		}
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (m *memFragmentStore) DistinctSources() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var sources []string
	for _, fragment := range m.fragments {
		if !seen[fragment.Source] {
			seen[fragment.Source] = true
			sources = append(sources, fragment.Source)
		}
	}
	return sources, nil
}

type capturingPublisher struct {
	mu        sync.Mutex
	published []model.ConversationMessage
	err       error
}

func (p *capturingPublisher) Publish(_ context.Context, msg model.ConversationMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

type stubCompleter struct {
	reply      string
	err        error
	lastPrompt []ai.ChatMessage
}

func (s *stubCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	s.lastPrompt = messages
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubConversationReader struct {
	messages []model.ConversationMessage
	err      error
	calls    int
}

func (r *stubConversationReader) ListAll(_ int) ([]model.ConversationMessage, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.messages, nil
}

type memHistoryCache struct {
	mu     sync.Mutex
	cached []model.ConversationMessage
	hit    bool
	dirty  bool
}

func (c *memHistoryCache) GetHistory(context.Context) ([]model.ConversationMessage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached, c.hit, nil
}

func (c *memHistoryCache) SetHistory(_ context.Context, messages []model.ConversationMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = messages
	c.hit = true
	return nil
}

func (c *memHistoryCache) DeleteHistory(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.hit = false
	return nil
}

func (c *memHistoryCache) MarkDirty(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	return nil
}

func (c *memHistoryCache) IsDirty(context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty, nil
}

var errStoreDown = errors.New("store unavailable")
