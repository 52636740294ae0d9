package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"supportbot/internal/ai"
	"supportbot/internal/model"
)

var (
	ErrMessageEmpty = errors.New("message content is empty")
	ErrLLMConfig    = errors.New("llm config is invalid")
)

const systemPromptTemplate = `You are a support agent for this service. Answer only from the knowledge base excerpts below. If the excerpts do not cover the question, reply that the information is not available and direct the user to %s.

Knowledge:
%s`

// AsyncMessagePublisher enqueues conversation messages for durable
// persistence. Appends are fire-and-forget from the chat turn's view.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.ConversationMessage) error
}

// ConversationReader reads back the persisted conversation log.
type ConversationReader interface {
	ListAll(limit int) ([]model.ConversationMessage, error)
}

// HistoryCache shields the conversation log listing from repeated reads.
type HistoryCache interface {
	GetHistory(ctx context.Context) ([]model.ConversationMessage, bool, error)
	SetHistory(ctx context.Context, messages []model.ConversationMessage) error
	DeleteHistory(ctx context.Context) error
	MarkDirty(ctx context.Context) error
	IsDirty(ctx context.Context) (bool, error)
}

// CompletionClient is the LLM completion boundary.
type CompletionClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

type ChatService struct {
	retrieval      *RetrievalFilter
	conversations  ConversationReader
	publisher      AsyncMessagePublisher
	historyCache   HistoryCache
	llmClient      CompletionClient
	llmConfig      ai.ChatConfig
	supportContact string
}

func NewChatService(
	retrieval *RetrievalFilter,
	conversations ConversationReader,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	llmClient CompletionClient,
	llmConfig ai.ChatConfig,
	supportContact string,
) *ChatService {
	return &ChatService{
		retrieval:      retrieval,
		conversations:  conversations,
		publisher:      publisher,
		historyCache:   historyCache,
		llmClient:      llmClient,
		llmConfig:      llmConfig,
		supportContact: supportContact,
	}
}

// SendMessage runs one chat turn: retrieve context, log the user message,
// call the completion service, log the reply. Logging failures never fail
// the turn; a completion failure does, with the underlying error intact.
func (s *ChatService) SendMessage(ctx context.Context, userID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMessageEmpty
	}
	if s.llmConfig.BaseURL == "" || s.llmConfig.Model == "" {
		return "", ErrLLMConfig
	}

	knowledgeContext := s.retrieval.Retrieve(message)

	s.appendMessage(ctx, userID, model.RoleUser, message)

	// The completion service is always invoked, even with empty context:
	// whether knowledge exists is the model's call, not ours.
	prompt := []ai.ChatMessage{
		{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, s.supportContact, knowledgeContext)},
		{Role: "user", Content: message},
	}
	reply, err := s.llmClient.Complete(ctx, s.llmConfig, prompt)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	reply = strings.TrimSpace(reply)

	s.appendMessage(ctx, userID, model.RoleBot, reply)

	return reply, nil
}

func (s *ChatService) appendMessage(ctx context.Context, userID, role, content string) {
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx)
		_ = s.historyCache.DeleteHistory(ctx)
	}
	if s.publisher == nil {
		return
	}
	msg := model.ConversationMessage{
		UserID:    userID,
		Role:      role,
		Message:   content,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		log.Printf("conversation append dropped (%s/%s): %v", userID, role, err)
	}
}

// History returns the full conversation log in timestamp order, served from
// cache when it is present and not marked dirty.
func (s *ChatService) History(ctx context.Context, limit int) ([]model.ConversationMessage, error) {
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.conversations.ListAll(limit)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, messages)
		}
	}
	return messages, nil
}
