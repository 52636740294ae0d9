package app

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"supportbot/internal/knowledge"
	"supportbot/internal/model"
)

const knowledgeFileExt = ".json"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoFiles      = errors.New("no json files in upload")

	// Per-item ingestion failure kinds. They never escape IngestBatch; they
	// are reported in the item results instead.
	ErrItemDecode = errors.New("file is not valid utf-8")
	ErrItemParse  = errors.New("file is not valid json")
)

// FragmentStore is the persistence contract the knowledge service needs.
type FragmentStore interface {
	Create(fragment *model.KnowledgeFragment) error
	DistinctSources() ([]string, error)
}

type KnowledgeService struct {
	store FragmentStore
}

func NewKnowledgeService(store FragmentStore) *KnowledgeService {
	return &KnowledgeService{store: store}
}

// UploadItem is one named payload from an admin upload.
type UploadItem struct {
	Name string
	Data []byte
}

// ItemResult reports what happened to a single batch item.
type ItemResult struct {
	Name      string `json:"name"`
	Fragments int    `json:"fragments"`
	Error     string `json:"error,omitempty"`
}

// IngestReport aggregates a batch: the total number of fragments persisted
// plus a per-item breakdown.
type IngestReport struct {
	Fragments int          `json:"fragments"`
	Items     []ItemResult `json:"items"`
}

// IngestBatch runs the ingestion pipeline over a batch of uploaded files.
// Files without the .json suffix are skipped without comment. A batch with
// no eligible files fails up front with ErrNoFiles; after that gate, item
// failures (bad encoding, bad JSON, store errors) are contained per item
// and the batch keeps going. Fragment writes are independent: a failure
// partway through an item keeps whatever was already persisted.
func (s *KnowledgeService) IngestBatch(batch []UploadItem) (*IngestReport, error) {
	eligible := make([]UploadItem, 0, len(batch))
	for _, item := range batch {
		if strings.HasSuffix(strings.ToLower(item.Name), knowledgeFileExt) {
			eligible = append(eligible, item)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoFiles
	}

	report := &IngestReport{Items: make([]ItemResult, 0, len(eligible))}
	for _, item := range eligible {
		result := s.ingestOne(item)
		report.Fragments += result.Fragments
		report.Items = append(report.Items, result)
	}
	return report, nil
}

func (s *KnowledgeService) ingestOne(item UploadItem) ItemResult {
	result := ItemResult{Name: item.Name}

	if !utf8.Valid(item.Data) {
		log.Printf("ingest %s skipped: %v", item.Name, ErrItemDecode)
		result.Error = ErrItemDecode.Error()
		return result
	}
	if !json.Valid(item.Data) {
		log.Printf("ingest %s skipped: %v", item.Name, ErrItemParse)
		result.Error = ErrItemParse.Error()
		return result
	}

	for _, content := range knowledge.Extract(item.Data) {
		fragment := &model.KnowledgeFragment{
			Content:   content,
			Source:    item.Name,
			CreatedAt: time.Now(),
		}
		if err := s.store.Create(fragment); err != nil {
			log.Printf("ingest %s: persist fragment failed: %v", item.Name, err)
			result.Error = err.Error()
			continue
		}
		result.Fragments++
	}
	return result
}

// IngestText stores a single pre-extracted text (e.g. from a PDF) as one
// fragment under the given source name.
func (s *KnowledgeService) IngestText(name, content string) (*model.KnowledgeFragment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled"
	}

	fragment := &model.KnowledgeFragment{
		Content:   content,
		Source:    name,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(fragment); err != nil {
		return nil, err
	}
	return fragment, nil
}

// ListSources returns the distinct source labels of all stored fragments.
func (s *KnowledgeService) ListSources() ([]string, error) {
	return s.store.DistinctSources()
}
