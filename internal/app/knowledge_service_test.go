package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestBatchCountsAndSources(t *testing.T) {
	store := &memFragmentStore{}
	svc := NewKnowledgeService(store)

	report, err := svc.IngestBatch([]UploadItem{
		{Name: "policy.json", Data: []byte(`[{"text":"Returns accepted within 30 days"},{"title":"FAQ"}]`)},
		{Name: "hours.json", Data: []byte(`{"content":"Open 9-18 on weekdays"}`)},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Fragments)
	require.Len(t, store.fragments, 3)
	assert.Equal(t, "Returns accepted within 30 days", store.fragments[0].Content)
	assert.Equal(t, "policy.json", store.fragments[0].Source)
	assert.Equal(t, "policy.json", store.fragments[1].Source)
	assert.Equal(t, "hours.json", store.fragments[2].Source)
	for _, fragment := range store.fragments {
		assert.NotEmpty(t, fragment.Content)
		assert.False(t, fragment.CreatedAt.IsZero())
	}
}

func TestIngestBatchArrayItemWithoutStringFieldSkipped(t *testing.T) {
	store := &memFragmentStore{}
	svc := NewKnowledgeService(store)

	report, err := svc.IngestBatch([]UploadItem{
		{Name: "policy.json", Data: []byte(`[{"text":"Returns accepted within 30 days"},{"count":2}]`)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Fragments)
	require.Len(t, store.fragments, 1)
	assert.Equal(t, "Returns accepted within 30 days", store.fragments[0].Content)
}

func TestIngestBatchMalformedItemDoesNotFailBatch(t *testing.T) {
	store := &memFragmentStore{}
	svc := NewKnowledgeService(store)

	report, err := svc.IngestBatch([]UploadItem{
		{Name: "broken.json", Data: []byte(`{"content": "unterminated`)},
		{Name: "good.json", Data: []byte(`{"content":"valid knowledge"}`)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Fragments)
	require.Len(t, report.Items, 2)
	assert.Equal(t, ErrItemParse.Error(), report.Items[0].Error)
	assert.Zero(t, report.Items[0].Fragments)
	assert.Empty(t, report.Items[1].Error)
	assert.Equal(t, 1, report.Items[1].Fragments)
}

func TestIngestBatchInvalidUTF8Reported(t *testing.T) {
	store := &memFragmentStore{}
	svc := NewKnowledgeService(store)

	report, err := svc.IngestBatch([]UploadItem{
		{Name: "binary.json", Data: []byte{0xff, 0xfe, 0xfd}},
		{Name: "good.json", Data: []byte(`{"content":"valid knowledge"}`)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Fragments)
	assert.Equal(t, ErrItemDecode.Error(), report.Items[0].Error)
}

func TestIngestBatchNoEligibleFiles(t *testing.T) {
	store := &memFragmentStore{}
	svc := NewKnowledgeService(store)

	tests := []struct {
		name  string
		batch []UploadItem
	}{
		{"empty batch", nil},
		{"only non-json files", []UploadItem{
			{Name: "notes.txt", Data: []byte("plain text")},
			{Name: "data.csv", Data: []byte("a,b")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.IngestBatch(tt.batch)
			assert.ErrorIs(t, err, ErrNoFiles)
			assert.Nil(t, report)
			assert.Empty(t, store.fragments)
		})
	}
}

func TestIngestBatchSkipsNonJSONSilently(t *testing.T) {
	store := &memFragmentStore{}
	svc := NewKnowledgeService(store)

	report, err := svc.IngestBatch([]UploadItem{
		{Name: "readme.md", Data: []byte("# not ingested")},
		{Name: "kb.json", Data: []byte(`{"content":"only this"}`)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Fragments)
	// Skipped files do not appear as items: not counted, not errored.
	require.Len(t, report.Items, 1)
	assert.Equal(t, "kb.json", report.Items[0].Name)
}

func TestIngestBatchStoreFailureContained(t *testing.T) {
	store := &memFragmentStore{createErr: errStoreDown}
	svc := NewKnowledgeService(store)

	report, err := svc.IngestBatch([]UploadItem{
		{Name: "kb.json", Data: []byte(`{"content":"lost"}`)},
	})
	require.NoError(t, err)

	assert.Zero(t, report.Fragments)
	assert.Equal(t, errStoreDown.Error(), report.Items[0].Error)
}

func TestIngestText(t *testing.T) {
	store := &memFragmentStore{}
	svc := NewKnowledgeService(store)

	fragment, err := svc.IngestText("manual.pdf", "  Extracted manual text  ")
	require.NoError(t, err)
	assert.Equal(t, "Extracted manual text", fragment.Content)
	assert.Equal(t, "manual.pdf", fragment.Source)

	_, err = svc.IngestText("empty.pdf", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListSources(t *testing.T) {
	store := &memFragmentStore{}
	svc := NewKnowledgeService(store)

	_, err := svc.IngestBatch([]UploadItem{
		{Name: "a.json", Data: []byte(`[{"text":"one"},{"text":"two"}]`)},
		{Name: "b.json", Data: []byte(`{"text":"three"}`)},
	})
	require.NoError(t, err)

	sources, err := svc.ListSources()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, sources)
}
