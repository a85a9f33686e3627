package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// --- Shared test fixtures ---

// makeChunk builds an embedded chunk with a deterministic ID.
func makeChunk(sourceFile string, index int, text string, embedding []float32) domain.EmbeddedChunk {
	return domain.EmbeddedChunk{
		Chunk: domain.Chunk{
			ID:         fmt.Sprintf("%s#%d", sourceFile, index),
			Text:       text,
			SourceFile: sourceFile,
			Index:      index,
			EndIndex:   len(text),
		},
		Embedding: embedding,
	}
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by exact text; unknown texts get the default vector.
type mockEmbeddingService struct {
	vectors    map[string][]float32
	defaultVec []float32
	embedErr   error
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.defaultVec, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return 2
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// newAskFixture builds an ask service over an in-memory store seeded with
// the given chunks.
func newAskFixture(t *testing.T, embedder driven.EmbeddingService, chunks ...domain.EmbeddedChunk) *AskService {
	t.Helper()
	store := memory.NewChunkStore()
	if len(chunks) > 0 {
		require.NoError(t, store.Add(context.Background(), chunks))
	}
	return NewAskService(store, embedder)
}

func queryEmbedder(query string, vec []float32) *mockEmbeddingService {
	return &mockEmbeddingService{
		vectors:    map[string][]float32{query: vec},
		defaultVec: []float32{0, 0},
	}
}

// --- Ask pipeline ---

func TestAsk_EmptyQuery(t *testing.T) {
	svc := newAskFixture(t, &mockEmbeddingService{defaultVec: []float32{1, 0}})

	_, err := svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NoDocuments(t *testing.T) {
	svc := newAskFixture(t, &mockEmbeddingService{defaultVec: []float32{1, 0}})

	answer, err := svc.Ask(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Equal(t, msgNoDocuments, answer.Text)
	assert.Empty(t, answer.Source)
	assert.Zero(t, answer.Confidence)
}

func TestAsk_NilEmbedder(t *testing.T) {
	svc := newAskFixture(t, nil,
		makeChunk("doc.txt", 0, "some content", []float32{1, 0}))

	_, err := svc.Ask(context.Background(), "a question")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestAsk_EmbedErrorIsFatal(t *testing.T) {
	boom := errors.New("provider down")
	svc := newAskFixture(t, &mockEmbeddingService{embedErr: boom},
		makeChunk("doc.txt", 0, "some content", []float32{1, 0}))

	_, err := svc.Ask(context.Background(), "a question")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "embed query")
}

func TestAsk_GenericQuery(t *testing.T) {
	query := "export pipeline performance"
	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("ops-guide.txt", 0,
			"The export pipeline performance depends on batch size.", []float32{1, 0}),
		makeChunk("ops-guide.txt", 1,
			"Unrelated content about billing.", []float32{0, 1}),
	)

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, "The export pipeline performance depends on batch size.", answer.Text)
	assert.Equal(t, "ops-guide.txt", answer.Source)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
}

func TestAsk_SingleWordQuery(t *testing.T) {
	query := "timestamps"
	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("guide.txt", 0, "Events carry timestamps from the source system.", []float32{0.9, 0.3}),
		makeChunk("other.txt", 0, "Nothing about time handling here.", []float32{0, 1}),
	)

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, "guide.txt", answer.Source)
	assert.Contains(t, answer.Text, "timestamps")
}

func TestAsk_NoRelevantInformation(t *testing.T) {
	query := "quantum blockchain"
	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("ops-guide.txt", 0, "Batch export configuration.", []float32{0, 1}))

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, msgNoRelevant, answer.Text)
	assert.Empty(t, answer.Source)
	assert.Zero(t, answer.Confidence)
}

func TestAsk_DefinitionStrictTier(t *testing.T) {
	query := "What is Acme?"
	definition := "Acme is a process mining platform that analyzes event logs to discover how processes actually run."

	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("acme-overview.txt", 0,
			"Acme Overview\nThis section introduces the product.", []float32{1, 0}),
		makeChunk("acme-overview.txt", 1, definition, []float32{1, 0}),
		makeChunk("acme-overview.txt", 2,
			"Deployment details for administrators.", []float32{0, 1}),
	)

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)

	// The strict-tier chunk wins even though the first chunk ranks higher
	// on position bonus.
	assert.Equal(t, definition, answer.Text)
	assert.Equal(t, "acme-overview.txt", answer.Source)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
}

func TestAsk_DefinitionSynthesis(t *testing.T) {
	query := "What is Widget?"
	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("tools.txt", 0,
			"Widget works with process mining tools and analytics dashboards to speed up reviews.",
			[]float32{1, 0}),
	)

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t,
		"Widget is a process mining platform that helps organizations work with process mining, analytics.",
		answer.Text)
	assert.Equal(t, "tools.txt", answer.Source)
	assert.InDelta(t, synthesisConfidence, answer.Confidence, 1e-9)
}

func TestAsk_DefinitionNotFound(t *testing.T) {
	query := "What is Zenith?"
	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("notes.txt", 0, "General notes about workflows.", []float32{0, 1}))

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, msgNoDefinition, answer.Text)
	assert.Empty(t, answer.Source)
	assert.Zero(t, answer.Confidence)
	assert.Contains(t, answer.Explanation, `"Zenith"`)
}

func TestAsk_TopicGateRejectsMissingTopic(t *testing.T) {
	query := "What is Acme's pricing?"
	// Similarity 0.8 with [1,0]: close enough to admit, below the gate's
	// stand-down ceiling. The document never mentions pricing.
	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("acme-overview.txt", 0,
			"Acme discovers bottlenecks in purchase order flows.", []float32{0.8, 0.6}))

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, "No information about pricing was found in the Acme document.", answer.Text)
	assert.Equal(t, "acme-overview.txt", answer.Source)
	assert.Zero(t, answer.Confidence)
	assert.Equal(t, "missing topic words: pricing", answer.Explanation)
}

func TestAsk_ComparisonQuery(t *testing.T) {
	query := "How does Acme compare to traditional BI tools?"
	contrast := "Acme analyzes live event data, while traditional BI tools report on static snapshots."

	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("acme-overview.txt", 0, "Acme Overview\nAcme is introduced here.", []float32{1, 0}),
		makeChunk("acme-overview.txt", 1, contrast, []float32{1, 0}),
		makeChunk("acme-overview.txt", 2, "Acme supports cloud deployment.", []float32{1, 0}),
	)

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)

	// The dual-entity contrast chunk beats the first chunk despite the
	// position bonus.
	assert.Equal(t, contrast, answer.Text)
	assert.Equal(t, "acme-overview.txt", answer.Source)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
}

func TestAsk_ComparisonWithoutUsableChunks(t *testing.T) {
	query := "How does Acme compare to traditional BI tools?"
	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("other.txt", 0, "Nothing here mentions the product by name.", []float32{1, 0}))

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, msgNoComparison, answer.Text)
	assert.Empty(t, answer.Source)
	assert.Zero(t, answer.Confidence)
}

func TestAsk_ComparisonWithoutEntity(t *testing.T) {
	query := "compare cloud and on-premise deployments"
	contrast := "Cloud deployments scale elastically, while on-premise installs require capacity planning."

	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("deploy.txt", 0, "Deployment Options\nThis guide covers deployment models.", []float32{1, 0}),
		makeChunk("deploy.txt", 1, contrast, []float32{1, 0}),
	)

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)

	// No capitalised entity in the query; the contrast chunk still wins on
	// its contrastive language.
	assert.Equal(t, contrast, answer.Text)
	assert.Equal(t, "deploy.txt", answer.Source)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
}

func TestAsk_DataUsageFilterSkipsIntro(t *testing.T) {
	query := "What data does Acme use?"
	svc := newAskFixture(t, queryEmbedder(query, []float32{1, 0}),
		makeChunk("acme-overview.txt", 0,
			"This document provides a detailed understanding of Acme.", []float32{1, 0}),
		makeChunk("acme-overview.txt", 1,
			"Acme ingests event log data and timestamps from ERP systems.", []float32{1, 0}),
		makeChunk("acme-overview.txt", 2,
			"Acme offers training programs.", []float32{0, 1}),
	)

	answer, err := svc.Ask(context.Background(), query)
	require.NoError(t, err)

	// The intro chunk outranks the data chunk on position bonus but is
	// excluded by the usage filter.
	assert.Contains(t, answer.Text, "event log data")
	assert.Equal(t, "acme-overview.txt", answer.Source)
}
