package batch

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbacklab/review-insight/internal/analysis"
	"github.com/feedbacklab/review-insight/internal/nlp/aspects"
	"github.com/feedbacklab/review-insight/internal/nlp/phrases"
	"github.com/feedbacklab/review-insight/internal/nlp/sentiment"
	db "github.com/feedbacklab/review-insight/internal/storage"
)

var testLogger = zerolog.Nop()

// memoryStore backs the pipeline with in-memory reviews. Fetching an id from
// failing returns an error; fetching one from panicking panics.
type memoryStore struct {
	reviews    map[int64]*db.Review
	failing    map[int64]struct{}
	panicking  map[int64]struct{}
	savedCount int
}

type fetchError struct{}

func (fetchError) Error() string { return "fetch failed" }

func (s *memoryStore) GetReview(_ context.Context, id int64) (*db.Review, error) {
	if _, ok := s.panicking[id]; ok {
		panic("storage corrupted")
	}

	if _, ok := s.failing[id]; ok {
		return nil, fetchError{}
	}

	return s.reviews[id], nil
}

func (s *memoryStore) SaveAnalysis(_ context.Context, _ string, _ *db.AnalysisResult) error {
	s.savedCount++

	return nil
}

func newTestRunner(store analysis.Store) *Runner {
	pipeline := analysis.NewPipeline(
		store,
		sentiment.NewClassifier(false, true, &testLogger),
		aspects.NewExtractor(&testLogger),
		phrases.NewExtractor(),
		&testLogger,
	)

	return NewRunner(pipeline, &testLogger)
}

func TestRun_MissingReviewCountsAsNeither(t *testing.T) {
	store := &memoryStore{reviews: map[int64]*db.Review{
		1: {ID: 1, Text: "Отличный продукт"},
		3: {ID: 3, Text: "great quality"},
	}}
	runner := newTestRunner(store)

	result := runner.Run(context.Background(), []int64{1, 2, 3})

	assert.Equal(t, Result{Total: 3, Processed: 2, Failed: 0, FailedIDs: []int64{}}, result)
	assert.Equal(t, 2, store.savedCount)
}

func TestRun_FailedIDsPreserveInputOrder(t *testing.T) {
	store := &memoryStore{
		reviews: map[int64]*db.Review{2: {ID: 2, Text: "нормально"}},
		failing: map[int64]struct{}{5: {}, 1: {}},
	}
	runner := newTestRunner(store)

	result := runner.Run(context.Background(), []int64{5, 2, 1})

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, []int64{5, 1}, result.FailedIDs)
}

func TestRun_AllPresentAccountingAddsUp(t *testing.T) {
	store := &memoryStore{
		reviews: map[int64]*db.Review{
			1: {ID: 1, Text: "хорошая упаковка"},
			2: {ID: 2, Text: "ужасный сервис"},
		},
		failing: map[int64]struct{}{3: {}},
	}
	runner := newTestRunner(store)

	result := runner.Run(context.Background(), []int64{1, 2, 3})

	assert.Equal(t, result.Total, result.Processed+result.Failed)
}

func TestRun_PanicIsContainedAsFailure(t *testing.T) {
	store := &memoryStore{
		reviews:   map[int64]*db.Review{1: {ID: 1, Text: "good"}},
		panicking: map[int64]struct{}{2: {}},
	}
	runner := newTestRunner(store)

	result := runner.Run(context.Background(), []int64{1, 2})

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []int64{2}, result.FailedIDs)
}

func TestRun_EmptyBatch(t *testing.T) {
	runner := newTestRunner(&memoryStore{})

	result := runner.Run(context.Background(), nil)

	require.Equal(t, Result{Total: 0, Processed: 0, Failed: 0, FailedIDs: []int64{}}, result)
}
