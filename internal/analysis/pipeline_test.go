package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbacklab/review-insight/internal/nlp/aspects"
	"github.com/feedbacklab/review-insight/internal/nlp/phrases"
	"github.com/feedbacklab/review-insight/internal/nlp/sentiment"
	db "github.com/feedbacklab/review-insight/internal/storage"
)

var testLogger = zerolog.Nop()

type savedAnalysis struct {
	language string
	result   db.AnalysisResult
}

// fakeStore serves reviews from memory and records saved analyses.
type fakeStore struct {
	reviews map[int64]*db.Review
	saved   []savedAnalysis
	getErr  error
	saveErr error
}

func (s *fakeStore) GetReview(_ context.Context, id int64) (*db.Review, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}

	return s.reviews[id], nil
}

func (s *fakeStore) SaveAnalysis(_ context.Context, language string, result *db.AnalysisResult) error {
	if s.saveErr != nil {
		return s.saveErr
	}

	s.saved = append(s.saved, savedAnalysis{language: language, result: *result})

	return nil
}

func newTestPipeline(store Store) *Pipeline {
	return NewPipeline(
		store,
		sentiment.NewClassifier(false, true, &testLogger),
		aspects.NewExtractor(&testLogger),
		phrases.NewExtractor(),
		&testLogger,
	)
}

func TestAnalyzeAndSave_PersistsOneResult(t *testing.T) {
	store := &fakeStore{reviews: map[int64]*db.Review{
		1: {ID: 1, Text: "Отличный продукт! Быстрая доставка."},
	}}
	p := newTestPipeline(store)

	outcome := p.AnalyzeAndSave(context.Background(), 1)

	assert.Equal(t, OutcomeAnalyzed, outcome)
	require.Len(t, store.saved, 1)

	saved := store.saved[0]
	assert.Equal(t, "ru", saved.language)
	assert.Equal(t, int64(1), saved.result.ReviewID)
	assert.Equal(t, sentiment.LabelPositive, saved.result.Sentiment)
	assert.GreaterOrEqual(t, saved.result.Confidence, 0.5)
	assert.LessOrEqual(t, saved.result.Confidence, 1.0)

	assert.Contains(t, saved.result.Aspects, "продукт")
	assert.Contains(t, saved.result.Aspects, "доставка")
	assert.Equal(t, sentiment.LabelPositive, saved.result.Aspects["доставка"].Sentiment)

	require.Contains(t, saved.result.KeyPhrases, phrases.BucketPositive)
	assert.NotEmpty(t, saved.result.KeyPhrases[phrases.BucketPositive])
}

func TestAnalyzeAndSave_MissingReviewIsSkipped(t *testing.T) {
	store := &fakeStore{reviews: map[int64]*db.Review{}}
	p := newTestPipeline(store)

	outcome := p.AnalyzeAndSave(context.Background(), 42)

	assert.Equal(t, OutcomeSkipped, outcome)
	assert.Empty(t, store.saved)
}

func TestAnalyzeAndSave_FetchErrorFails(t *testing.T) {
	store := &fakeStore{getErr: errors.New("connection refused")}
	p := newTestPipeline(store)

	outcome := p.AnalyzeAndSave(context.Background(), 1)

	assert.Equal(t, OutcomeFailed, outcome)
	assert.Empty(t, store.saved)
}

func TestAnalyzeAndSave_SaveErrorFails(t *testing.T) {
	store := &fakeStore{
		reviews: map[int64]*db.Review{1: {ID: 1, Text: "great product"}},
		saveErr: errors.New("deadlock detected"),
	}
	p := newTestPipeline(store)

	outcome := p.AnalyzeAndSave(context.Background(), 1)

	assert.Equal(t, OutcomeFailed, outcome)
}

func TestAnalyzeAndSave_ReanalysisAppendsHistory(t *testing.T) {
	store := &fakeStore{reviews: map[int64]*db.Review{
		1: {ID: 1, Text: "terrible service, never again"},
	}}
	p := newTestPipeline(store)

	assert.Equal(t, OutcomeAnalyzed, p.AnalyzeAndSave(context.Background(), 1))
	assert.Equal(t, OutcomeAnalyzed, p.AnalyzeAndSave(context.Background(), 1))

	require.Len(t, store.saved, 2)
	assert.Equal(t, store.saved[0].result.Sentiment, store.saved[1].result.Sentiment)
}

func TestAnalyzeBatch_ContinuesPastFailures(t *testing.T) {
	store := &fakeStore{reviews: map[int64]*db.Review{
		1: {ID: 1, Text: "хорошая упаковка"},
		3: {ID: 3, Text: "awful packaging"},
	}}
	p := newTestPipeline(store)

	p.AnalyzeBatch(context.Background(), []int64{1, 2, 3})

	// Review 2 does not exist; 1 and 3 are still analyzed.
	require.Len(t, store.saved, 2)
	assert.Equal(t, int64(1), store.saved[0].result.ReviewID)
	assert.Equal(t, int64(3), store.saved[1].result.ReviewID)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "analyzed", OutcomeAnalyzed.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
