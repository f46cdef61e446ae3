// Package batch drives the analysis pipeline over sets of review ids with
// partial-failure accounting and bounded whole-batch retry.
package batch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/feedbacklab/review-insight/internal/analysis"
)

// Result is the transient aggregate of one batch invocation. FailedIDs
// preserves the input order of the ids that failed.
type Result struct {
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Failed    int     `json:"failed"`
	FailedIDs []int64 `json:"failed_ids"`
}

// Runner invokes the pipeline for each review id of a batch and accumulates
// per-item success/failure counts.
type Runner struct {
	pipeline *analysis.Pipeline
	logger   *zerolog.Logger
}

func NewRunner(pipeline *analysis.Pipeline, logger *zerolog.Logger) *Runner {
	return &Runner{pipeline: pipeline, logger: logger}
}

// Run analyzes each id in input order without short-circuiting. Analyzed
// reviews count as processed, pipeline failures as failed; missing reviews
// are no-ops counted as neither. Panics from a single item are contained
// and counted as failures.
func (r *Runner) Run(ctx context.Context, reviewIDs []int64) Result {
	result := Result{Total: len(reviewIDs), FailedIDs: []int64{}}

	for _, id := range reviewIDs {
		switch r.runOne(ctx, id) {
		case analysis.OutcomeAnalyzed:
			result.Processed++
		case analysis.OutcomeFailed:
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
		case analysis.OutcomeSkipped:
			// Not-found is a terminal no-op, not a failure.
		}
	}

	r.logger.Info().
		Int("total", result.Total).
		Int("processed", result.Processed).
		Int("failed", result.Failed).
		Msg("batch run completed")

	return result
}

func (r *Runner) runOne(ctx context.Context, reviewID int64) (outcome analysis.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Int64("review_id", reviewID).
				Str("panic", fmt.Sprint(rec)).
				Msg("analysis panicked")

			outcome = analysis.OutcomeFailed
		}
	}()

	return r.pipeline.AnalyzeAndSave(ctx, reviewID)
}
