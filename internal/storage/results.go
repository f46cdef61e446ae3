package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// AspectSentiment is the per-aspect classification stored in the aspects map.
type AspectSentiment struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is one append-only analysis record for a review. A review
// may be re-analyzed, producing multiple rows.
type AnalysisResult struct {
	ID               int64                      `json:"id"`
	ReviewID         int64                      `json:"review_id"`
	Sentiment        string                     `json:"sentiment"`
	Confidence       float64                    `json:"confidence"`
	Aspects          map[string]AspectSentiment `json:"aspects"`
	KeyPhrases       map[string][]string        `json:"key_phrases"`
	EmotionIntensity map[string]float64         `json:"emotion_intensity"`
	ProcessedAt      time.Time                  `json:"processed_at"`
}

// SaveAnalysis persists an analysis result together with the detected
// language of the review in a single transaction. Either both mutations
// commit or neither does.
func (db *DB) SaveAnalysis(ctx context.Context, language string, result *AnalysisResult) error {
	aspectsJSON, err := json.Marshal(result.Aspects)
	if err != nil {
		return fmt.Errorf("marshal aspects: %w", err)
	}

	phrasesJSON, err := json.Marshal(result.KeyPhrases)
	if err != nil {
		return fmt.Errorf("marshal key phrases: %w", err)
	}

	emotionsJSON, err := json.Marshal(result.EmotionIntensity)
	if err != nil {
		return fmt.Errorf("marshal emotion intensity: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin analysis tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `
		UPDATE reviews
		SET language = $2, updated_at = now()
		WHERE id = $1
	`, result.ReviewID, language); err != nil {
		return fmt.Errorf("update review language: %w", err)
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO analysis_results (review_id, sentiment, confidence, aspects, key_phrases, emotion_intensity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, processed_at
	`, result.ReviewID, result.Sentiment, result.Confidence, aspectsJSON, phrasesJSON, emotionsJSON).Scan(
		&result.ID,
		&result.ProcessedAt,
	); err != nil {
		return fmt.Errorf("insert analysis result: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit analysis tx: %w", err)
	}

	return nil
}

// GetLatestAnalysis returns the most recent analysis for a review, or nil if
// the review has not been analyzed yet.
func (db *DB) GetLatestAnalysis(ctx context.Context, reviewID int64) (*AnalysisResult, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, review_id, sentiment, confidence, aspects, key_phrases, emotion_intensity, processed_at
		FROM analysis_results
		WHERE review_id = $1
		ORDER BY processed_at DESC, id DESC
		LIMIT 1
	`, reviewID)

	result, err := scanAnalysisResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // nil,nil indicates no analysis yet
		}

		return nil, fmt.Errorf("get latest analysis: %w", err)
	}

	return result, nil
}

// ListAnalysisForReview returns the full analysis history for a review,
// newest first.
func (db *DB) ListAnalysisForReview(ctx context.Context, reviewID int64) ([]AnalysisResult, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, review_id, sentiment, confidence, aspects, key_phrases, emotion_intensity, processed_at
		FROM analysis_results
		WHERE review_id = $1
		ORDER BY processed_at DESC, id DESC
	`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list analysis: %w", err)
	}
	defer rows.Close()

	var results []AnalysisResult

	for rows.Next() {
		result, err := scanAnalysisResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}

		results = append(results, *result)
	}

	return results, rows.Err()
}

// SentimentBreakdown counts the latest analysis per review grouped by
// sentiment label.
func (db *DB) SentimentBreakdown(ctx context.Context) (map[string]int64, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT latest.sentiment, count(*)
		FROM (
			SELECT DISTINCT ON (review_id) sentiment
			FROM analysis_results
			ORDER BY review_id, processed_at DESC, id DESC
		) latest
		GROUP BY latest.sentiment
	`)
	if err != nil {
		return nil, fmt.Errorf("sentiment breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]int64)

	for rows.Next() {
		var (
			sentiment string
			count     int64
		)

		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}

		breakdown[sentiment] = count
	}

	return breakdown, rows.Err()
}

func scanAnalysisResult(row pgx.Row) (*AnalysisResult, error) {
	var (
		result       AnalysisResult
		aspectsJSON  []byte
		phrasesJSON  []byte
		emotionsJSON []byte
	)

	if err := row.Scan(
		&result.ID,
		&result.ReviewID,
		&result.Sentiment,
		&result.Confidence,
		&aspectsJSON,
		&phrasesJSON,
		&emotionsJSON,
		&result.ProcessedAt,
	); err != nil {
		return nil, err
	}

	if len(aspectsJSON) > 0 {
		if err := json.Unmarshal(aspectsJSON, &result.Aspects); err != nil {
			return nil, fmt.Errorf("unmarshal aspects: %w", err)
		}
	}

	if len(phrasesJSON) > 0 {
		if err := json.Unmarshal(phrasesJSON, &result.KeyPhrases); err != nil {
			return nil, fmt.Errorf("unmarshal key phrases: %w", err)
		}
	}

	if len(emotionsJSON) > 0 {
		if err := json.Unmarshal(emotionsJSON, &result.EmotionIntensity); err != nil {
			return nil, fmt.Errorf("unmarshal emotion intensity: %w", err)
		}
	}

	return &result, nil
}
