package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Review is a submitted free-text review. Rows are immutable after creation
// except for the language field, set once by the analysis pipeline, and the
// soft-delete flag.
type Review struct {
	ID          int64
	UUID        string
	Text        string
	Source      string
	Language    string
	SubmittedAt time.Time
	CreatedAt   time.Time
	IsDeleted   bool
}

// CreateReview inserts a new review and fills in the generated id, uuid and
// timestamps.
func (db *DB) CreateReview(ctx context.Context, review *Review) error {
	submittedAt := review.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO reviews (text, source, submitted_at)
		VALUES ($1, $2, $3)
		RETURNING id, uuid, submitted_at, created_at
	`, review.Text, toText(review.Source), toTimestamptz(submittedAt)).Scan(
		&review.ID,
		&review.UUID,
		&review.SubmittedAt,
		&review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// GetReview returns the review with the given id, or nil if it does not exist
// or has been soft-deleted.
func (db *DB) GetReview(ctx context.Context, id int64) (*Review, error) {
	var (
		review   Review
		source   pgtype.Text
		language pgtype.Text
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT id, uuid, text, source, language, submitted_at, created_at
		FROM reviews
		WHERE id = $1 AND NOT is_deleted
	`, id).Scan(
		&review.ID,
		&review.UUID,
		&review.Text,
		&source,
		&language,
		&review.SubmittedAt,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // nil,nil indicates review not found
		}

		return nil, fmt.Errorf("get review: %w", err)
	}

	review.Source = source.String
	review.Language = language.String

	return &review, nil
}

// ListReviews returns non-deleted reviews ordered by submission time, newest
// first.
func (db *DB) ListReviews(ctx context.Context, limit, offset int) ([]Review, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, uuid, text, source, language, submitted_at, created_at
		FROM reviews
		WHERE NOT is_deleted
		ORDER BY submitted_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review

	for rows.Next() {
		var (
			review   Review
			source   pgtype.Text
			language pgtype.Text
		)

		if err := rows.Scan(
			&review.ID,
			&review.UUID,
			&review.Text,
			&source,
			&language,
			&review.SubmittedAt,
			&review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}

		review.Source = source.String
		review.Language = language.String
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

// SoftDeleteReview marks a review deleted without removing the row.
func (db *DB) SoftDeleteReview(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE reviews
		SET is_deleted = TRUE, deleted_at = now(), updated_at = now()
		WHERE id = $1 AND NOT is_deleted
	`, id)
	if err != nil {
		return false, fmt.Errorf("soft delete review: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
