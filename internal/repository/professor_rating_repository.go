package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

// ProfessorRatingRepository persists aggregated professor rating and GPA data
// so repeated schedule requests do not hammer the upstream aggregator.
type ProfessorRatingRepository struct {
	db *sqlx.DB
}

// NewProfessorRatingRepository constructs the repository.
func NewProfessorRatingRepository(db *sqlx.DB) *ProfessorRatingRepository {
	return &ProfessorRatingRepository{db: db}
}

// GetByName returns the stored aggregate for an instructor, or nil when no
// row exists.
func (r *ProfessorRatingRepository) GetByName(ctx context.Context, name string) (*models.ProfessorRating, error) {
	const query = `SELECT id, name, aggregated_score, average_gpa, review_count, fetched_at, created_at, updated_at FROM professor_ratings WHERE name = $1`
	var rating models.ProfessorRating
	if err := r.db.GetContext(ctx, &rating, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get professor rating %s: %w", name, err)
	}
	return &rating, nil
}

// Upsert creates or refreshes the aggregate for an instructor.
func (r *ProfessorRatingRepository) Upsert(ctx context.Context, rating *models.ProfessorRating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = now
	}
	if rating.FetchedAt.IsZero() {
		rating.FetchedAt = now
	}
	rating.UpdatedAt = now

	const query = `INSERT INTO professor_ratings (id, name, aggregated_score, average_gpa, review_count, fetched_at, created_at, updated_at)
		VALUES (:id, :name, :aggregated_score, :average_gpa, :review_count, :fetched_at, :created_at, :updated_at)
		ON CONFLICT (name) DO UPDATE
		SET aggregated_score = EXCLUDED.aggregated_score,
		    average_gpa = EXCLUDED.average_gpa,
		    review_count = EXCLUDED.review_count,
		    fetched_at = EXCLUDED.fetched_at,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		return fmt.Errorf("upsert professor rating: %w", err)
	}
	return nil
}

// ListStale returns aggregates whose last fetch is older than maxAge, capped
// at limit rows. The background refresher works through this list.
func (r *ProfessorRatingRepository) ListStale(ctx context.Context, maxAge time.Duration, limit int) ([]models.ProfessorRating, error) {
	const query = `SELECT id, name, aggregated_score, average_gpa, review_count, fetched_at, created_at, updated_at FROM professor_ratings WHERE fetched_at < $1 ORDER BY fetched_at ASC LIMIT $2`
	cutoff := time.Now().UTC().Add(-maxAge)
	var ratings []models.ProfessorRating
	if err := r.db.SelectContext(ctx, &ratings, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("list stale professor ratings: %w", err)
	}
	return ratings, nil
}
