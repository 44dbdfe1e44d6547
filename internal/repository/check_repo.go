package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lukajvnic/Avocado/internal/model"
)

type CheckRepo struct {
	pool *pgxpool.Pool
}

func NewCheckRepo(pool *pgxpool.Pool) *CheckRepo {
	return &CheckRepo{pool: pool}
}

// Insert records a completed check and returns the stored row's ID.
func (r *CheckRepo) Insert(ctx context.Context, videoID string, result *model.FactCheckResult) (int64, error) {
	query := `
		INSERT INTO checks (video_id, video_url, credibility_score, credibility_level,
		                    has_transcript, processing_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		videoID, result.VideoURL, result.CredibilityScore, string(result.CredibilityLevel),
		result.HasTranscript, result.ProcessingTimeMs,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListRecent returns the most recent checks, newest first.
func (r *CheckRepo) ListRecent(ctx context.Context, limit int) ([]model.CheckRecord, error) {
	query := `
		SELECT id, video_id, video_url, credibility_score, credibility_level,
		       has_transcript, processing_time_ms, created_at
		FROM checks
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.CheckRecord
	for rows.Next() {
		var rec model.CheckRecord
		var level string
		err := rows.Scan(
			&rec.ID, &rec.VideoID, &rec.VideoURL, &rec.CredibilityScore, &level,
			&rec.HasTranscript, &rec.ProcessingTimeMs, &rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.CredibilityLevel = model.CredibilityLevel(level)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByLevel returns the number of stored checks per credibility level.
func (r *CheckRepo) CountByLevel(ctx context.Context) (map[model.CredibilityLevel]int64, error) {
	query := `
		SELECT credibility_level, COUNT(*)
		FROM checks
		GROUP BY credibility_level`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.CredibilityLevel]int64)
	for rows.Next() {
		var level string
		var n int64
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[model.CredibilityLevel(level)] = n
	}
	return counts, rows.Err()
}
