package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizmaster-service/internal/domain"
)

// ResultSink persists finalized quiz results.
type ResultSink struct {
	pool *pgxpool.Pool
}

func NewResultSink(pool *pgxpool.Pool) *ResultSink {
	return &ResultSink{pool: pool}
}

func (s *ResultSink) SaveResult(ctx context.Context, userID, testName string, result domain.QuizResult) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO test_results (user_id, test_name, taken_at, correct, total, percent, points)
		VALUES ($1, $2, now(), $3, $4, $5, $6)`,
		userID, testName, result.Correct, result.Total, result.Percentage, result.Points)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// UserResult is one persisted result row.
type UserResult struct {
	TestName string
	TakenAt  time.Time
	Result   domain.QuizResult
}

// ListResults returns a user's results, newest first.
func (s *ResultSink) ListResults(ctx context.Context, userID string) ([]UserResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT test_name, taken_at, correct, total, percent, points
		FROM test_results WHERE user_id = $1 ORDER BY taken_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []UserResult
	for rows.Next() {
		var r UserResult
		if err := rows.Scan(&r.TestName, &r.TakenAt, &r.Result.Correct, &r.Result.Total, &r.Result.Percentage, &r.Result.Points); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
