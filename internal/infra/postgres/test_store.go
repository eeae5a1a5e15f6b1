package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// TestStore persists saved tests as jsonb rows keyed by (user_id, name).
type TestStore struct {
	pool *pgxpool.Pool
}

var _ app.TestStore = (*TestStore)(nil)

func NewTestStore(pool *pgxpool.Pool) *TestStore {
	return &TestStore{pool: pool}
}

func (s *TestStore) Put(ctx context.Context, userID, name string, questions []domain.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_tests (user_id, name, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, now(), now())
		ON CONFLICT (user_id, name)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		userID, name, string(data))
	if err != nil {
		return fmt.Errorf("store test: %w", err)
	}
	return nil
}

func (s *TestStore) Get(ctx context.Context, userID, name string) (domain.SavedTest, error) {
	test := domain.SavedTest{Name: name}
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT data, created_at, updated_at FROM user_tests
		WHERE user_id = $1 AND name = $2`,
		userID, name).Scan(&raw, &test.CreatedAt, &test.UpdatedAt)
	if err == pgx.ErrNoRows {
		return domain.SavedTest{}, domain.ErrTestNotFound
	}
	if err != nil {
		return domain.SavedTest{}, fmt.Errorf("load test: %w", err)
	}
	if err := json.Unmarshal(raw, &test.Questions); err != nil {
		return domain.SavedTest{}, fmt.Errorf("unmarshal test: %w", err)
	}
	return test, nil
}

func (s *TestStore) List(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name FROM user_tests WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan test name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *TestStore) Delete(ctx context.Context, userID, name string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM user_tests WHERE user_id = $1 AND name = $2`,
		userID, name)
	if err != nil {
		return false, fmt.Errorf("delete test: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
