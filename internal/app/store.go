package app

import (
	"context"

	"quizmaster-service/internal/domain"
)

// TestStore is the saved-test collaborator: an opaque key-value store keyed
// by user identity and test name. The core neither defines its on-disk
// format nor its durability guarantees.
type TestStore interface {
	Put(ctx context.Context, userID, name string, questions []domain.Question) error
	Get(ctx context.Context, userID, name string) (domain.SavedTest, error)
	List(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, userID, name string) (bool, error)
}
