package ledger

import (
	"context"

	"github.com/google/uuid"
)

// MutateFunc derives the next history from the current one. Returning an
// error aborts the mutation and nothing is written.
type MutateFunc func(History) (History, error)

type Repository interface {
	Load(ctx context.Context, memberID uuid.UUID) (History, error)
	// Mutate serializes writers per member: the history passed to fn is
	// the latest committed one and no other mutation interleaves.
	Mutate(ctx context.Context, memberID uuid.UUID, fn MutateFunc) (History, error)
}
