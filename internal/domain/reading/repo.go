package reading

import (
	"context"

	"github.com/vitals/vitals/pkg/vitals"
)

type Repository interface {
	Exists(ctx context.Context, readingID string) (bool, error)
	Create(ctx context.Context, r *vitals.Reading) error
	// CreateBatch persists all readings atomically: either every row is
	// committed or none are.
	CreateBatch(ctx context.Context, readings []*vitals.Reading) error
	List(ctx context.Context) ([]*vitals.Reading, error)
	DeleteAll(ctx context.Context) error
}
