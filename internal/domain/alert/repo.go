package alert

import (
	"context"

	"github.com/vitals/vitals/pkg/vitals"
)

type Repository interface {
	ExistsByReadingID(ctx context.Context, readingID string) (bool, error)
	Create(ctx context.Context, a *vitals.Alert) error
	// ListByPatient returns the patient's alerts ordered newest triggeredAt
	// first, tie-broken deterministically.
	ListByPatient(ctx context.Context, patientID string) ([]vitals.Alert, error)
	DeleteAll(ctx context.Context) error
}
