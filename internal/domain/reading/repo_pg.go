package reading

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitals/vitals/internal/platform/db"
	"github.com/vitals/vitals/pkg/vitals"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const readingCols = `reading_id, patient_id, type, systolic, diastolic, hr, spo2, captured_at`

func scanReading(row pgx.Row) (*vitals.Reading, error) {
	var rd vitals.Reading
	var capturedAt time.Time
	err := row.Scan(&rd.ReadingID, &rd.PatientID, &rd.Type,
		&rd.Systolic, &rd.Diastolic, &rd.HR, &rd.SpO2, &capturedAt)
	if err != nil {
		return nil, err
	}
	rd.CapturedAt = vitals.FormatCapturedAt(capturedAt)
	return &rd, nil
}

func (r *repoPG) Exists(ctx context.Context, readingID string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM readings WHERE reading_id = $1)`, readingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reading exists: %w", err)
	}
	return exists, nil
}

func (r *repoPG) Create(ctx context.Context, rd *vitals.Reading) error {
	capturedAt, err := rd.CapturedTime()
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO readings (reading_id, patient_id, type, systolic, diastolic, hr, spo2, captured_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rd.ReadingID, rd.PatientID, rd.Type, rd.Systolic, rd.Diastolic, rd.HR, rd.SpO2, capturedAt)
	if err != nil {
		return fmt.Errorf("insert reading %s: %w", rd.ReadingID, err)
	}
	return nil
}

// CreateBatch inserts every reading inside one transaction, so a failure on
// any row leaves nothing committed.
func (r *repoPG) CreateBatch(ctx context.Context, readings []*vitals.Reading) error {
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		for _, rd := range readings {
			if err := r.Create(ctx, rd); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repoPG) List(ctx context.Context) ([]*vitals.Reading, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+readingCols+` FROM readings ORDER BY captured_at, reading_id`)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var items []*vitals.Reading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rd)
	}
	return items, rows.Err()
}

func (r *repoPG) DeleteAll(ctx context.Context) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM readings`)
	if err != nil {
		return fmt.Errorf("delete readings: %w", err)
	}
	return nil
}
