package alert

import (
	"context"
	"fmt"

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

const alertCols = `alert_id, patient_id, reading_id, reading_type, alert_type,
	threshold_violated, reading_value, triggered_at, created_at`

func scanAlert(row pgx.Row) (vitals.Alert, error) {
	var a vitals.Alert
	err := row.Scan(&a.AlertID, &a.PatientID, &a.ReadingID, &a.ReadingType, &a.AlertType,
		&a.ThresholdViolated, &a.ReadingValue, &a.TriggeredAt, &a.CreatedAt)
	return a, err
}

func (r *repoPG) ExistsByReadingID(ctx context.Context, readingID string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM alerts WHERE reading_id = $1)`, readingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check alert exists: %w", err)
	}
	return exists, nil
}

func (r *repoPG) Create(ctx context.Context, a *vitals.Alert) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alerts (alert_id, patient_id, reading_id, reading_type, alert_type,
			threshold_violated, reading_value, triggered_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.AlertID, a.PatientID, a.ReadingID, a.ReadingType, a.AlertType,
		a.ThresholdViolated, a.ReadingValue, a.TriggeredAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert alert for reading %s: %w", a.ReadingID, err)
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string) ([]vitals.Alert, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+alertCols+` FROM alerts WHERE patient_id = $1
		 ORDER BY triggered_at DESC, created_at DESC, alert_id`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list alerts for patient %s: %w", patientID, err)
	}
	defer rows.Close()

	var items []vitals.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) DeleteAll(ctx context.Context) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM alerts`)
	if err != nil {
		return fmt.Errorf("delete alerts: %w", err)
	}
	return nil
}
