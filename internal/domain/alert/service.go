package alert

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vitals/vitals/pkg/vitals"
)

// Threshold constants
const (
	bpSystolicHigh  = 140
	bpDiastolicHigh = 90
	hrLow           = 50
	hrHigh          = 110
	spo2Low         = 92
	spo2Critical    = 90
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// EvaluateReadings evaluates each reading independently against the threshold
// rules and persists an alert for every new breach. A reading whose id
// already has a stored alert is skipped, as is a reading with an unknown type
// or missing payload values. A persistence failure aborts the call with an
// error. The created alerts are returned sorted by alertId ascending.
func (s *Service) EvaluateReadings(ctx context.Context, readings []*vitals.Reading) ([]vitals.Alert, error) {
	s.logger.Info().Int("count", len(readings)).Msg("evaluating vital readings")

	created := []vitals.Alert{}
	for _, r := range readings {
		exists, err := s.repo.ExistsByReadingID(ctx, r.ReadingID)
		if err != nil {
			return nil, err
		}
		if exists {
			s.logger.Info().Str("reading_id", r.ReadingID).Msg("alert already exists for reading")
			continue
		}

		a := evaluate(r)
		if a == nil {
			s.logger.Debug().Str("reading_id", r.ReadingID).Msg("no alert triggered")
			continue
		}

		a.AlertID = uuid.New().String()
		a.CreatedAt = time.Now().UTC()
		if err := s.repo.Create(ctx, a); err != nil {
			return nil, err
		}
		s.logger.Info().Str("reading_id", r.ReadingID).Str("violated", a.ThresholdViolated).
			Msg("alert triggered")
		created = append(created, *a)
	}

	sort.Slice(created, func(i, j int) bool {
		return created[i].AlertID < created[j].AlertID
	})
	return created, nil
}

// evaluate applies the threshold rules for the reading's type. It returns nil
// when no threshold is breached, and also when the reading is malformed
// (unknown type, missing payload, unparseable timestamp): post-intake those
// cases should not occur, and they must not fail the batch when they do.
func evaluate(r *vitals.Reading) *vitals.Alert {
	triggeredAt, err := r.CapturedTime()
	if err != nil {
		return nil
	}

	switch r.Type {
	case vitals.TypeBP:
		return evaluateBP(r, triggeredAt)
	case vitals.TypeHR:
		return evaluateHR(r, triggeredAt)
	case vitals.TypeSPO2:
		return evaluateSPO2(r, triggeredAt)
	default:
		return nil
	}
}

func evaluateBP(r *vitals.Reading, triggeredAt time.Time) *vitals.Alert {
	if r.Systolic == nil || r.Diastolic == nil {
		return nil
	}
	systolic, diastolic := *r.Systolic, *r.Diastolic

	var violated string
	var alertType vitals.AlertType
	switch {
	case systolic >= bpSystolicHigh && diastolic >= bpDiastolicHigh:
		violated = fmt.Sprintf("Systolic >= %d AND Diastolic >= %d", bpSystolicHigh, bpDiastolicHigh)
		alertType = vitals.AlertCritical
	case systolic >= bpSystolicHigh:
		violated = fmt.Sprintf("Systolic >= %d", bpSystolicHigh)
		alertType = vitals.AlertHigh
	case diastolic >= bpDiastolicHigh:
		violated = fmt.Sprintf("Diastolic >= %d", bpDiastolicHigh)
		alertType = vitals.AlertHigh
	default:
		return nil
	}

	return &vitals.Alert{
		PatientID:         r.PatientID,
		ReadingID:         r.ReadingID,
		ReadingType:       vitals.TypeBP,
		AlertType:         alertType,
		ThresholdViolated: violated,
		ReadingValue:      fmt.Sprintf("%d/%d", systolic, diastolic),
		TriggeredAt:       triggeredAt,
	}
}

func evaluateHR(r *vitals.Reading, triggeredAt time.Time) *vitals.Alert {
	if r.HR == nil {
		return nil
	}
	hr := *r.HR

	var violated string
	var alertType vitals.AlertType
	switch {
	case hr < hrLow:
		violated = fmt.Sprintf("Heart Rate < %d", hrLow)
		alertType = vitals.AlertLow
	case hr > hrHigh:
		violated = fmt.Sprintf("Heart Rate > %d", hrHigh)
		alertType = vitals.AlertHigh
	default:
		return nil
	}

	return &vitals.Alert{
		PatientID:         r.PatientID,
		ReadingID:         r.ReadingID,
		ReadingType:       vitals.TypeHR,
		AlertType:         alertType,
		ThresholdViolated: violated,
		ReadingValue:      fmt.Sprintf("%d", hr),
		TriggeredAt:       triggeredAt,
	}
}

func evaluateSPO2(r *vitals.Reading, triggeredAt time.Time) *vitals.Alert {
	if r.SpO2 == nil {
		return nil
	}
	spo2 := *r.SpO2
	if spo2 >= spo2Low {
		return nil
	}

	alertType := vitals.AlertLow
	if spo2 < spo2Critical {
		alertType = vitals.AlertCritical
	}

	return &vitals.Alert{
		PatientID:         r.PatientID,
		ReadingID:         r.ReadingID,
		ReadingType:       vitals.TypeSPO2,
		AlertType:         alertType,
		ThresholdViolated: fmt.Sprintf("SpO2 < %d", spo2Low),
		ReadingValue:      fmt.Sprintf("%d", spo2),
		TriggeredAt:       triggeredAt,
	}
}

// ListByPatient returns the patient's alerts newest-triggeredAt-first.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]vitals.Alert, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ClearAll(ctx context.Context) error {
	s.logger.Info().Msg("clearing all alerts")
	return s.repo.DeleteAll(ctx)
}
