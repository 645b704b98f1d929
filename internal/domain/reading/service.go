package reading

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vitals/vitals/pkg/vitals"
)

// Evaluator forwards a batch of accepted readings to the alert service and
// returns the alerts it created.
type Evaluator interface {
	Evaluate(ctx context.Context, readings []*vitals.Reading) ([]vitals.Alert, error)
}

type Service struct {
	repo      Repository
	evaluator Evaluator
	logger    zerolog.Logger
}

func NewService(repo Repository, evaluator Evaluator, logger zerolog.Logger) *Service {
	return &Service{repo: repo, evaluator: evaluator, logger: logger}
}

// ProcessReadings handles a batch in best-effort mode: each reading is
// validated, idempotency-checked, and persisted independently, and a failing
// reading is dropped without aborting the rest. The one exception is a batch
// of exactly one reading, where the error is surfaced to the caller instead.
// All accepted readings are forwarded to the alert service as a single batch;
// a forwarding failure is absorbed and yields an empty alert list.
func (s *Service) ProcessReadings(ctx context.Context, readings []*vitals.Reading) ([]vitals.Alert, error) {
	s.logger.Info().Int("count", len(readings)).Msg("processing vital readings")

	single := len(readings) == 1
	var accepted []*vitals.Reading
	for _, r := range readings {
		ok, err := s.acceptReading(ctx, r)
		if err != nil {
			if single {
				return nil, err
			}
			s.logger.Error().Err(err).Str("reading_id", r.ReadingID).Msg("dropping reading from batch")
			continue
		}
		if ok {
			accepted = append(accepted, r)
		}
	}

	return s.forward(ctx, accepted), nil
}

// ProcessReadingsTransactional handles a batch all-or-nothing: every reading
// is validated and idempotency-checked before anything is persisted, a single
// validation failure fails the whole batch with no side effects, and the
// persist itself is one atomic write. Duplicates never fail the batch; they
// are filtered out before the commit.
func (s *Service) ProcessReadingsTransactional(ctx context.Context, readings []*vitals.Reading) ([]vitals.Alert, error) {
	s.logger.Info().Int("count", len(readings)).Msg("processing vital readings transactionally")

	var fresh []*vitals.Reading
	for _, r := range readings {
		if err := Validate(r); err != nil {
			return nil, err
		}
		exists, err := s.repo.Exists(ctx, r.ReadingID)
		if err != nil {
			return nil, err
		}
		if exists {
			s.logger.Info().Str("reading_id", r.ReadingID).Msg("reading already exists, ignoring duplicate")
			continue
		}
		fresh = append(fresh, r)
	}

	if len(fresh) > 0 {
		if err := s.repo.CreateBatch(ctx, fresh); err != nil {
			return nil, err
		}
		s.logger.Info().Int("count", len(fresh)).Msg("transactional batch committed")
	}

	return s.forward(ctx, fresh), nil
}

// acceptReading validates, dedupes, and persists one reading. It returns
// false with a nil error for the silent duplicate skip.
func (s *Service) acceptReading(ctx context.Context, r *vitals.Reading) (bool, error) {
	if err := Validate(r); err != nil {
		return false, err
	}
	exists, err := s.repo.Exists(ctx, r.ReadingID)
	if err != nil {
		return false, err
	}
	if exists {
		s.logger.Info().Str("reading_id", r.ReadingID).Msg("reading already exists, ignoring duplicate")
		return false, nil
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return false, err
	}
	return true, nil
}

// forward sends the accepted readings to the alert service as one batch. The
// readings are already committed, so an evaluator failure is logged and
// converted to an empty alert list rather than propagated.
func (s *Service) forward(ctx context.Context, accepted []*vitals.Reading) []vitals.Alert {
	if len(accepted) == 0 {
		return []vitals.Alert{}
	}

	alerts, err := s.evaluator.Evaluate(ctx, accepted)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(accepted)).
			Msg("alert service communication failed, but continuing")
		return []vitals.Alert{}
	}
	s.logger.Info().Int("readings", len(accepted)).Int("alerts", len(alerts)).
		Msg("forwarded readings to alert service")
	if alerts == nil {
		alerts = []vitals.Alert{}
	}
	return alerts
}

func (s *Service) ListReadings(ctx context.Context) ([]*vitals.Reading, error) {
	return s.repo.List(ctx)
}

func (s *Service) ClearAll(ctx context.Context) error {
	s.logger.Info().Msg("clearing all vital readings")
	return s.repo.DeleteAll(ctx)
}
