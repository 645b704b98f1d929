package reading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vitals/vitals/pkg/vitals"
)

// ValidationError reports a reading that fails one of the intake rules.
// Handlers map it to a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate applies the intake rules to a single reading: common fields must
// be non-blank, capturedAt must parse, and the payload fields required by
// the type must be present and within range.
func Validate(r *vitals.Reading) error {
	if strings.TrimSpace(r.ReadingID) == "" {
		return validationErrorf("readingId is required")
	}
	if strings.TrimSpace(r.PatientID) == "" {
		return validationErrorf("patientId is required")
	}
	if strings.TrimSpace(r.CapturedAt) == "" {
		return validationErrorf("capturedAt is required")
	}
	if _, err := r.CapturedTime(); err != nil {
		return validationErrorf("capturedAt must be an ISO-8601 timestamp")
	}

	switch r.Type {
	case vitals.TypeBP:
		if r.Systolic == nil || r.Diastolic == nil {
			return validationErrorf("systolic and diastolic are required for BP readings")
		}
		if *r.Systolic < 0 || *r.Systolic > 300 {
			return validationErrorf("systolic must be between 0 and 300")
		}
		if *r.Diastolic < 0 || *r.Diastolic > 200 {
			return validationErrorf("diastolic must be between 0 and 200")
		}
	case vitals.TypeHR:
		if r.HR == nil {
			return validationErrorf("hr is required for HR readings")
		}
		if *r.HR < 0 || *r.HR > 300 {
			return validationErrorf("hr must be between 0 and 300")
		}
	case vitals.TypeSPO2:
		if r.SpO2 == nil {
			return validationErrorf("spo2 is required for SPO2 readings")
		}
		if *r.SpO2 < 0 || *r.SpO2 > 100 {
			return validationErrorf("spo2 must be between 0 and 100")
		}
	default:
		return validationErrorf("invalid type: %s", r.Type)
	}

	return nil
}
