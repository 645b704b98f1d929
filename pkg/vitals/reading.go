// Package vitals holds the wire-level data model shared by the reading
// intake and alert services: the type-discriminated vital reading and the
// alert record derived from it.
package vitals

import (
	"fmt"
	"time"
)

// Reading type discriminator values.
const (
	TypeBP   = "BP"
	TypeHR   = "HR"
	TypeSPO2 = "SPO2"
)

// Reading is one vital-sign observation. The Type field selects which of the
// payload fields must be present: BP carries Systolic/Diastolic, HR carries
// HR, SPO2 carries SpO2. Payload fields are pointers so an absent value is
// distinguishable from zero.
type Reading struct {
	ReadingID  string `json:"readingId"`
	PatientID  string `json:"patientId"`
	CapturedAt string `json:"capturedAt"`
	Type       string `json:"type"`
	Systolic   *int   `json:"systolic,omitempty"`
	Diastolic  *int   `json:"diastolic,omitempty"`
	HR         *int   `json:"hr,omitempty"`
	SpO2       *int   `json:"spo2,omitempty"`
}

// capturedAtLayouts are tried in order. ISO-8601 timestamps arrive both with
// an offset (RFC 3339) and without one.
var capturedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// CapturedTime parses the ISO-8601 CapturedAt string.
func (r *Reading) CapturedTime() (time.Time, error) {
	for _, layout := range capturedAtLayouts {
		if t, err := time.Parse(layout, r.CapturedAt); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse capturedAt %q: not an ISO-8601 timestamp", r.CapturedAt)
}

// FormatCapturedAt renders a timestamp the way CapturedTime parses it.
func FormatCapturedAt(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
