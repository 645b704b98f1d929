package vitals

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCapturedTime_Layouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-08-01T12:00:00Z", time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)},
		{"2025-08-01T12:00:00+02:00", time.Date(2025, 8, 1, 12, 0, 0, 0, time.FixedZone("", 2*3600))},
		{"2025-08-01T12:00:00", time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)},
		{"2025-08-01T12:00:00.500", time.Date(2025, 8, 1, 12, 0, 0, 500000000, time.UTC)},
	}
	for _, tc := range cases {
		r := Reading{CapturedAt: tc.in}
		got, err := r.CapturedTime()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCapturedTime_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2025-08-01", "12:00:00"} {
		r := Reading{CapturedAt: in}
		if _, err := r.CapturedTime(); err == nil {
			t.Errorf("%q: expected parse error", in)
		}
	}
}

func TestReading_JSONRoundTrip(t *testing.T) {
	in := `{"readingId":"r-1","patientId":"p-1","capturedAt":"2025-08-01T12:00:00Z","type":"BP","systolic":150,"diastolic":95}`

	var r Reading
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Type != TypeBP || r.Systolic == nil || *r.Systolic != 150 || *r.Diastolic != 95 {
		t.Errorf("unexpected decode: %+v", r)
	}
	if r.HR != nil || r.SpO2 != nil {
		t.Error("fields for other variants must stay nil")
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var echo map[string]interface{}
	if err := json.Unmarshal(out, &echo); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if _, ok := echo["hr"]; ok {
		t.Error("absent payload fields must be omitted from JSON")
	}
	if echo["type"] != "BP" {
		t.Errorf("expected type discriminator preserved, got %v", echo["type"])
	}
}

func TestReading_ZeroValueDistinctFromAbsent(t *testing.T) {
	var r Reading
	if err := json.Unmarshal([]byte(`{"type":"SPO2","spo2":0}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.SpO2 == nil || *r.SpO2 != 0 {
		t.Error("explicit zero must decode as present")
	}

	var r2 Reading
	if err := json.Unmarshal([]byte(`{"type":"SPO2"}`), &r2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r2.SpO2 != nil {
		t.Error("absent field must decode as nil")
	}
}

func TestAlert_JSONFieldNames(t *testing.T) {
	a := Alert{
		AlertID:           "a-1",
		PatientID:         "p-1",
		ReadingID:         "r-1",
		ReadingType:       TypeHR,
		AlertType:         AlertHigh,
		ThresholdViolated: "Heart Rate > 110",
		ReadingValue:      "120",
		TriggeredAt:       time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		CreatedAt:         time.Date(2025, 8, 1, 12, 0, 1, 0, time.UTC),
	}
	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"alertId", "patientId", "readingId", "readingType", "alertType", "thresholdViolated", "readingValue", "triggeredAt", "createdAt"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing json field %s", key)
		}
	}
	if m["alertType"] != "HIGH" {
		t.Errorf("expected alertType HIGH, got %v", m["alertType"])
	}
}
