package vitals

import "time"

// AlertType classifies the severity of a threshold breach.
type AlertType string

const (
	AlertLow      AlertType = "LOW"
	AlertHigh     AlertType = "HIGH"
	AlertCritical AlertType = "CRITICAL"
)

// Alert is one derived record per reading that breached a threshold. The
// ReadingID is unique across all alerts, which is what makes evaluation
// idempotent.
type Alert struct {
	AlertID           string    `json:"alertId"`
	PatientID         string    `json:"patientId"`
	ReadingID         string    `json:"readingId"`
	ReadingType       string    `json:"readingType"`
	AlertType         AlertType `json:"alertType"`
	ThresholdViolated string    `json:"thresholdViolated"`
	ReadingValue      string    `json:"readingValue"`
	TriggeredAt       time.Time `json:"triggeredAt"`
	CreatedAt         time.Time `json:"createdAt"`
}
