// Package metrics fetches and summarizes wearable data for linked patients:
// the latest-value snapshot for one patient, the 7-day summary, and the
// concurrent batch summary across many patients.
package metrics

import "github.com/ehr/oura-bridge/internal/platform/oura"

// LatestActivity is the most recent activity record, flattened for the API.
// Pointer fields are null when the upstream series was empty or the field
// was absent.
type LatestActivity struct {
	Steps          int     `json:"steps"`
	ActiveCalories int     `json:"activeCalories"`
	TotalCalories  int     `json:"totalCalories"`
	Score          *int    `json:"score"`
	Date           *string `json:"date"`
}

// LatestSleep is the most recent sleep record. Durations are seconds.
type LatestSleep struct {
	TotalSleep int     `json:"totalSleep"`
	DeepSleep  int     `json:"deepSleep"`
	RemSleep   int     `json:"remSleep"`
	Score      *int    `json:"score"`
	Efficiency *int    `json:"efficiency"`
	Date       *string `json:"date"`
}

// LatestReadiness is the most recent readiness record.
type LatestReadiness struct {
	Score                *int     `json:"score"`
	TemperatureDeviation *float64 `json:"temperatureDeviation"`
	Date                 *string  `json:"date"`
}

// LatestData groups the three latest-record snapshots.
type LatestData struct {
	Activity  LatestActivity  `json:"activity"`
	Sleep     LatestSleep     `json:"sleep"`
	Readiness LatestReadiness `json:"readiness"`
}

// LatestMetrics is the response of the single-patient latest-data fetch.
type LatestMetrics struct {
	PatientID     string     `json:"patientId"`
	HasLinkedOura bool       `json:"hasLinkedOura"`
	Data          LatestData `json:"data"`
}

// Summary holds the per-patient averages over the fetched window, each
// rounded to the nearest integer. TotalDays is the length of the activity
// series; when it is zero every average is zero.
type Summary struct {
	AverageSteps          int `json:"averageSteps"`
	AverageSleepScore     int `json:"averageSleepScore"`
	AverageReadinessScore int `json:"averageReadinessScore"`
	TotalDays             int `json:"totalDays"`
}

// DailyData carries the raw upstream series alongside the summary.
type DailyData struct {
	Activity  []oura.DailyActivity  `json:"activity"`
	Sleep     []oura.DailySleep     `json:"sleep"`
	Readiness []oura.DailyReadiness `json:"readiness"`
}

// PatientSummary is the response of the 7-day summary fetch.
type PatientSummary struct {
	PatientID string    `json:"patientId"`
	Period    string    `json:"period"`
	Summary   Summary   `json:"summary"`
	DailyData DailyData `json:"dailyData"`
}

// BatchError records one patient's failure inside a batch request.
type BatchError struct {
	PatientID string `json:"patientId"`
	Error     string `json:"error"`
}

// BatchResult partitions a batch request's patients into successes and
// failures. Every requested patient id appears in exactly one of the two
// lists, both in input order.
type BatchResult struct {
	Data   []*PatientSummary `json:"data"`
	Errors []BatchError      `json:"errors"`
}
