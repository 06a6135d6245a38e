// Package oura integrates with the Oura Ring API v2. It exposes a small
// Client interface over the daily activity, sleep, and readiness
// collections, an HTTP implementation with a status-code error taxonomy,
// and a seedable mock generator for demo mode.
package oura

// DailyActivity is one day of activity data as returned by
// /usercollection/daily_activity. Records are ordered by day.
type DailyActivity struct {
	ID                        string `json:"id"`
	Day                       string `json:"day"`
	Score                     *int   `json:"score"`
	ActiveCalories            int    `json:"active_calories"`
	TotalCalories             int    `json:"total_calories"`
	Steps                     int    `json:"steps"`
	EquivalentWalkingDistance int    `json:"equivalent_walking_distance,omitempty"`
	HighActivityTime          int    `json:"high_activity_time,omitempty"`
	MediumActivityTime        int    `json:"medium_activity_time,omitempty"`
	LowActivityTime           int    `json:"low_activity_time,omitempty"`
	NonWearTime               int    `json:"non_wear_time,omitempty"`
	RestingTime               int    `json:"resting_time,omitempty"`
	SedentaryTime             int    `json:"sedentary_time,omitempty"`
	Timestamp                 string `json:"timestamp,omitempty"`
}

// DailySleep is one day of sleep data. Durations are seconds.
type DailySleep struct {
	ID                 string `json:"id"`
	Day                string `json:"day"`
	Score              *int   `json:"score"`
	TotalSleepDuration int    `json:"total_sleep_duration"`
	DeepSleepDuration  int    `json:"deep_sleep_duration"`
	LightSleepDuration int    `json:"light_sleep_duration,omitempty"`
	RemSleepDuration   int    `json:"rem_sleep_duration"`
	AwakeTime          int    `json:"awake_time,omitempty"`
	Efficiency         *int   `json:"efficiency"`
	Latency            int    `json:"latency,omitempty"`
	Timing             int    `json:"timing,omitempty"`
	Timestamp          string `json:"timestamp,omitempty"`
}

// DailyReadiness is one day of readiness data.
type DailyReadiness struct {
	ID                        string   `json:"id"`
	Day                       string   `json:"day"`
	Score                     *int     `json:"score"`
	TemperatureDeviation      *float64 `json:"temperature_deviation"`
	TemperatureTrendDeviation *float64 `json:"temperature_trend_deviation,omitempty"`
	ActivityBalance           int      `json:"activity_balance,omitempty"`
	BodyTemperature           float64  `json:"body_temperature,omitempty"`
	HRVBalance                int      `json:"hrv_balance,omitempty"`
	PreviousDayActivity       int      `json:"previous_day_activity,omitempty"`
	PreviousNight             int      `json:"previous_night,omitempty"`
	RecoveryIndex             int      `json:"recovery_index,omitempty"`
	RestingHeartRate          int      `json:"resting_heart_rate,omitempty"`
	SleepBalance              int      `json:"sleep_balance,omitempty"`
	Timestamp                 string   `json:"timestamp,omitempty"`
}

// HeartRateSample is one heart rate measurement.
type HeartRateSample struct {
	BPM       int    `json:"bpm"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// Collection envelopes returned by the upstream API.
type activityCollection struct {
	Data      []DailyActivity `json:"data"`
	NextToken *string         `json:"next_token"`
}

type sleepCollection struct {
	Data      []DailySleep `json:"data"`
	NextToken *string      `json:"next_token"`
}

type readinessCollection struct {
	Data      []DailyReadiness `json:"data"`
	NextToken *string          `json:"next_token"`
}

type heartRateCollection struct {
	Data      []HeartRateSample `json:"data"`
	NextToken *string           `json:"next_token"`
}
