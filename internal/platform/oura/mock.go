package oura

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// MockClient generates realistic-looking daily data without calling the real
// API. It backs demo mode and tests. The random source is injected so tests
// can seed it for deterministic output.
type MockClient struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockClient creates a generator from the given source. A nil source gets
// a time-seeded one.
func NewMockClient(src rand.Source) *MockClient {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &MockClient{rng: rand.New(src)}
}

func (m *MockClient) GetDailyActivity(_ context.Context, startDate, endDate string) ([]DailyActivity, error) {
	days, err := dateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]DailyActivity, 0, len(days))
	for _, day := range days {
		score := m.intn(30) + 70
		out = append(out, DailyActivity{
			ID:                        "activity-" + day,
			Day:                       day,
			Score:                     &score,
			ActiveCalories:            m.intn(300) + 400,
			TotalCalories:             m.intn(500) + 2000,
			Steps:                     m.intn(5000) + 6000,
			EquivalentWalkingDistance: m.intn(5000) + 5000,
			HighActivityTime:          m.intn(3600) + 1800,
			MediumActivityTime:        m.intn(7200) + 3600,
			LowActivityTime:           m.intn(10800) + 7200,
			NonWearTime:               m.intn(3600),
			RestingTime:               m.intn(28800) + 28800,
			SedentaryTime:             m.intn(21600) + 14400,
			Timestamp:                 day + "T00:00:00+00:00",
		})
	}
	return out, nil
}

func (m *MockClient) GetDailySleep(_ context.Context, startDate, endDate string) ([]DailySleep, error) {
	days, err := dateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]DailySleep, 0, len(days))
	for _, day := range days {
		// 7-9 hours total, 15-25% deep, 20-30% REM, remainder light.
		total := m.intn(7200) + 25200
		deep := int(float64(total) * (m.rng.Float64()*0.1 + 0.15))
		rem := int(float64(total) * (m.rng.Float64()*0.1 + 0.20))
		score := m.intn(30) + 70
		efficiency := m.intn(10) + 85
		out = append(out, DailySleep{
			ID:                 "sleep-" + day,
			Day:                day,
			Score:              &score,
			TotalSleepDuration: total,
			DeepSleepDuration:  deep,
			LightSleepDuration: total - deep - rem,
			RemSleepDuration:   rem,
			AwakeTime:          m.intn(1800) + 600,
			Efficiency:         &efficiency,
			Latency:            m.intn(900) + 300,
			Timing:             m.intn(100) + 50,
			Timestamp:          day + "T00:00:00+00:00",
		})
	}
	return out, nil
}

func (m *MockClient) GetDailyReadiness(_ context.Context, startDate, endDate string) ([]DailyReadiness, error) {
	days, err := dateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]DailyReadiness, 0, len(days))
	for _, day := range days {
		score := m.intn(30) + 70
		tempDev := m.rng.Float64() - 0.5
		tempTrend := m.rng.Float64()*0.4 - 0.2
		out = append(out, DailyReadiness{
			ID:                        "readiness-" + day,
			Day:                       day,
			Score:                     &score,
			TemperatureDeviation:      &tempDev,
			TemperatureTrendDeviation: &tempTrend,
			ActivityBalance:           m.intn(30) + 70,
			BodyTemperature:           36.5 + m.rng.Float64()*0.5,
			HRVBalance:                m.intn(30) + 70,
			PreviousDayActivity:       m.intn(30) + 70,
			PreviousNight:             m.intn(30) + 70,
			RecoveryIndex:             m.intn(30) + 70,
			RestingHeartRate:          m.intn(20) + 50,
			SleepBalance:              m.intn(30) + 70,
			Timestamp:                 day + "T00:00:00+00:00",
		})
	}
	return out, nil
}

func (m *MockClient) GetHeartRate(_ context.Context, startDate, endDate string) ([]HeartRateSample, error) {
	days, err := dateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []HeartRateSample
	for _, day := range days {
		for hour := 0; hour < 24; hour++ {
			out = append(out, HeartRateSample{
				BPM:       m.intn(40) + 60,
				Source:    "ring",
				Timestamp: fmt.Sprintf("%sT%02d:00:00+00:00", day, hour),
			})
		}
	}
	return out, nil
}

func (m *MockClient) intn(n int) int { return m.rng.Intn(n) }

// dateRange expands an inclusive YYYY-MM-DD range into one entry per day.
func dateRange(startDate, endDate string) ([]string, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, &APIError{StatusCode: 400, Message: fmt.Sprintf("Bad Request: invalid start_date %q", startDate)}
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, &APIError{StatusCode: 400, Message: fmt.Sprintf("Bad Request: invalid end_date %q", endDate)}
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days, nil
}
