package metrics

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/ehr/oura-bridge/internal/domain/link"
	"github.com/ehr/oura-bridge/internal/platform/oura"
)

// ClientFactory builds an upstream client for one credential. The serve
// wiring returns the mock client for the demo key and the HTTP client
// otherwise.
type ClientFactory func(apiKey string) oura.Client

// defaultWindowDays is the trailing window used when no dates are given.
const defaultWindowDays = 7

type Service struct {
	links   *link.Service
	clients ClientFactory
	now     func() time.Time
}

func NewService(links *link.Service, clients ClientFactory) *Service {
	return &Service{links: links, clients: clients, now: time.Now}
}

// SetClock overrides the date-window source. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// window fills in the default trailing 7-day range for omitted bounds.
func (s *Service) window(startDate, endDate string) (string, string) {
	if endDate == "" {
		endDate = s.now().UTC().Format("2006-01-02")
	}
	if startDate == "" {
		startDate = s.now().UTC().AddDate(0, 0, -defaultWindowDays).Format("2006-01-02")
	}
	return startDate, endDate
}

// FetchLatest returns the most recent record per metric for one patient.
// The three upstream calls run concurrently; a failed call is replaced by an
// empty series before the join, so a single metric's upstream error never
// fails the fetch. Only a missing link does.
func (s *Service) FetchLatest(ctx context.Context, patientID, startDate, endDate string) (*LatestMetrics, error) {
	rec, err := s.links.Resolve(ctx, patientID)
	if err != nil {
		return nil, err
	}

	client := s.clients(rec.APIKey)
	start, end := s.window(startDate, endDate)

	var (
		wg        sync.WaitGroup
		activity  []oura.DailyActivity
		sleep     []oura.DailySleep
		readiness []oura.DailyReadiness
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		activity, _ = client.GetDailyActivity(ctx, start, end)
	}()
	go func() {
		defer wg.Done()
		sleep, _ = client.GetDailySleep(ctx, start, end)
	}()
	go func() {
		defer wg.Done()
		readiness, _ = client.GetDailyReadiness(ctx, start, end)
	}()
	wg.Wait()

	out := &LatestMetrics{PatientID: patientID, HasLinkedOura: true}
	if n := len(activity); n > 0 {
		last := activity[n-1]
		out.Data.Activity = LatestActivity{
			Steps:          last.Steps,
			ActiveCalories: last.ActiveCalories,
			TotalCalories:  last.TotalCalories,
			Score:          last.Score,
			Date:           &last.Day,
		}
	}
	if n := len(sleep); n > 0 {
		last := sleep[n-1]
		out.Data.Sleep = LatestSleep{
			TotalSleep: last.TotalSleepDuration,
			DeepSleep:  last.DeepSleepDuration,
			RemSleep:   last.RemSleepDuration,
			Score:      last.Score,
			Efficiency: last.Efficiency,
			Date:       &last.Day,
		}
	}
	if n := len(readiness); n > 0 {
		last := readiness[n-1]
		out.Data.Readiness = LatestReadiness{
			Score:                last.Score,
			TemperatureDeviation: last.TemperatureDeviation,
			Date:                 &last.Day,
		}
	}
	return out, nil
}

// FetchSummary computes the 7-day averages for one patient. Unlike
// FetchLatest there is no per-metric fallback: all three upstream calls must
// succeed, and the first failure propagates.
func (s *Service) FetchSummary(ctx context.Context, patientID string) (*PatientSummary, error) {
	rec, err := s.links.Resolve(ctx, patientID)
	if err != nil {
		return nil, err
	}

	client := s.clients(rec.APIKey)
	start, end := s.window("", "")

	var (
		wg           sync.WaitGroup
		activity     []oura.DailyActivity
		sleep        []oura.DailySleep
		readiness    []oura.DailyReadiness
		actErr       error
		sleepErr     error
		readinessErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		activity, actErr = client.GetDailyActivity(ctx, start, end)
	}()
	go func() {
		defer wg.Done()
		sleep, sleepErr = client.GetDailySleep(ctx, start, end)
	}()
	go func() {
		defer wg.Done()
		readiness, readinessErr = client.GetDailyReadiness(ctx, start, end)
	}()
	wg.Wait()

	for _, err := range []error{actErr, sleepErr, readinessErr} {
		if err != nil {
			return nil, err
		}
	}

	summary := Summary{
		AverageSteps: roundMean(len(activity), func(i int) int { return activity[i].Steps }),
		AverageSleepScore: roundMean(len(sleep), func(i int) int {
			return scoreOrZero(sleep[i].Score)
		}),
		AverageReadinessScore: roundMean(len(readiness), func(i int) int {
			return scoreOrZero(readiness[i].Score)
		}),
		TotalDays: len(activity),
	}

	return &PatientSummary{
		PatientID: patientID,
		Period:    "7 days",
		Summary:   summary,
		DailyData: DailyData{Activity: activity, Sleep: sleep, Readiness: readiness},
	}, nil
}

// BatchSummary fetches summaries for every patient concurrently. Failures
// are isolated per patient: each outcome is awaited and a failed patient
// becomes an error entry instead of aborting the batch. Both result lists
// preserve the input order.
func (s *Service) BatchSummary(ctx context.Context, patientIDs []string) *BatchResult {
	type outcome struct {
		summary *PatientSummary
		err     error
	}

	outcomes := make([]outcome, len(patientIDs))
	var wg sync.WaitGroup
	wg.Add(len(patientIDs))
	for i, patientID := range patientIDs {
		go func(i int, patientID string) {
			defer wg.Done()
			summary, err := s.FetchSummary(ctx, patientID)
			outcomes[i] = outcome{summary: summary, err: err}
		}(i, patientID)
	}
	wg.Wait()

	result := &BatchResult{
		Data:   make([]*PatientSummary, 0, len(patientIDs)),
		Errors: make([]BatchError, 0),
	}
	for i, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, BatchError{
				PatientID: patientIDs[i],
				Error:     o.err.Error(),
			})
			continue
		}
		result.Data = append(result.Data, o.summary)
	}
	return result
}

// roundMean is the arithmetic mean of n values rounded to the nearest
// integer, or zero when the series is empty.
func roundMean(n int, value func(i int) int) int {
	if n == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < n; i++ {
		sum += value(i)
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func scoreOrZero(score *int) int {
	if score == nil {
		return 0
	}
	return *score
}
