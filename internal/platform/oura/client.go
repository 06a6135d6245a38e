package oura

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the production Oura API v2 endpoint.
const DefaultBaseURL = "https://api.ouraring.com/v2"

// DefaultTimeout bounds every upstream request.
const DefaultTimeout = 10 * time.Second

// Client reads daily metric collections for one Oura account. Dates are
// calendar dates in YYYY-MM-DD form; returned slices are ordered by day.
type Client interface {
	GetDailyActivity(ctx context.Context, startDate, endDate string) ([]DailyActivity, error)
	GetDailySleep(ctx context.Context, startDate, endDate string) ([]DailySleep, error)
	GetDailyReadiness(ctx context.Context, startDate, endDate string) ([]DailyReadiness, error)
	GetHeartRate(ctx context.Context, startDate, endDate string) ([]HeartRateSample, error)
}

// HTTPClient talks to the Oura API over HTTPS with a bearer token.
type HTTPClient struct {
	http *resty.Client
}

// NewHTTPClient builds a client for one access token. A non-positive timeout
// falls back to DefaultTimeout.
func NewHTTPClient(baseURL, accessToken string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HTTPClient{http: client}
}

func (c *HTTPClient) GetDailyActivity(ctx context.Context, startDate, endDate string) ([]DailyActivity, error) {
	var out activityCollection
	if err := c.get(ctx, "/usercollection/daily_activity", startDate, endDate, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) GetDailySleep(ctx context.Context, startDate, endDate string) ([]DailySleep, error) {
	var out sleepCollection
	if err := c.get(ctx, "/usercollection/daily_sleep", startDate, endDate, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) GetDailyReadiness(ctx context.Context, startDate, endDate string) ([]DailyReadiness, error) {
	var out readinessCollection
	if err := c.get(ctx, "/usercollection/daily_readiness", startDate, endDate, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) GetHeartRate(ctx context.Context, startDate, endDate string) ([]HeartRateSample, error) {
	var out heartRateCollection
	if err := c.get(ctx, "/usercollection/heartrate", startDate, endDate, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) get(ctx context.Context, path, startDate, endDate string, result any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("start_date", startDate).
		SetQueryParam("end_date", endDate).
		SetResult(result).
		Get(path)
	if err != nil {
		return newNetworkError(err)
	}
	if resp.IsError() {
		return newAPIError(resp.StatusCode(), resp.String())
	}
	return nil
}
