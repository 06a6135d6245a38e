package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/oura-bridge/internal/platform/oura"
)

func newTestHandler(t *testing.T, clients map[string]oura.Client) (*Handler, *echo.Echo) {
	t.Helper()
	h := NewHandler(newTestService(t, clients), zerolog.Nop())
	return h, echo.New()
}

func TestHandler_GetPatientData(t *testing.T) {
	h, e := newTestHandler(t, map[string]oura.Client{
		"P0001": &fakeClient{
			activity: []oura.DailyActivity{{Day: "2024-01-15", Steps: 8200, Score: intPtr(85)}},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/patient/P0001", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("P0001")

	if err := h.GetPatientData(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["patientId"] != "P0001" || resp["hasLinkedOura"] != true {
		t.Errorf("unexpected envelope %v", resp)
	}
}

func TestHandler_GetPatientData_NotLinked(t *testing.T) {
	h, e := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/patient/ghost", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("ghost")

	err := h.GetPatientData(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", he.Code)
	}
	if he.Message != "Patient not linked to Oura account" {
		t.Errorf("unexpected message %v", he.Message)
	}
}

func TestHandler_GetPatientSummary_UpstreamFailure(t *testing.T) {
	h, e := newTestHandler(t, map[string]oura.Client{
		"P0001": &fakeClient{activityErr: errors.New("boom")},
	})

	req := httptest.NewRequest(http.MethodGet, "/patient/P0001/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("P0001")

	err := h.GetPatientSummary(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", he.Code)
	}
	if he.Message != "Failed to fetch Oura summary" {
		t.Errorf("unexpected message %v", he.Message)
	}
}

func TestHandler_BatchSummary(t *testing.T) {
	h, e := newTestHandler(t, map[string]oura.Client{
		"P0001": &fakeClient{activity: []oura.DailyActivity{{Day: "2024-01-15", Steps: 8000}}},
	})

	body := `{"patientIds":["P0001","ghost"]}`
	req := httptest.NewRequest(http.MethodPost, "/patients/batch/summary", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.BatchSummary(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("partial failure must still be 200, got %d", rec.Code)
	}

	var resp struct {
		Data   []json.RawMessage `json:"data"`
		Errors []BatchError      `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Data) != 1 || len(resp.Errors) != 1 {
		t.Fatalf("unexpected partition: %d data, %d errors", len(resp.Data), len(resp.Errors))
	}
	if resp.Errors[0].PatientID != "ghost" {
		t.Errorf("unexpected error entry %+v", resp.Errors[0])
	}
}

func TestHandler_BatchSummary_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{}`},
		{"null field", `{"patientIds":null}`},
		{"not an array", `{"patientIds":"P0001"}`},
		{"array of objects", `{"patientIds":[{"id":"P0001"}]}`},
		{"malformed json", `{"patientIds":`},
	}

	h, e := newTestHandler(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/patients/batch/summary", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.BatchSummary(c)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", he.Code)
			}
			if he.Message != "patientIds array required" {
				t.Errorf("unexpected message %v", he.Message)
			}
		})
	}
}

func TestHandler_BatchSummary_EmptyArray(t *testing.T) {
	h, e := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/patients/batch/summary", strings.NewReader(`{"patientIds":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.BatchSummary(c); err != nil {
		t.Fatalf("empty array is valid: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := strings.TrimSpace(rec.Body.String())
	if !strings.Contains(body, `"data":[]`) || !strings.Contains(body, `"errors":[]`) {
		t.Errorf("expected empty lists, got %s", body)
	}
}
