package metrics

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/oura-bridge/internal/domain/link"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patient/:patientId", h.GetPatientData)
	g.GET("/patient/:patientId/summary", h.GetPatientSummary)
	g.POST("/patients/batch/summary", h.BatchSummary)
}

func (h *Handler) GetPatientData(c echo.Context) error {
	patientID := c.Param("patientId")

	out, err := h.svc.FetchLatest(
		c.Request().Context(),
		patientID,
		c.QueryParam("startDate"),
		c.QueryParam("endDate"),
	)
	if err != nil {
		if errors.Is(err, link.ErrNotLinked) {
			return echo.NewHTTPError(http.StatusNotFound, link.ErrNotLinked.Error())
		}
		h.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to fetch patient data")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch Oura data")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetPatientSummary(c echo.Context) error {
	patientID := c.Param("patientId")

	out, err := h.svc.FetchSummary(c.Request().Context(), patientID)
	if err != nil {
		if errors.Is(err, link.ErrNotLinked) {
			return echo.NewHTTPError(http.StatusNotFound, link.ErrNotLinked.Error())
		}
		h.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to fetch patient summary")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch Oura summary")
	}
	return c.JSON(http.StatusOK, out)
}

type batchSummaryRequest struct {
	PatientIDs json.RawMessage `json:"patientIds"`
}

func (h *Handler) BatchSummary(c echo.Context) error {
	badRequest := echo.NewHTTPError(http.StatusBadRequest, "patientIds array required")

	var req batchSummaryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest
	}
	if req.PatientIDs == nil || string(req.PatientIDs) == "null" {
		return badRequest
	}

	// Anything other than a JSON array of strings is rejected; an empty
	// array is valid and yields an empty result.
	var patientIDs []string
	if err := json.Unmarshal(req.PatientIDs, &patientIDs); err != nil {
		return badRequest
	}

	result := h.svc.BatchSummary(c.Request().Context(), patientIDs)
	h.logger.Info().
		Int("requested", len(patientIDs)).
		Int("succeeded", len(result.Data)).
		Int("failed", len(result.Errors)).
		Msg("batch summary completed")
	return c.JSON(http.StatusOK, result)
}
