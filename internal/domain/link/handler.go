package link

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/link", h.LinkPatient)
	g.DELETE("/patient/:patientId", h.UnlinkPatient)
}

type linkRequest struct {
	PatientID  string `json:"patientId"`
	APIKey     string `json:"apiKey"`
	OuraUserID string `json:"ouraUserId"`
}

func (h *Handler) LinkPatient(c echo.Context) error {
	var req linkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrMissingFields.Error())
	}

	if _, err := h.svc.Link(c.Request().Context(), req.PatientID, req.APIKey, req.OuraUserID); err != nil {
		if errors.Is(err, ErrMissingFields) {
			return echo.NewHTTPError(http.StatusBadRequest, ErrMissingFields.Error())
		}
		h.logger.Error().Err(err).Str("patient_id", req.PatientID).Msg("failed to link patient")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to link patient to Oura account")
	}

	h.logger.Info().Str("patient_id", req.PatientID).Msg("patient linked to Oura account")
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Patient linked to Oura account successfully",
		"patientId": req.PatientID,
	})
}

func (h *Handler) UnlinkPatient(c echo.Context) error {
	patientID := c.Param("patientId")

	if err := h.svc.Unlink(c.Request().Context(), patientID); err != nil {
		h.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to unlink patient")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to unlink patient")
	}

	h.logger.Info().Str("patient_id", patientID).Msg("patient unlinked from Oura account")
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Patient unlinked from Oura account successfully",
	})
}
