package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Headers carried on webhook notification deliveries.
const (
	HeaderSignature = "x-oura-signature"
	HeaderTimestamp = "x-oura-timestamp"
)

// Event is the notification body Oura POSTs when subscribed data changes.
type Event struct {
	EventType string `json:"event_type"`
	DataType  string `json:"data_type"`
	ObjectID  string `json:"object_id"`
	UserID    string `json:"user_id"`
}

type Handler struct {
	verifier *Verifier
	logger   zerolog.Logger
}

func NewHandler(verifier *Verifier, logger zerolog.Logger) *Handler {
	return &Handler{verifier: verifier, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/webhook", h.Verify)
	g.POST("/webhook", h.Receive)
}

// Verify answers the registration handshake: echo the challenge back when
// the verification token matches.
func (h *Handler) Verify(c echo.Context) error {
	token := c.QueryParam("verification_token")
	challenge := c.QueryParam("challenge")

	if !h.verifier.VerifyToken(token) {
		return c.String(http.StatusUnauthorized, "Invalid verification token")
	}
	return c.JSON(http.StatusOK, map[string]string{"challenge": challenge})
}

// Receive validates a notification's signature against the raw body bytes
// and acknowledges it. Event processing beyond logging is out of scope.
func (h *Handler) Receive(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}

	signature := c.Request().Header.Get(HeaderSignature)
	timestamp := c.Request().Header.Get(HeaderTimestamp)

	if !h.verifier.VerifySignature(timestamp, body, signature) {
		return c.String(http.StatusUnauthorized, "Invalid signature")
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event body")
	}

	h.logger.Info().
		Str("event_type", event.EventType).
		Str("data_type", event.DataType).
		Str("object_id", event.ObjectID).
		Str("user_id", event.UserID).
		Msg("webhook received")

	return c.String(http.StatusOK, "OK")
}
