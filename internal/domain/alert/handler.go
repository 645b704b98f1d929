package alert

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitals/vitals/pkg/vitals"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/evaluate", h.EvaluateReadings)
	e.GET("/alerts", h.GetAlerts)
	e.DELETE("/alerts/clear", h.ClearAlerts)
}

func (h *Handler) EvaluateReadings(c echo.Context) error {
	var readings []*vitals.Reading
	if err := c.Bind(&readings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	alerts, err := h.svc.EvaluateReadings(c.Request().Context(), readings)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *Handler) GetAlerts(c echo.Context) error {
	patientID := c.QueryParam("patientId")
	if strings.TrimSpace(patientID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patientId is required")
	}

	alerts, err := h.svc.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if alerts == nil {
		alerts = []vitals.Alert{}
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *Handler) ClearAlerts(c echo.Context) error {
	if err := h.svc.ClearAll(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.String(http.StatusOK, "All alerts data cleared")
}
