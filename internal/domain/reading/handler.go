package reading

import (
	"net/http"
	"strconv"

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
	e.POST("/readings", h.SubmitReadings)
	e.GET("/readings", h.ListReadings)
	e.DELETE("/readings/clear", h.ClearReadings)
}

// SubmitReadings accepts a JSON array of readings. The optional
// ?transactional=true flag switches from best-effort to all-or-nothing
// processing. The response body is the array of alerts created downstream.
func (h *Handler) SubmitReadings(c echo.Context) error {
	var readings []*vitals.Reading
	if err := c.Bind(&readings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	// ParseBool accepts the TRUE/True spellings some clients send.
	transactional, _ := strconv.ParseBool(c.QueryParam("transactional"))

	var alerts []vitals.Alert
	var err error
	if transactional {
		alerts, err = h.svc.ProcessReadingsTransactional(ctx, readings)
	} else {
		alerts, err = h.svc.ProcessReadings(ctx, readings)
	}
	if err != nil {
		if IsValidationError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *Handler) ListReadings(c echo.Context) error {
	readings, err := h.svc.ListReadings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if readings == nil {
		readings = []*vitals.Reading{}
	}
	return c.JSON(http.StatusOK, readings)
}

func (h *Handler) ClearReadings(c echo.Context) error {
	if err := h.svc.ClearAll(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.String(http.StatusOK, "All vital readings data cleared")
}
