package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	"SignalLab/internal/services/detectors"
	xhttp "SignalLab/pkg/http"
)

// StrategyInfo describes one registered detector.
type StrategyInfo struct {
	Name string            `json:"name"`
	Type models.SignalType `json:"type"`
}

// SystemEchoHandler serves the strategy catalogue and health checks.
type SystemEchoHandler struct {
	deps map[string]domrepo.Storage
}

func NewSystemEchoHandler(deps map[string]domrepo.Storage) *SystemEchoHandler {
	return &SystemEchoHandler{deps: deps}
}

func (h *SystemEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/strategies", h.Strategies)
	e.GET("/healthz", h.Health)
}

func (h *SystemEchoHandler) Strategies(c echo.Context) error {
	names := detectors.Names()
	out := make([]StrategyInfo, 0, len(names))
	for _, n := range names {
		d, _ := detectors.Lookup(n)
		out = append(out, StrategyInfo{Name: d.Name(), Type: d.Type()})
	}
	return xhttp.ListResponse(c, out, int64(len(out)))
}

// Health pings every registered dependency; any failure yields 503.
func (h *SystemEchoHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	code := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Health(ctx); err != nil {
			status[name] = err.Error()
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	return xhttp.DataResponse(c, code, status)
}
