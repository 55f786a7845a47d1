package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"SignalLab/internal/domain/models"
	icache "SignalLab/internal/service/cache"
	"SignalLab/internal/service/metrics"
	"SignalLab/internal/usecase"
	xhttp "SignalLab/pkg/http"
	applogger "SignalLab/pkg/logger"
)

// MetricsEchoHandler computes unified performance metrics for a caller supplied curve.
type MetricsEchoHandler struct {
	logger  *applogger.Logger
	reports *usecase.ReportBuilder
	cache   icache.BytesCache
	ttl     time.Duration
}

func NewMetricsEchoHandler(logger *applogger.Logger, reports *usecase.ReportBuilder, cache icache.BytesCache, ttl time.Duration) *MetricsEchoHandler {
	metrics.Register()
	if logger == nil {
		logger = applogger.Nop()
	}
	return &MetricsEchoHandler{logger: logger, reports: reports, cache: cache, ttl: ttl}
}

func (h *MetricsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/metrics", h.Metrics)
}

func (h *MetricsEchoHandler) Metrics(c echo.Context) error {
	const endpoint = "metrics"
	defer metrics.ObserveSince(endpoint, time.Now())

	req := &models.MetricsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := usecase.ValidateCurve(req.Equity); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("equity", err.Error()))
	}
	if err := usecase.ValidateCurve(req.Benchmark); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("benchmark", err.Error()))
	}

	b := h.reports
	if req.RiskFreeRate != nil {
		b = b.WithRiskFree(*req.RiskFreeRate)
	}
	return cached(c, h.cache, h.ttl, h.logger, endpoint, req, func(context.Context) (interface{}, error) {
		pr := b.FromEquity(req.Equity, req.Benchmark, req.Trades)
		if len(req.Benchmark) > 0 && pr.Benchmark == nil {
			return nil, xhttp.BadRequestError("benchmark", "benchmark shares fewer than two dates with the equity curve")
		}
		return pr, nil
	})
}
