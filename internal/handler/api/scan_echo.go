package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	icache "SignalLab/internal/service/cache"
	"SignalLab/internal/service/metrics"
	"SignalLab/internal/service/ratelimit"
	"SignalLab/internal/services/detectors"
	"SignalLab/internal/usecase"
	xhttp "SignalLab/pkg/http"
	applogger "SignalLab/pkg/logger"
)

func init() {
	xhttp.RegisterValidation("strategy", func(v string) bool {
		_, ok := detectors.Lookup(v)
		return ok
	}, "is not a registered strategy")
}

// ScanEchoHandler serves single-symbol, ranged and batch scans.
type ScanEchoHandler struct {
	logger  *applogger.Logger
	scanner *usecase.Scanner
	reports *usecase.ReportBuilder
	cache   icache.BytesCache
	ttl     time.Duration
	rl      *ratelimit.Limiter
}

func NewScanEchoHandler(logger *applogger.Logger, scanner *usecase.Scanner, reports *usecase.ReportBuilder, cache icache.BytesCache, ttl time.Duration, rl *ratelimit.Limiter) *ScanEchoHandler {
	metrics.Register()
	if logger == nil {
		logger = applogger.Nop()
	}
	return &ScanEchoHandler{logger: logger, scanner: scanner, reports: reports, cache: cache, ttl: ttl, rl: rl}
}

func (h *ScanEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/scan", h.Scan)
	g.GET("/scan/:symbol", h.ScanRange)
	g.POST("/scan/batch", h.Batch)
}

// Scan runs one symbol over the configured lookback.
func (h *ScanEchoHandler) Scan(c echo.Context) error {
	const endpoint = "scan"
	defer metrics.ObserveSince(endpoint, time.Now())

	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p := h.scanner.Defaults().Resolve(req.ScanOptions)

	return cached(c, h.cache, h.ttl, h.logger, endpoint, req, func(ctx context.Context) (interface{}, error) {
		return h.scanner.ScanSymbol(ctx, req.Symbol, p)
	})
}

// ScanRange scans an explicit window: GET /api/scan/:symbol?from=&to=&strategies=a,b&holding_days=5
func (h *ScanEchoHandler) ScanRange(c echo.Context) error {
	const endpoint = "scan_range"
	defer metrics.ObserveSince(endpoint, time.Now())

	from, okFrom := xhttp.QueryTime(c, "from")
	to, okTo := xhttp.QueryTime(c, "to")
	if !okFrom {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("from", "from must be a date (YYYY-MM-DD), RFC3339 or unix seconds"))
	}
	if !okTo {
		to = time.Now().UTC()
	}
	if to.Before(from) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("to", "to must not be before from"))
	}

	opts := models.ScanOptions{
		Strategies:  xhttp.QueryList(c, "strategies"),
		HoldingDays: xhttp.QueryInt(c, "holding_days", 0),
		MinGapDays:  xhttp.QueryInt(c, "min_gap_days", 0),
	}
	for _, s := range opts.Strategies {
		if _, ok := detectors.Lookup(s); !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("strategies", "unknown strategy").WithParam("strategy", s))
		}
	}
	if v, ok := xhttp.QueryBool(c, "with_costs"); ok {
		opts.WithCosts = &v
	}
	p := h.scanner.Defaults().Resolve(opts)
	symbol := c.Param("symbol")

	res, err := h.scanner.ScanRange(c.Request().Context(), symbol, from, to, p)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// BatchResponse is the body of POST /api/scan/batch.
type BatchResponse struct {
	JobID   string                      `json:"job_id"`
	Results []*models.StockSignalResult `json:"results"`
	Report  *usecase.ScanReport         `json:"report,omitempty"`
}

// Batch scans many symbols synchronously; rate limited per client.
func (h *ScanEchoHandler) Batch(c echo.Context) error {
	const endpoint = "scan_batch"
	defer metrics.ObserveSince(endpoint, time.Now())

	if h.rl != nil && !h.rl.Allow(c.RealIP()) {
		metrics.RateLimited.WithLabelValues(endpoint).Inc()
		h.logger.Warn("api.scan_batch rate_limited", applogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("batch scan rate limit exceeded"))
	}

	req := &models.BatchScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p := h.scanner.Defaults().Resolve(req.ScanOptions)
	jobID := uuid.NewString()

	results, err := h.scanner.ScanSymbols(c.Request().Context(), req.Symbols, p, nil)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	resp := BatchResponse{JobID: jobID, Results: results}
	if req.WithReport {
		resp.Report = h.reports.FromResults(results, nil)
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *ScanEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	metrics.APIErrors.WithLabelValues(endpoint).Inc()
	switch {
	case errors.Is(err, domrepo.ErrStockNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("%v", err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("api."+endpoint+" cancelled", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("request cancelled").WithError(err))
	}
	h.logger.Error("api."+endpoint+" usecase error", applogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()).WithError(err))
}

// cached serves a JSON body from the response cache or computes and stores it.
// Cache failures only log; they never fail the request.
func cached(c echo.Context, cache icache.BytesCache, ttl time.Duration, l *applogger.Logger, endpoint string, req interface{}, compute func(context.Context) (interface{}, error)) error {
	ctx := c.Request().Context()
	var key string
	if cache != nil {
		k, err := icache.Key(endpoint, req)
		if err == nil {
			key = k
			b, ok, err := cache.GetBytes(ctx, key)
			switch {
			case err != nil:
				metrics.CacheLookups.WithLabelValues(endpoint, "error").Inc()
				l.Warn("api."+endpoint+" cache_get_error", applogger.Error(err))
			case ok:
				metrics.CacheLookups.WithLabelValues(endpoint, "hit").Inc()
				return xhttp.SuccessResponse(c, json.RawMessage(b))
			default:
				metrics.CacheLookups.WithLabelValues(endpoint, "miss").Inc()
			}
		}
	}

	res, err := compute(ctx)
	if err != nil {
		var appErr *xhttp.AppError
		if errors.As(err, &appErr) {
			return xhttp.AppErrorResponse(c, appErr)
		}
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		if errors.Is(err, domrepo.ErrStockNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("%v", err))
		}
		l.Error("api."+endpoint+" usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()).WithError(err))
	}

	if key != "" {
		if b, err := json.Marshal(res); err == nil {
			if err := cache.SetBytes(ctx, key, b, ttl); err != nil {
				l.Warn("api."+endpoint+" cache_set_error", applogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}
