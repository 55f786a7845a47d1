package market

import (
	"context"
	"fmt"
	"time"

	"SignalLab/internal/domain/models"
	domsvc "SignalLab/internal/domain/service"
	xhttp "SignalLab/pkg/http"
	"SignalLab/pkg/logger"
)

const statusPath = "/market/status"

// HTTPServiceBase wraps the shared HTTP client with a base URL and JSON POST helpers.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
}

func NewHTTPServiceBase(baseURL string, timeout time.Duration) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPServiceBase{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// PostJSON posts payload to path under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("market http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.baseURL + path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry retries PostJSON up to attempts times with linear backoff.
// Client errors (4xx other than 429) are returned without retrying.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.PostJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, payload, dest)
		if err == nil || !xhttp.IsRetryable(err) {
			return err
		}
		if i == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// HTTPOracle asks a remote market-status service about one bar at a time.
// Any failure classifies the bar as normal.
type HTTPOracle struct {
	base     *HTTPServiceBase
	attempts int
	log      *logger.Logger
}

func NewHTTPOracle(baseURL string, timeout time.Duration, attempts int, log *logger.Logger) *HTTPOracle {
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPOracle{base: NewHTTPServiceBase(baseURL, timeout), attempts: attempts, log: log}
}

type statusRequest struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type statusResponse struct {
	IsLimitUp   bool `json:"is_limit_up"`
	IsLimitDown bool `json:"is_limit_down"`
	IsSuspended bool `json:"is_suspended"`
}

func (o *HTTPOracle) Classify(ctx context.Context, symbol string, bars []models.Bar, i int) models.MarketStatus {
	if i < 0 || i >= len(bars) {
		return models.MarketStatus{}
	}
	req := statusRequest{
		Symbol: symbol,
		Date:   bars[i].Time.Format("2006-01-02"),
		Close:  bars[i].Close,
		Volume: bars[i].Volume,
	}
	var resp statusResponse
	if err := o.base.PostJSONWithRetry(ctx, statusPath, req, &resp, o.attempts); err != nil {
		o.log.Warn("market.status request failed", logger.String("symbol", symbol), logger.String("date", req.Date), logger.Error(err))
		return models.MarketStatus{}
	}
	return models.MarketStatus{
		IsLimitUp:   resp.IsLimitUp,
		IsLimitDown: resp.IsLimitDown,
		IsSuspended: resp.IsSuspended,
	}
}

var _ domsvc.MarketStatusOracle = (*HTTPOracle)(nil)
