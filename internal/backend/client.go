// Package backend is the HTTP client of the pricing and training backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/metrics"
)

const (
	// DefaultBaseURL is where the backend listens in local development.
	DefaultBaseURL = "http://localhost:5000/api"
	// DefaultTimeout bounds each backend request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 8 << 20
)

// Backend endpoints, relative to the base URL.
const (
	EndpointProducts           = "products"
	EndpointSegments           = "customer_segments"
	EndpointPriceDemand        = "price_demand_data"
	EndpointTimePricing        = "time_pricing_data"
	EndpointTrainingStatus     = "training_status"
	EndpointTrainingResults    = "training_results"
	EndpointBaselineComparison = "baseline_comparison"
	EndpointStartTraining      = "start_training"
	EndpointGenerateSampleData = "generate_sample_data"
)

// Client talks to the pricing backend.
type Client struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
	metrics *metrics.Registry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics records every request in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(c *Client) { c.metrics = reg }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Products fetches the product catalogue.
func (c *Client) Products(ctx context.Context) ([]core.Product, error) {
	var out []core.Product
	err := c.get(ctx, EndpointProducts, &out)
	return out, err
}

// Segments fetches the customer segments.
func (c *Client) Segments(ctx context.Context) ([]core.Segment, error) {
	var out []core.Segment
	err := c.get(ctx, EndpointSegments, &out)
	return out, err
}

// PriceCurves fetches demand and revenue per price point for every product.
func (c *Client) PriceCurves(ctx context.Context) ([]core.PriceCurve, error) {
	var out []core.PriceCurve
	err := c.get(ctx, EndpointPriceDemand, &out)
	return out, err
}

// TimePricing fetches the time-of-day price multipliers.
func (c *Client) TimePricing(ctx context.Context) (core.TimePricing, error) {
	var out core.TimePricing
	err := c.get(ctx, EndpointTimePricing, &out)
	return out, err
}

// TrainingStatus fetches the training progress.
func (c *Client) TrainingStatus(ctx context.Context) (core.TrainingStatus, error) {
	var out core.TrainingStatus
	err := c.get(ctx, EndpointTrainingStatus, &out)
	return out, err
}

// TrainingResults fetches the latest training results.
func (c *Client) TrainingResults(ctx context.Context) (core.TrainingResults, error) {
	var out core.TrainingResults
	err := c.get(ctx, EndpointTrainingResults, &out)
	return out, err
}

// BaselineComparison fetches the agent and baseline reward histories.
func (c *Client) BaselineComparison(ctx context.Context) (core.BaselineComparison, error) {
	var out core.BaselineComparison
	err := c.get(ctx, EndpointBaselineComparison, &out)
	return out, err
}

// StartTraining asks the backend to start a training run. The request is
// normalized first. A run already in progress yields ErrTrainingConflict.
func (c *Client) StartTraining(ctx context.Context, req core.TrainingRequest) (core.TrainingAck, error) {
	req = req.Normalize()
	var ack core.TrainingAck
	status, err := c.do(ctx, http.MethodPost, EndpointStartTraining, req, &ack)
	if err != nil {
		if status == http.StatusBadRequest || status == http.StatusConflict {
			msg := ack.Message
			if msg == "" {
				msg = core.ErrTrainingConflict.Message
			}
			return ack, core.WrapError(core.ErrTrainingConflict, errors.New(msg))
		}
		return ack, err
	}
	c.logger.Info("training started",
		zap.Int("episodes", req.Episodes),
		zap.Bool("use_baseline", req.UseBaseline),
		zap.String("baseline_strategy", req.BaselineStrategy),
	)
	return ack, nil
}

// GenerateSampleData asks the backend to regenerate its market sample.
func (c *Client) GenerateSampleData(ctx context.Context) (core.SampleData, error) {
	var out core.SampleData
	_, err := c.do(ctx, http.MethodPost, EndpointGenerateSampleData, struct{}{}, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	_, err := c.do(ctx, http.MethodGet, endpoint, nil, out)
	return err
}

// do performs a request and decodes the response into out. On a non-2xx
// status the body is still decoded into out when possible, and the status is
// returned alongside the error.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.record(endpoint, 0)
		c.logger.Warn("backend request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		if isTimeout(err) {
			return 0, core.WrapError(core.ErrBackendTimeout, fmt.Errorf("%s: %w", endpoint, err))
		}
		return 0, core.WrapError(core.ErrBackendFailed, fmt.Errorf("%s: %w", endpoint, err))
	}
	defer resp.Body.Close()
	c.record(endpoint, resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, core.WrapError(core.ErrBackendFailed, fmt.Errorf("%s: reading response: %w", endpoint, err))
	}

	decodeErr := decode(data, out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("backend returned error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return resp.StatusCode, core.WrapError(core.ErrBackendFailed,
			fmt.Errorf("%s: unexpected status: %d", endpoint, resp.StatusCode))
	}
	if decodeErr != nil {
		return resp.StatusCode, core.WrapError(core.ErrBackendFailed, fmt.Errorf("%s: decoding response: %w", endpoint, decodeErr))
	}

	c.logger.Debug("backend request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp.StatusCode, nil
}

func (c *Client) record(endpoint string, status int) {
	if c.metrics != nil {
		c.metrics.RecordBackendRequest(endpoint, status)
	}
}

// decode unmarshals data into out. Values of the wrong JSON type are left at
// their zero value; only malformed JSON is an error. An empty body decodes
// to nothing.
func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	err := json.Unmarshal(data, out)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
