// Copyright 2026 The RentDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rentdesk/rentdesk/internal/billing"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/observability/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client talks to the rental REST API. Every call is a single request with
// no retry.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	instruments *metrics.Instruments
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithInstruments records request metrics on in.
func WithInstruments(in *metrics.Instruments) Option {
	return func(c *Client) { c.instruments = in }
}

// New returns a client for the API at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.instruments == nil {
		c.instruments = metrics.NoopInstruments()
	}
	return c
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListTenants fetches every tenant.
func (c *Client) ListTenants(ctx context.Context) ([]Tenant, error) {
	var out []Tenant
	if err := c.do(ctx, "list_tenants", http.MethodGet, "/api/tenants", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPayments fetches the payment ledger.
func (c *Client) ListPayments(ctx context.Context) ([]Payment, error) {
	var out []Payment
	if err := c.do(ctx, "list_payments", http.MethodGet, "/api/payments", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMessages fetches landlord messages.
func (c *Client) ListMessages(ctx context.Context) ([]Message, error) {
	var out []Message
	if err := c.do(ctx, "list_messages", http.MethodGet, "/api/messages", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTenant removes a tenant. Removing an id the API no longer knows
// returns an *APIError with status 404.
func (c *Client) DeleteTenant(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_tenant", http.MethodDelete, "/api/tenants/"+strconv.FormatInt(id, 10), "", nil, nil)
}

// SelectRoom records the caller's room type. token authorises the call.
func (c *Client) SelectRoom(ctx context.Context, token, roomType string) (*SelectRoomResponse, error) {
	var out SelectRoomResponse
	if err := c.do(ctx, "select_room", http.MethodPost, "/api/tenants/select-room", token, selectRoomRequest{RoomType: roomType}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pay marks one bill of a tenant as paid and returns the server's flags.
func (c *Client) Pay(ctx context.Context, tenantID int64, bill billing.Bill, amount int64) (*PayResponse, error) {
	var out PayResponse
	path := "/api/tenants/pay/" + strconv.FormatInt(tenantID, 10)
	if err := c.do(ctx, "pay", http.MethodPut, path, "", payRequest{Type: bill, Amount: amount}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, "signup", http.MethodPost, "/auth/signup", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		c.record(ctx, op, "error", elapsed)
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		slog.WarnContext(ctx, "rental api request failed",
			logger.Endpoint(method, path),
			logger.Error(err),
		)
		return &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.record(ctx, op, "error", elapsed)
		return &APIError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.record(ctx, op, "failure", elapsed)
		slog.DebugContext(ctx, "rental api returned non-success",
			logger.Endpoint(method, path),
			logger.UpstreamStatus(resp.StatusCode),
		)
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	c.record(ctx, op, "success", elapsed)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "unexpected response from server", Err: err}
	}
	return nil
}

func (c *Client) record(ctx context.Context, op, outcome string, ms float64) {
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	c.instruments.APIRequests.Add(ctx, 1, attrs)
	c.instruments.APILatency.Record(ctx, ms, attrs)
}

func errorMessage(status int, raw []byte) string {
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return http.StatusText(status)
}
