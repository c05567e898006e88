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

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps OpenTelemetry meter
type Meter struct {
	meter metric.Meter
}

// New creates a new meter instance
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	if !cfg.Enabled {
		return Noop(), nil
	}

	// The global provider is the OTel default until an exporter is installed.
	return &Meter{meter: otel.Meter(serviceName)}, nil
}

// Noop returns a meter whose instruments record nothing.
func Noop() *Meter {
	return &Meter{meter: noop.NewMeterProvider().Meter("rentdesk")}
}

// GetMeter returns the underlying meter
func (m *Meter) GetMeter() metric.Meter {
	return m.meter
}

// CreateCounter creates a new counter metric
func (m *Meter) CreateCounter(name, description string) (metric.Int64Counter, error) {
	counter, err := m.meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return counter, nil
}

// CreateHistogram creates a new histogram metric
func (m *Meter) CreateHistogram(name, description, unit string) (metric.Float64Histogram, error) {
	histogram, err := m.meter.Float64Histogram(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return histogram, nil
}

// CreateUpDownCounter creates a new up/down counter metric
func (m *Meter) CreateUpDownCounter(name, description string) (metric.Int64UpDownCounter, error) {
	counter, err := m.meter.Int64UpDownCounter(name, metric.WithDescription(description))
	if err != nil {
		return nil, fmt.Errorf("failed to create up/down counter %s: %w", name, err)
	}
	return counter, nil
}

// Instruments groups the application's instruments.
type Instruments struct {
	// APIRequests counts calls to the rental API by operation and outcome.
	APIRequests metric.Int64Counter
	// APILatency records rental API round trips in milliseconds.
	APILatency metric.Float64Histogram
	// Payments counts bill payments by bill and outcome.
	Payments metric.Int64Counter
	// LiveViewers tracks open landlord live feeds.
	LiveViewers metric.Int64UpDownCounter
}

// Instruments creates every instrument the application records.
func (m *Meter) Instruments() (*Instruments, error) {
	var (
		in  Instruments
		err error
	)
	if in.APIRequests, err = m.CreateCounter("rentdesk.api.requests", "Requests sent to the rental API"); err != nil {
		return nil, err
	}
	if in.APILatency, err = m.CreateHistogram("rentdesk.api.duration", "Rental API round-trip time", "ms"); err != nil {
		return nil, err
	}
	if in.Payments, err = m.CreateCounter("rentdesk.payments", "Bill payments submitted by tenants"); err != nil {
		return nil, err
	}
	if in.LiveViewers, err = m.CreateUpDownCounter("rentdesk.live.viewers", "Open landlord live feeds"); err != nil {
		return nil, err
	}
	return &in, nil
}

// NoopInstruments returns instruments that record nothing.
func NoopInstruments() *Instruments {
	in, _ := Noop().Instruments()
	return in
}
