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

package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/billing"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Actor is the signed-in user performing an operation.
type Actor struct {
	UserID    int64
	Name      string
	Role      string
	Token     string
	IPAddress string
	UserAgent string
}

// Service provides the tenant and landlord dashboard logic
type Service struct {
	dir         Directory
	auditLogger audit.Logger
	tracer      trace.Tracer
	payments    metric.Int64Counter
	now         func() time.Time
}

// NewService creates a new tenant service. A nil tracer or instruments
// record nothing.
func NewService(dir Directory, auditLogger audit.Logger, tracer trace.Tracer, in *metrics.Instruments) *Service {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("tenant")
	}
	if in == nil {
		in = metrics.NoopInstruments()
	}
	return &Service{
		dir:         dir,
		auditLogger: auditLogger,
		tracer:      tracer,
		payments:    in.Payments,
		now:         time.Now,
	}
}

// LandlordSnapshot fetches tenants and payments. Failing to load tenants is
// an error; failing to load payments only blanks the ledger.
func (s *Service) LandlordSnapshot(ctx context.Context) (*LandlordSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.LandlordSnapshot")
	defer span.End()

	tenants, err := s.dir.ListTenants(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "list tenants")
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	rows := Rows(tenants)
	snap := &LandlordSnapshot{
		Tenants:   rows,
		Summary:   billing.Summarize(apiclient.Accounts(tenants)),
		FetchedAt: s.now(),
	}

	payments, err := s.dir.ListPayments(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		slog.WarnContext(ctx, "failed to load payment history", logger.Component("tenant"), logger.Error(err))
		snap.PaymentsError = apiclient.UserMessage(err)
		payments = nil
	}
	snap.Payments = payments

	span.SetAttributes(attribute.Int("tenant.count", len(rows)))
	return snap, nil
}

// Who identifies the tenant a page is about.
type Who struct {
	UserID int64
	Name   string
}

// Find returns the tenant matching who: by user id when known, otherwise by
// case-insensitive name.
func Find(tenants []apiclient.Tenant, who Who) (apiclient.Tenant, bool) {
	if who.UserID > 0 {
		for _, t := range tenants {
			if t.ID == who.UserID {
				return t, true
			}
		}
	}
	name := strings.TrimSpace(who.Name)
	if name == "" {
		return apiclient.Tenant{}, false
	}
	for _, t := range tenants {
		if strings.EqualFold(strings.TrimSpace(t.Name), name) {
			return t, true
		}
	}
	return apiclient.Tenant{}, false
}

func (s *Service) find(ctx context.Context, who Who) (apiclient.Tenant, error) {
	tenants, err := s.dir.ListTenants(ctx)
	if err != nil {
		return apiclient.Tenant{}, fmt.Errorf("failed to list tenants: %w", err)
	}
	t, ok := Find(tenants, who)
	if !ok {
		return apiclient.Tenant{}, ErrTenantNotFound
	}
	return t, nil
}

// Dashboard builds the payment page for who. roomType is the room chosen in
// this session; the record's room type is used when it is empty or not in
// the pricing table.
func (s *Service) Dashboard(ctx context.Context, who Who, roomType string) (*Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Dashboard")
	defer span.End()

	t, err := s.find(ctx, who)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return newDashboard(t, accountFor(t, roomType)), nil
}

func accountFor(t apiclient.Tenant, roomType string) billing.Account {
	acct := t.Account()
	if billing.KnownRoom(roomType) {
		acct.RoomType = roomType
	}
	return acct
}

// Overview builds the tenant summary and the messages addressed to them.
// A missing record is not an error: Overview.Tenant is nil.
func (s *Service) Overview(ctx context.Context, who Who) (*Overview, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Overview")
	defer span.End()

	ov := &Overview{}
	t, err := s.find(ctx, who)
	switch {
	case err == nil:
		row := NewRow(t)
		ov.Tenant = &row
	case errors.Is(err, ErrTenantNotFound):
	default:
		return nil, err
	}

	msgs, err := s.dir.ListMessages(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		slog.WarnContext(ctx, "failed to load messages", logger.Component("tenant"), logger.Error(err))
		ov.MessagesError = apiclient.UserMessage(err)
		return ov, nil
	}

	for _, m := range msgs {
		if m.TenantID == nil || (ov.Tenant != nil && m.For(ov.Tenant.ID)) {
			ov.Messages = append(ov.Messages, m)
		}
	}
	return ov, nil
}

// Pay pays one bill for the actor's tenant record. The bill is marked paid
// tentatively, then reconciled with the flags the API returns; on failure
// the dashboard is rolled back to its previous state and returned together
// with the error.
func (s *Service) Pay(ctx context.Context, actor Actor, roomType string, bill billing.Bill) (*Dashboard, string, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Pay", trace.WithAttributes(attribute.String("bill", string(bill))))
	defer span.End()

	t, err := s.find(ctx, Who{UserID: actor.UserID, Name: actor.Name})
	if err != nil {
		return nil, "", err
	}

	acct := accountFor(t, roomType)
	pending, err := billing.Begin(acct, bill)
	if err != nil {
		return newDashboard(t, acct), "", err
	}
	span.AddEvent("tentative", trace.WithAttributes(attribute.Int64("balance", billing.Compute(pending.Tentative()).Balance)))

	resp, err := s.dir.Pay(ctx, t.ID, bill, pending.Amount)
	if err != nil {
		restored := pending.Rollback()
		span.SetStatus(codes.Error, "payment failed")
		s.recordPayment(ctx, bill, "failure")
		s.audit(ctx, actor, audit.TypePaymentFailed, t.ID, bill, pending.Amount)
		return newDashboard(t, restored), "", fmt.Errorf("payment failed: %w", err)
	}

	confirmed := pending.Confirm(resp.Tenant.Flags)
	s.recordPayment(ctx, bill, "success")
	s.audit(ctx, actor, audit.TypePaymentMade, t.ID, bill, pending.Amount)
	slog.InfoContext(ctx, "bill paid",
		logger.TenantID(t.ID),
		logger.Bill(string(bill)),
		logger.Amount(pending.Amount),
	)

	msg := resp.Message
	if msg == "" {
		msg = bill.Title() + " paid"
	}
	return newDashboard(t, confirmed), msg, nil
}

func (s *Service) recordPayment(ctx context.Context, bill billing.Bill, outcome string) {
	s.payments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("bill", string(bill)),
		attribute.String("outcome", outcome),
	))
}

func (s *Service) audit(ctx context.Context, actor Actor, eventType string, tenantID int64, bill billing.Bill, amount int64) {
	if s.auditLogger == nil {
		return
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:      eventType,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		TenantID:  tenantID,
		Resource:  "bill:" + string(bill),
		Metadata:  map[string]any{"amount": amount},
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	})
}

// RemoveTenant deletes tenant id and returns rows without it. An id missing
// from rows fails with ErrTenantNotFound before the API is called. When the
// API refuses, rows is returned unchanged with the error.
func (s *Service) RemoveTenant(ctx context.Context, actor Actor, rows []Row, id int64) ([]Row, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.RemoveTenant", trace.WithAttributes(attribute.Int64("tenant.id", id)))
	defer span.End()

	if !listed(rows, id) {
		span.SetStatus(codes.Error, "tenant not listed")
		return rows, fmt.Errorf("failed to remove tenant %d: %w", id, ErrTenantNotFound)
	}

	if err := s.dir.DeleteTenant(ctx, id); err != nil {
		span.SetStatus(codes.Error, "delete tenant")
		return rows, fmt.Errorf("failed to remove tenant %d: %w", id, err)
	}

	if s.auditLogger != nil {
		s.auditLogger.Log(ctx, audit.Event{
			Type:      audit.TypeTenantRemoved,
			ActorID:   actor.UserID,
			ActorRole: actor.Role,
			TenantID:  id,
			Resource:  "tenant",
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
		})
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out, nil
}

func listed(rows []Row, id int64) bool {
	for _, r := range rows {
		if r.ID == id {
			return true
		}
	}
	return false
}

// SelectRoom records the actor's room choice with the API. The choice is
// kept in the session regardless, so callers log and ignore the error.
func (s *Service) SelectRoom(ctx context.Context, actor Actor, roomType string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.SelectRoom")
	defer span.End()

	if s.auditLogger != nil {
		s.auditLogger.Log(ctx, audit.Event{
			Type:      audit.TypeRoomSelected,
			ActorID:   actor.UserID,
			ActorRole: actor.Role,
			Resource:  "room:" + roomType,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
		})
	}

	if _, err := s.dir.SelectRoom(ctx, actor.Token, roomType); err != nil {
		slog.WarnContext(ctx, "room selection not saved remotely",
			logger.RoomType(roomType),
			logger.Error(err),
		)
		return err
	}
	return nil
}
