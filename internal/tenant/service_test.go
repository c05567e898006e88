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
	"net/http"
	"testing"

	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) ListTenants(ctx context.Context) ([]apiclient.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apiclient.Tenant), args.Error(1)
}

func (m *mockDirectory) ListPayments(ctx context.Context) ([]apiclient.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apiclient.Payment), args.Error(1)
}

func (m *mockDirectory) ListMessages(ctx context.Context) ([]apiclient.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apiclient.Message), args.Error(1)
}

func (m *mockDirectory) DeleteTenant(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDirectory) SelectRoom(ctx context.Context, token, roomType string) (*apiclient.SelectRoomResponse, error) {
	args := m.Called(ctx, token, roomType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.SelectRoomResponse), args.Error(1)
}

func (m *mockDirectory) Pay(ctx context.Context, tenantID int64, bill billing.Bill, amount int64) (*apiclient.PayResponse, error) {
	args := m.Called(ctx, tenantID, bill, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.PayResponse), args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func sampleTenants() []apiclient.Tenant {
	return []apiclient.Tenant{
		{ID: 1, Name: "Jane Wanjiku", RoomType: "1-Bedroom", Flags: billing.Flags{Water: true}},
		{ID: 2, Name: "Tom Otieno", RoomType: "Bedsitter", Flags: billing.Flags{Rent: true, Water: true, Electricity: true}},
		{ID: 3, Name: "Amina Hassan", RoomType: apiclient.NotSelected},
	}
}

func TestLandlordSnapshot_Summary(t *testing.T) {
	dir := new(mockDirectory)
	ctx := context.Background()
	dir.On("ListTenants", mock.Anything).Return(sampleTenants(), nil)
	dir.On("ListPayments", mock.Anything).Return([]apiclient.Payment{{ID: 1, TenantID: 2, Amount: 5000}}, nil)

	svc := NewService(dir, nil, nil, nil)
	snap, err := svc.LandlordSnapshot(ctx)
	require.NoError(t, err)

	require.Len(t, snap.Tenants, 3)
	assert.Equal(t, int64(9200), snap.Tenants[0].Statement.Balance)
	assert.True(t, snap.Tenants[1].Statement.Settled())
	assert.Equal(t, int64(0), snap.Tenants[2].Statement.Rent)

	assert.Equal(t, 3, snap.Summary.Tenants)
	assert.Equal(t, 1, snap.Summary.PaidTenants)
	assert.Equal(t, int64(800+7000), snap.Summary.Collected)
	assert.Len(t, snap.Payments, 1)
	assert.Empty(t, snap.PaymentsError)
	dir.AssertExpectations(t)
}

func TestLandlordSnapshot_PaymentsFailureIsNotFatal(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("ListTenants", mock.Anything).Return(sampleTenants(), nil)
	dir.On("ListPayments", mock.Anything).Return(nil, &apiclient.APIError{StatusCode: 500, Message: "db down"})

	snap, err := NewService(dir, nil, nil, nil).LandlordSnapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Tenants, 3)
	assert.Nil(t, snap.Payments)
	assert.Equal(t, "db down", snap.PaymentsError)
}

func TestLandlordSnapshot_TenantsFailure(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("ListTenants", mock.Anything).Return(nil, errors.New("boom"))

	_, err := NewService(dir, nil, nil, nil).LandlordSnapshot(context.Background())
	assert.Error(t, err)
	dir.AssertNotCalled(t, "ListPayments", mock.Anything)
}

func TestQuickStatus_FirstFive(t *testing.T) {
	snap := &LandlordSnapshot{}
	for i := int64(1); i <= 7; i++ {
		snap.Tenants = append(snap.Tenants, NewRow(apiclient.Tenant{ID: i}))
	}
	qs := snap.QuickStatus()
	require.Len(t, qs, 5)
	assert.Equal(t, int64(5), qs[4].ID)
}

func TestFind(t *testing.T) {
	tenants := sampleTenants()

	got, ok := Find(tenants, Who{UserID: 2, Name: "Jane Wanjiku"})
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID, "user id wins over name")

	got, ok = Find(tenants, Who{Name: "  jane WANJIKU "})
	require.True(t, ok)
	assert.Equal(t, int64(1), got.ID)

	got, ok = Find(tenants, Who{UserID: 99, Name: "amina hassan"})
	require.True(t, ok)
	assert.Equal(t, int64(3), got.ID)

	_, ok = Find(tenants, Who{})
	assert.False(t, ok)
}

func TestDashboard_PrefersSessionRoomType(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("ListTenants", mock.Anything).Return(sampleTenants(), nil)
	svc := NewService(dir, nil, nil, nil)

	d, err := svc.Dashboard(context.Background(), Who{UserID: 1}, "2-Bedroom")
	require.NoError(t, err)
	assert.Equal(t, "2-Bedroom", d.RoomType)
	assert.Equal(t, int64(14000), d.Statement.TotalDue)
	require.Len(t, d.Cards, 3)
	assert.Equal(t, billing.BillRent, d.Cards[0].Bill)
	assert.Equal(t, int64(12000), d.Cards[0].Amount)
	assert.True(t, d.Cards[1].Paid)

	d, err = svc.Dashboard(context.Background(), Who{UserID: 1}, "")
	require.NoError(t, err)
	assert.Equal(t, "1-Bedroom", d.RoomType)

	_, err = svc.Dashboard(context.Background(), Who{Name: "Nobody"}, "")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestOverview_FiltersMessages(t *testing.T) {
	one := int64(1)
	two := int64(2)
	dir := new(mockDirectory)
	dir.On("ListTenants", mock.Anything).Return(sampleTenants(), nil)
	dir.On("ListMessages", mock.Anything).Return([]apiclient.Message{
		{ID: 1, Title: "All"},
		{ID: 2, TenantID: &one, Title: "Jane"},
		{ID: 3, TenantID: &two, Title: "Tom"},
	}, nil)

	ov, err := NewService(dir, nil, nil, nil).Overview(context.Background(), Who{Name: "jane wanjiku"})
	require.NoError(t, err)
	require.NotNil(t, ov.Tenant)
	require.Len(t, ov.Messages, 2)
	assert.Equal(t, int64(1), ov.Messages[0].ID)
	assert.Equal(t, int64(2), ov.Messages[1].ID)

	ov, err = NewService(dir, nil, nil, nil).Overview(context.Background(), Who{Name: "stranger"})
	require.NoError(t, err)
	assert.Nil(t, ov.Tenant)
	require.Len(t, ov.Messages, 1)
}

// TestPurpose: Validates that a successful payment reconciles with the flags the API returns.
// Scope: Unit Test
// Expected: The dashboard reflects server flags, the payment is audited, and the amount sent matches the price table.
// Test Case ID: TEN-01
func TestPay_ConfirmsWithServerFlags(t *testing.T) {
	dir := new(mockDirectory)
	auditLogger := new(mockAudit)
	ctx := context.Background()

	dir.On("ListTenants", mock.Anything).Return(sampleTenants(), nil)
	resp := &apiclient.PayResponse{Message: "rent payment completed successfully"}
	resp.Tenant.ID = 1
	resp.Tenant.Flags = billing.Flags{Rent: true, Water: true, Electricity: true}
	dir.On("Pay", mock.Anything, int64(1), billing.BillRent, int64(8000)).Return(resp, nil)
	auditLogger.On("Log", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypePaymentMade && e.TenantID == 1 && e.Resource == "bill:rent"
	})).Return()

	svc := NewService(dir, auditLogger, nil, nil)
	d, msg, err := svc.Pay(ctx, Actor{UserID: 1, Role: "tenant"}, "", billing.BillRent)
	require.NoError(t, err)
	assert.Equal(t, "rent payment completed successfully", msg)
	// The server also reported electricity as paid.
	assert.True(t, d.Statement.Settled())
	assert.Equal(t, int64(0), d.Statement.Balance)

	dir.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

// TestPurpose: Validates that a failed payment rolls the tentative state back.
// Scope: Unit Test
// Expected: The returned dashboard shows the original flags and the error is surfaced.
// Test Case ID: TEN-02
func TestPay_RollsBackOnFailure(t *testing.T) {
	dir := new(mockDirectory)
	auditLogger := new(mockAudit)

	dir.On("ListTenants", mock.Anything).Return(sampleTenants(), nil)
	dir.On("Pay", mock.Anything, int64(1), billing.BillElectricity, int64(1200)).
		Return(nil, &apiclient.APIError{StatusCode: http.StatusInternalServerError, Message: "db locked"})
	auditLogger.On("Log", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypePaymentFailed
	})).Return()

	d, _, err := NewService(dir, auditLogger, nil, nil).
		Pay(context.Background(), Actor{UserID: 1}, "", billing.BillElectricity)
	require.Error(t, err)
	require.NotNil(t, d)
	assert.False(t, d.Tenant.Electricity)
	assert.True(t, d.Tenant.Water)
	assert.Equal(t, int64(9200), d.Statement.Balance)
	assert.Equal(t, "db locked", apiclient.UserMessage(err))
}

func TestPay_AlreadyPaidSendsNothing(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("ListTenants", mock.Anything).Return(sampleTenants(), nil)

	_, _, err := NewService(dir, nil, nil, nil).Pay(context.Background(), Actor{UserID: 1}, "", billing.BillWater)
	assert.ErrorIs(t, err, billing.ErrAlreadyPaid)
	dir.AssertNotCalled(t, "Pay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPurpose: Validates that removing an id the API does not know leaves the list unchanged.
// Scope: Unit Test
// Expected: Rows come back identical and the 404 is surfaced.
// Test Case ID: TEN-03
func TestRemoveTenant(t *testing.T) {
	dir := new(mockDirectory)
	auditLogger := new(mockAudit)
	ctx := context.Background()
	rows := Rows(sampleTenants())
	// Tenant 3 is listed but already gone remotely.
	dir.On("DeleteTenant", mock.Anything, int64(2)).Return(nil)
	dir.On("DeleteTenant", mock.Anything, int64(3)).
		Return(&apiclient.APIError{StatusCode: http.StatusNotFound, Message: "Tenant not found"})
	auditLogger.On("Log", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeTenantRemoved && e.TenantID == 2
	})).Return().Once()

	svc := NewService(dir, auditLogger, nil, nil)

	out, err := svc.RemoveTenant(ctx, Actor{Role: "landlord"}, rows, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)

	same, err := svc.RemoveTenant(ctx, Actor{Role: "landlord"}, rows, 3)
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))
	assert.Equal(t, rows, same)
	auditLogger.AssertExpectations(t)
}

// TestPurpose: Validates that an id absent from the current list is refused without a remote call.
// Scope: Unit Test
// Expected: ErrTenantNotFound is returned, rows are unchanged and DeleteTenant is never called.
// Test Case ID: TEN-04
func TestRemoveTenant_UnlistedIDSendsNothing(t *testing.T) {
	dir := new(mockDirectory)
	rows := Rows(sampleTenants())

	same, err := NewService(dir, nil, nil, nil).RemoveTenant(context.Background(), Actor{Role: "landlord"}, rows, 42)
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.Equal(t, rows, same)
	dir.AssertNotCalled(t, "DeleteTenant", mock.Anything, mock.Anything)
}

func TestDashboard_IgnoresUnpricedSessionRoom(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("ListTenants", mock.Anything).Return(sampleTenants(), nil)

	d, err := NewService(dir, nil, nil, nil).Dashboard(context.Background(), Who{UserID: 1}, "Penthouse")
	require.NoError(t, err)
	assert.Equal(t, "1-Bedroom", d.RoomType)
	assert.Equal(t, int64(8000), d.Statement.Rent)
}

func TestSelectRoom_ReturnsRemoteError(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("SelectRoom", mock.Anything, "tok", "Bedsitter").Return(nil, errors.New("offline"))

	err := NewService(dir, nil, nil, nil).SelectRoom(context.Background(), Actor{Token: "tok"}, "Bedsitter")
	assert.Error(t, err)
	dir.AssertExpectations(t)
}
