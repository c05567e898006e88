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
	"errors"
	"time"

	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/billing"
)

// ErrTenantNotFound is returned when the signed-in tenant has no record.
var ErrTenantNotFound = errors.New("tenant not found")

// quickStatusSize is how many tenants the landlord overview lists.
const quickStatusSize = 5

// Row is a tenant with its derived billing statement.
type Row struct {
	apiclient.Tenant
	Statement billing.Statement `json:"statement"`
}

// NewRow computes the statement for t.
func NewRow(t apiclient.Tenant) Row {
	return Row{Tenant: t, Statement: billing.Compute(t.Account())}
}

// Rows computes statements for every tenant.
func Rows(tenants []apiclient.Tenant) []Row {
	out := make([]Row, len(tenants))
	for i, t := range tenants {
		out[i] = NewRow(t)
	}
	return out
}

// LandlordSnapshot is everything the landlord dashboard shows at one moment.
type LandlordSnapshot struct {
	Tenants       []Row               `json:"tenants"`
	Payments      []apiclient.Payment `json:"payments"`
	Summary       billing.Summary     `json:"summary"`
	PaymentsError string              `json:"payments_error,omitempty"`
	FetchedAt     time.Time           `json:"fetched_at"`
}

// QuickStatus returns the first few tenants for the overview card.
func (s *LandlordSnapshot) QuickStatus() []Row {
	if len(s.Tenants) <= quickStatusSize {
		return s.Tenants
	}
	return s.Tenants[:quickStatusSize]
}

// BillCard is one bill on the tenant payment dashboard.
type BillCard struct {
	Bill   billing.Bill
	Title  string
	Amount int64
	Paid   bool
}

// Dashboard is the tenant payment page.
type Dashboard struct {
	Tenant    apiclient.Tenant
	RoomType  string
	Statement billing.Statement
	Cards     []BillCard
}

func newDashboard(t apiclient.Tenant, acct billing.Account) *Dashboard {
	d := &Dashboard{
		Tenant:    t,
		RoomType:  acct.RoomType,
		Statement: billing.Compute(acct),
	}
	d.Tenant.Flags = acct.Paid
	for _, b := range billing.Bills {
		d.Cards = append(d.Cards, BillCard{
			Bill:   b,
			Title:  b.Title(),
			Amount: b.Amount(acct.RoomType),
			Paid:   acct.Paid.Paid(b),
		})
	}
	return d
}

// Account returns the billing account the dashboard was computed from.
func (d *Dashboard) Account() billing.Account {
	return billing.Account{RoomType: d.RoomType, Paid: d.Tenant.Flags}
}

// Overview is the tenant landing summary with landlord messages.
type Overview struct {
	Tenant        *Row
	Messages      []apiclient.Message
	MessagesError string
}
