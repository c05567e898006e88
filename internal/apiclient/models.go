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
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/rentdesk/rentdesk/internal/billing"
)

// NotSelected is the room type the API reports before a tenant chooses one.
const NotSelected = "Not Selected"

// Tenant is a tenant record as served by the API. Balance figures the API
// includes are ignored; they are always recomputed from the flags.
type Tenant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoomType string `json:"room_type"`
	HouseID  *int64 `json:"house_id,omitempty"`
	billing.Flags
}

// Room returns the tenant's room type, or "" when none is chosen.
func (t Tenant) Room() string {
	if t.RoomType == NotSelected {
		return ""
	}
	return strings.TrimSpace(t.RoomType)
}

// Account returns the billing view of the tenant.
func (t Tenant) Account() billing.Account {
	return billing.Account{RoomType: t.Room(), Paid: t.Flags}
}

// Accounts maps tenants onto billing accounts.
func Accounts(tenants []Tenant) []billing.Account {
	out := make([]billing.Account, len(tenants))
	for i, t := range tenants {
		out[i] = t.Account()
	}
	return out
}

// Payment is one entry in the payment ledger.
type Payment struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"tenant_id"`
	TenantName  string     `json:"tenant_name"`
	Amount      float64    `json:"amount"`
	PaymentType string     `json:"payment_type"`
	Status      string     `json:"status"`
	DatePaid    *Timestamp `json:"date_paid"`
}

// Shillings returns the amount rounded to whole shillings.
func (p Payment) Shillings() int64 {
	return int64(math.Round(p.Amount))
}

// Message is a notice from the landlord. A nil TenantID addresses everyone.
type Message struct {
	ID       int64      `json:"id"`
	TenantID *int64     `json:"tenant_id"`
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	DateSent *Timestamp `json:"date_sent"`
}

// For reports whether the message is addressed to tenantID.
func (m Message) For(tenantID int64) bool {
	return m.TenantID == nil || *m.TenantID == tenantID
}

// User identifies the account a token was issued to.
type User struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SignupRequest is the body of a signup call.
type SignupRequest struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	AccessCode string `json:"accessCode,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type selectRoomRequest struct {
	RoomType string `json:"room_type"`
}

// SelectRoomResponse acknowledges a room selection.
type SelectRoomResponse struct {
	Message  string `json:"message"`
	RoomType string `json:"room_type"`
}

type payRequest struct {
	Type   billing.Bill `json:"type"`
	Amount int64        `json:"amount"`
}

// PayResponse carries the flags the API holds after a payment.
type PayResponse struct {
	Message string `json:"message"`
	Balance int64  `json:"balance"`
	Tenant  struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		billing.Flags
	} `json:"tenant"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Timestamp accepts RFC 3339 as well as the zone-less ISO 8601 form the API
// emits, which is read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}
