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

package billing

// Flags records which of the three bills have been paid this period.
type Flags struct {
	Rent        bool `json:"rent_paid"`
	Water       bool `json:"water_bill_paid"`
	Electricity bool `json:"electricity_bill_paid"`
}

// Paid reports whether bill b is marked paid.
func (f Flags) Paid(b Bill) bool {
	switch b {
	case BillRent:
		return f.Rent
	case BillWater:
		return f.Water
	case BillElectricity:
		return f.Electricity
	}
	return false
}

// With returns a copy of f with bill b marked paid.
func (f Flags) With(b Bill) Flags {
	switch b {
	case BillRent:
		f.Rent = true
	case BillWater:
		f.Water = true
	case BillElectricity:
		f.Electricity = true
	}
	return f
}

// AllPaid reports whether nothing is outstanding.
func (f Flags) AllPaid() bool {
	return f.Rent && f.Water && f.Electricity
}

// Account is the billing view of a tenant: a room type and payment flags.
type Account struct {
	RoomType string
	Paid     Flags
}

// Statement is the derived billing state of one account.
// It is never stored; recompute it from the Account.
type Statement struct {
	Rent        int64 `json:"rent"`
	Water       int64 `json:"water"`
	Electricity int64 `json:"electricity"`
	TotalDue    int64 `json:"total_due"`
	Collected   int64 `json:"collected"`
	Balance     int64 `json:"balance"`
}

// Compute derives the statement for an account from the pricing table.
func Compute(a Account) Statement {
	s := Statement{
		Rent:        Rent(a.RoomType),
		Water:       WaterPrice,
		Electricity: ElectricityPrice,
	}
	s.TotalDue = s.Rent + s.Water + s.Electricity

	if a.Paid.Rent {
		s.Collected += s.Rent
	}
	if a.Paid.Water {
		s.Collected += s.Water
	}
	if a.Paid.Electricity {
		s.Collected += s.Electricity
	}
	s.Balance = s.TotalDue - s.Collected
	return s
}

// Settled reports whether the balance is zero.
func (s Statement) Settled() bool {
	return s.Balance == 0
}
