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

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyPaid = errors.New("bill already paid")
	ErrNothingDue  = errors.New("nothing due for bill")
)

// PendingPayment is a payment that has been applied tentatively to an account
// but not yet confirmed by the API. Exactly one of Confirm or Rollback should
// be called once the API responds.
type PendingPayment struct {
	Bill   Bill
	Amount int64

	original  Account
	tentative Account
}

// Begin starts a two-phase payment of bill b against account a.
func Begin(a Account, b Bill) (*PendingPayment, error) {
	if _, err := ParseBill(string(b)); err != nil {
		return nil, err
	}
	if a.Paid.Paid(b) {
		return nil, fmt.Errorf("%s: %w", b, ErrAlreadyPaid)
	}
	amount := b.Amount(a.RoomType)
	if amount <= 0 {
		return nil, fmt.Errorf("%s for room type %q: %w", b, a.RoomType, ErrNothingDue)
	}

	tentative := a
	tentative.Paid = a.Paid.With(b)

	return &PendingPayment{
		Bill:      b,
		Amount:    amount,
		original:  a,
		tentative: tentative,
	}, nil
}

// Tentative is the account as it would look if the payment succeeds.
func (p *PendingPayment) Tentative() Account {
	return p.tentative
}

// Confirm reconciles the tentative state with the flags the API reported.
// The server's flags win; the room type stays local.
func (p *PendingPayment) Confirm(server Flags) Account {
	return Account{RoomType: p.original.RoomType, Paid: server}
}

// Rollback discards the tentative state.
func (p *PendingPayment) Rollback() Account {
	return p.original
}
