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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Validates the worked example for a 1-Bedroom tenant with only water paid.
// Scope: Unit Test
// Expected: total_due = 10000, balance = 9200.
// Test Case ID: BIL-01
func TestCompute_OneBedroomWaterPaid(t *testing.T) {
	st := Compute(Account{
		RoomType: RoomOneBedroom,
		Paid:     Flags{Water: true},
	})

	assert.Equal(t, int64(8000), st.Rent)
	assert.Equal(t, int64(10000), st.TotalDue)
	assert.Equal(t, int64(800), st.Collected)
	assert.Equal(t, int64(9200), st.Balance)
	assert.False(t, st.Settled())
}

// TestPurpose: Validates that an unknown room type contributes zero rent instead of failing.
// Scope: Unit Test
// Expected: rent = 0, total_due = utilities only.
// Test Case ID: BIL-02
func TestCompute_UnknownRoomTypeHasZeroRent(t *testing.T) {
	for _, rt := range []string{"", "Not Selected", "Penthouse"} {
		t.Run(rt, func(t *testing.T) {
			st := Compute(Account{RoomType: rt})
			assert.Zero(t, st.Rent)
			assert.Equal(t, WaterPrice+ElectricityPrice, st.TotalDue)
			assert.Equal(t, st.TotalDue, st.Balance)
		})
	}
}

// TestPurpose: Validates balance = total_due - paid components for every flag combination and room type.
// Scope: Unit Test
// Expected: balance within [0, total_due]; total_due independent of flags.
// Test Case ID: BIL-03
func TestCompute_BalanceInvariant(t *testing.T) {
	roomTypes := []string{RoomBedsitter, RoomOneBedroom, RoomTwoBedroom, RoomStudio, RoomThreeBed, "unknown"}

	for _, rt := range roomTypes {
		base := Compute(Account{RoomType: rt}).TotalDue
		for mask := 0; mask < 8; mask++ {
			flags := Flags{
				Rent:        mask&1 != 0,
				Water:       mask&2 != 0,
				Electricity: mask&4 != 0,
			}
			st := Compute(Account{RoomType: rt, Paid: flags})

			var paid int64
			for _, b := range Bills {
				if flags.Paid(b) {
					paid += b.Amount(rt)
				}
			}

			assert.Equal(t, base, st.TotalDue, "total_due must not depend on flags (%s, %+v)", rt, flags)
			assert.Equal(t, st.TotalDue-paid, st.Balance)
			assert.GreaterOrEqual(t, st.Balance, int64(0))
			assert.LessOrEqual(t, st.Balance, st.TotalDue)
			assert.Equal(t, flags.AllPaid(), st.Settled())
		}
	}
}

func TestParseBill(t *testing.T) {
	for _, b := range Bills {
		got, err := ParseBill(string(b))
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}

	_, err := ParseBill("gas")
	assert.True(t, errors.Is(err, ErrUnknownBill))
}

func TestSelectableRooms(t *testing.T) {
	rooms := SelectableRooms()
	require.Len(t, rooms, 3)
	assert.Equal(t, RoomBedsitter, rooms[0].ID)
	assert.True(t, IsSelectable(RoomTwoBedroom))
	assert.False(t, IsSelectable(RoomStudio))
	assert.True(t, KnownRoom(RoomStudio))
	assert.False(t, IsSelectable("Castle"))
}

// TestPurpose: Validates that the collection rate never divides by zero.
// Scope: Unit Test
// Expected: rate and average balance are 0 when there are no tenants.
// Test Case ID: BIL-04
func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil)
	assert.Equal(t, Summary{}, sum)
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Account{
		{RoomType: RoomOneBedroom, Paid: Flags{Water: true}},                                // due 10000, paid 800
		{RoomType: RoomBedsitter, Paid: Flags{Rent: true, Water: true, Electricity: true}}, // due 7000, paid 7000
		{RoomType: "", Paid: Flags{}},                                                      // due 2000, paid 0
	})

	assert.Equal(t, 3, sum.Tenants)
	assert.Equal(t, 1, sum.PaidTenants)
	assert.Equal(t, 2, sum.UnpaidTenants)
	assert.Equal(t, int64(7800), sum.Collected)
	assert.Equal(t, int64(11200), sum.Outstanding)
	assert.Equal(t, int64(19000), sum.Possible)
	assert.Equal(t, 41, sum.CollectionRate)
	assert.Equal(t, int64(3733), sum.AverageBalance)
	assert.Equal(t, sum.Possible, sum.Collected+sum.Outstanding)
}

func TestPendingPayment_ConfirmAndRollback(t *testing.T) {
	acct := Account{RoomType: RoomTwoBedroom}

	p, err := Begin(acct, BillRent)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), p.Amount)
	assert.True(t, p.Tentative().Paid.Rent)

	assert.Equal(t, acct, p.Rollback())

	server := Flags{Rent: true, Water: true}
	confirmed := p.Confirm(server)
	assert.Equal(t, server, confirmed.Paid)
	assert.Equal(t, RoomTwoBedroom, confirmed.RoomType)
}

func TestBegin_Rejections(t *testing.T) {
	_, err := Begin(Account{RoomType: RoomBedsitter, Paid: Flags{Water: true}}, BillWater)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	_, err = Begin(Account{RoomType: "unknown"}, BillRent)
	assert.ErrorIs(t, err, ErrNothingDue)

	_, err = Begin(Account{RoomType: RoomBedsitter}, Bill("gas"))
	assert.ErrorIs(t, err, ErrUnknownBill)
}
