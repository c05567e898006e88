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

import "math"

// Summary aggregates statements across every tenant for the landlord view.
type Summary struct {
	Tenants        int   `json:"total_tenants"`
	PaidTenants    int   `json:"paid_tenants"`
	UnpaidTenants  int   `json:"unpaid_tenants"`
	Collected      int64 `json:"total_collected"`
	Outstanding    int64 `json:"total_outstanding"`
	Possible       int64 `json:"total_possible"`
	CollectionRate int   `json:"collection_rate"`
	AverageBalance int64 `json:"avg_balance"`
}

// Summarize folds the accounts into a Summary. Ratios are zero when the
// denominator is zero.
func Summarize(accounts []Account) Summary {
	var sum Summary
	for _, a := range accounts {
		st := Compute(a)
		sum.Tenants++
		sum.Collected += st.Collected
		sum.Outstanding += st.Balance
		sum.Possible += st.TotalDue
		if st.Settled() {
			sum.PaidTenants++
		}
	}
	sum.UnpaidTenants = sum.Tenants - sum.PaidTenants

	if sum.Possible > 0 {
		sum.CollectionRate = int(math.Round(float64(sum.Collected) / float64(sum.Possible) * 100))
	}
	if sum.Tenants > 0 {
		sum.AverageBalance = int64(math.Round(float64(sum.Outstanding) / float64(sum.Tenants)))
	}
	return sum
}
