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

	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/billing"
)

// Directory is the remote store of tenants, payments and messages.
// *apiclient.Client satisfies it.
type Directory interface {
	ListTenants(ctx context.Context) ([]apiclient.Tenant, error)
	ListPayments(ctx context.Context) ([]apiclient.Payment, error)
	ListMessages(ctx context.Context) ([]apiclient.Message, error)
	DeleteTenant(ctx context.Context, id int64) error
	SelectRoom(ctx context.Context, token, roomType string) (*apiclient.SelectRoomResponse, error)
	Pay(ctx context.Context, tenantID int64, bill billing.Bill, amount int64) (*apiclient.PayResponse, error)
}

var _ Directory = (*apiclient.Client)(nil)
