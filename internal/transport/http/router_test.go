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

package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	transportHTTP "github.com/rentdesk/rentdesk/internal/transport/http"
)

// TestRouterRoutes verifies that every page and action is mounted with the
// right method and that nothing else is.
func TestRouterRoutes(t *testing.T) {
	// Route matching never runs the handlers, so an empty Handler is enough.
	h := &transportHTTP.Handler{}

	tests := []struct {
		name        string
		path        string
		method      string
		expectFound bool
	}{
		{"Health", "/health", "GET", true},
		{"Static asset", "/static/app.css", "GET", true},
		{"Landing", "/", "GET", true},
		{"Signup role", "/signup/role", "POST", true},
		{"Signup page", "/signup", "GET", true},
		{"Signup submit", "/signup", "POST", true},
		{"Login page", "/login", "GET", true},
		{"Login submit", "/login", "POST", true},
		{"Logout", "/logout", "POST", true},
		{"Logout is not a GET", "/logout", "GET", false},
		{"Tenant home", "/tenant-home", "GET", true},
		{"Room selection", "/room-selection", "GET", true},
		{"Room selection submit", "/room-selection", "POST", true},
		{"Tenant overview", "/tenants", "GET", true},
		{"Tenant dashboard", "/tenant", "GET", true},
		{"Pay bill", "/tenant/pay", "POST", true},
		{"Pay bill is not a GET", "/tenant/pay", "GET", false},
		{"Landlord dashboard", "/landlord", "GET", true},
		{"Delete tenant", "/landlord/tenants/7/delete", "POST", true},
		{"Delete tenant is not a GET", "/landlord/tenants/7/delete", "GET", false},
		{"Landlord live feed", "/landlord/live", "GET", true},
		{"Landlord snapshot", "/landlord/snapshot", "GET", true},
		{"Unknown page", "/admin", "GET", false},
	}

	rl := transportHTTP.NewRateLimiter(100, 100)
	defer rl.Stop()
	r := transportHTTP.NewRouter(h, rl, []string{"http://localhost:3000"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)

			rctx := chi.NewRouteContext()
			if r.Match(rctx, req.Method, req.URL.Path) {
				if !tt.expectFound {
					t.Errorf("Route %s %s SHOULD NOT exist", tt.method, tt.path)
				}
			} else {
				if tt.expectFound {
					t.Errorf("Route %s %s SHOULD exist", tt.method, tt.path)
				}
			}
		})
	}
}
