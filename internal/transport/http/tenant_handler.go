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

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/billing"
	"github.com/rentdesk/rentdesk/internal/forms"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/tenant"
	"github.com/rentdesk/rentdesk/internal/view"
)

const (
	msgNoTenantRecord = "We could not find your tenant record."
	msgSessionExpired = "Your session has expired. Please log in again."
)

// RoomChoice is the room selection page.
type RoomChoice struct {
	Rooms    []billing.RoomType
	Selected string
}

func who(sc *session.Context) tenant.Who {
	return tenant.Who{UserID: sc.UserID(), Name: sc.UserName()}
}

// TenantHome renders the tenant welcome page.
func (h *Handler) TenantHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.TenantHome, Page{})
}

// RoomSelectionPage lists the room types a tenant may choose.
func (h *Handler) RoomSelectionPage(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	h.render(w, r, http.StatusOK, view.RoomSelection, Page{
		Data: RoomChoice{Rooms: billing.SelectableRooms(), Selected: sc.SelectedRoomType()},
	})
}

// SelectRoom stores the chosen room type and moves on to payments. The API
// write is best effort.
func (h *Handler) SelectRoom(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sc := session.FromContext(r.Context())
	form := forms.ParseRoomSelection(r.PostForm)
	if errs := h.forms.Validate(r.Context(), form); errs != nil {
		h.render(w, r, http.StatusUnprocessableEntity, view.RoomSelection, Page{
			Errors: errs,
			Data:   RoomChoice{Rooms: billing.SelectableRooms(), Selected: sc.SelectedRoomType()},
		})
		return
	}

	sc.SetSelectedRoomType(form.RoomType)
	if err := h.tenantService.SelectRoom(r.Context(), h.actor(r), form.RoomType); apiclient.IsUnauthorized(err) {
		h.reauthenticate(w, r)
		return
	}

	next, _ := view.Next(view.RoomSelection, view.EventRoomSelected, sc.Role())
	h.redirect(w, r, next.Path())
}

// TenantOverview shows the tenant's own record and landlord messages.
func (h *Handler) TenantOverview(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	ov, err := h.tenantService.Overview(r.Context(), who(sc))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load tenant overview", logger.Error(err))
		h.render(w, r, http.StatusBadGateway, view.Tenants, Page{Error: apiclient.UserMessage(err)})
		return
	}

	p := Page{Data: ov}
	if ov.Tenant == nil {
		p.Error = msgNoTenantRecord
	}
	h.render(w, r, http.StatusOK, view.Tenants, p)
}

// TenantDashboard renders the three bill cards and the balance summary.
func (h *Handler) TenantDashboard(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	dash, err := h.tenantService.Dashboard(r.Context(), who(sc), sc.SelectedRoomType())
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		h.render(w, r, http.StatusOK, view.Tenant, Page{Error: msgNoTenantRecord})
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "failed to load payment dashboard", logger.Error(err))
		h.render(w, r, http.StatusBadGateway, view.Tenant, Page{Error: apiclient.UserMessage(err)})
		return
	}

	h.render(w, r, http.StatusOK, view.Tenant, Page{Data: dash})
}

// PayBill pays one bill. A successful payment redirects back to the
// dashboard. A refused one renders the dashboard as it stands after the
// rollback, with the reason.
func (h *Handler) PayBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sc := session.FromContext(r.Context())
	form := forms.ParsePayment(r.PostForm)
	if errs := h.forms.Validate(r.Context(), form); errs != nil {
		sc.SetFlash(flashError, errs["bill"])
		h.redirect(w, r, view.Tenant.Path())
		return
	}

	bill, _ := billing.ParseBill(form.Bill)
	dash, msg, err := h.tenantService.Pay(r.Context(), h.actor(r), sc.SelectedRoomType(), bill)
	if err == nil {
		sc.SetFlash(flashNotice, msg)
		h.redirect(w, r, view.Tenant.Path())
		return
	}

	slog.WarnContext(r.Context(), "payment not completed", logger.Bill(string(bill)), logger.Error(err))
	switch {
	case apiclient.IsUnauthorized(err):
		h.reauthenticate(w, r)
	case dash == nil:
		sc.SetFlash(flashError, paymentErrorMessage(bill, err))
		h.redirect(w, r, view.Tenant.Path())
	default:
		h.render(w, r, paymentErrorStatus(err), view.Tenant, Page{Data: dash, Error: paymentErrorMessage(bill, err)})
	}
}

func paymentErrorStatus(err error) int {
	if errors.Is(err, billing.ErrAlreadyPaid) || errors.Is(err, billing.ErrNothingDue) {
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

// reauthenticate drops a session whose token the API refused and sends the
// user to the login page.
func (h *Handler) reauthenticate(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	sc.Renew()
	sc.SetFlash(flashError, msgSessionExpired)
	h.redirect(w, r, view.Login.Path())
}

func paymentErrorMessage(bill billing.Bill, err error) string {
	switch {
	case errors.Is(err, billing.ErrAlreadyPaid):
		return bill.Title() + " is already paid."
	case errors.Is(err, billing.ErrNothingDue):
		return "Nothing is due for " + bill.Title() + ". Please select a room first."
	case errors.Is(err, tenant.ErrTenantNotFound):
		return msgNoTenantRecord
	}
	return "Payment failed: " + apiclient.UserMessage(err)
}
