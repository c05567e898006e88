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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/poll"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/tenant"
	"github.com/rentdesk/rentdesk/internal/view"
)

// Landlord dashboard tabs.
const (
	tabOverview = "overview"
	tabTenants  = "tenants"
	tabPayments = "payments"
)

const (
	livePongWait     = 60 * time.Second
	livePingInterval = 30 * time.Second
)

// LandlordPage is the landlord dashboard.
type LandlordPage struct {
	Snapshot *tenant.LandlordSnapshot
	Tab      string
	Confirm  *tenant.Row
}

// liveMessage is one frame of the landlord live feed.
type liveMessage struct {
	Type     string                   `json:"type"`
	Snapshot *tenant.LandlordSnapshot `json:"snapshot,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

func landlordTab(r *http.Request) string {
	switch tab := r.URL.Query().Get("tab"); tab {
	case tabTenants, tabPayments:
		return tab
	}
	return tabOverview
}

// LandlordDashboard renders the summary, tenant list or payment ledger.
// ?confirm=<id> asks before deleting a tenant.
func (h *Handler) LandlordDashboard(w http.ResponseWriter, r *http.Request) {
	page := LandlordPage{Tab: landlordTab(r)}

	snap, err := h.tenantService.LandlordSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load landlord dashboard", logger.Error(err))
		h.render(w, r, http.StatusBadGateway, view.Landlord, Page{
			Error: "Failed to load tenants. " + apiclient.UserMessage(err),
			Data:  page,
		})
		return
	}
	page.Snapshot = snap

	if raw := r.URL.Query().Get("confirm"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			for i := range snap.Tenants {
				if snap.Tenants[i].ID == id {
					page.Confirm = &snap.Tenants[i]
					page.Tab = tabTenants
					break
				}
			}
		}
	}

	h.render(w, r, http.StatusOK, view.Landlord, Page{Data: page})
}

// RemoveTenant deletes a tenant once the landlord has confirmed. Without
// confirm=1 it redirects to the confirmation prompt.
func (h *Handler) RemoveTenant(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sc := session.FromContext(r.Context())
	back := view.Landlord.Path() + "?tab=" + tabTenants

	id, err := strconv.ParseInt(chi.URLParam(r, "tenantID"), 10, 64)
	if err != nil || id <= 0 {
		sc.SetFlash(flashError, "Unknown tenant.")
		h.redirect(w, r, back)
		return
	}

	if r.PostForm.Get("confirm") != "1" {
		h.redirect(w, r, back+"&confirm="+strconv.FormatInt(id, 10))
		return
	}

	snap, err := h.tenantService.LandlordSnapshot(r.Context())
	if err != nil {
		sc.SetFlash(flashError, "Failed to delete tenant: "+apiclient.UserMessage(err))
		h.redirect(w, r, back)
		return
	}

	rows, err := h.tenantService.RemoveTenant(r.Context(), h.actor(r), snap.Tenants, id)
	if err != nil {
		slog.WarnContext(r.Context(), "tenant not removed", logger.TenantID(id), logger.Error(err))
		sc.SetFlash(flashError, deleteErrorMessage(err))
		h.redirect(w, r, back)
		return
	}

	sc.SetFlash(flashNotice, "Tenant deleted. "+strconv.Itoa(len(rows))+" tenants remain.")
	h.redirect(w, r, back)
}

func deleteErrorMessage(err error) string {
	if errors.Is(err, tenant.ErrTenantNotFound) || apiclient.IsNotFound(err) {
		return "Failed to delete tenant: Tenant not found."
	}
	return "Failed to delete tenant: " + apiclient.UserMessage(err)
}

// LandlordSnapshot returns the dashboard data as JSON.
func (h *Handler) LandlordSnapshot(w http.ResponseWriter, r *http.Request) {
	h.commitSession(w, r)

	snap, err := h.tenantService.LandlordSnapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, apiclient.UserMessage(err))
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// LandlordLive upgrades to a websocket and pushes a fresh snapshot every
// poll interval until the page is closed.
func (h *Handler) LandlordLive(w http.ResponseWriter, r *http.Request) {
	h.commitSession(w, r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "live feed upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.instruments.LiveViewers.Add(ctx, 1)
	defer h.instruments.LiveViewers.Add(context.WithoutCancel(ctx), -1)
	slog.InfoContext(ctx, "live feed opened", logger.Component("landlord_live"))

	go h.liveReadPump(ctx, cancel, conn)
	go h.livePing(ctx, cancel, conn)

	stop := poll.New(h.liveConfig.Interval, func(ctx context.Context) {
		msg := liveMessage{Type: "snapshot"}
		snap, err := h.tenantService.LandlordSnapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			msg = liveMessage{Type: "error", Error: apiclient.UserMessage(err)}
		} else {
			msg.Snapshot = snap
		}

		_ = conn.SetWriteDeadline(time.Now().Add(h.liveConfig.WriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			slog.DebugContext(ctx, "live feed write failed", logger.Error(err))
			cancel()
		}
	}).Start(ctx)

	<-ctx.Done()
	stop()

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	slog.InfoContext(context.WithoutCancel(ctx), "live feed closed", logger.Component("landlord_live"))
}

// liveReadPump discards client frames and cancels the feed when the
// connection goes away.
func (h *Handler) liveReadPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) {
	defer cancel()
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) livePing(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) {
	ticker := time.NewTicker(livePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.liveConfig.WriteTimeout)); err != nil {
				cancel()
				return
			}
		}
	}
}
