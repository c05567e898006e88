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
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/forms"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/observability/metrics"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/tenant"
	"github.com/rentdesk/rentdesk/internal/view"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Flash keys shown once on the next page.
const (
	flashNotice = "notice"
	flashError  = "error"
)

// Authenticator signs users in and up against the rental API.
// *apiclient.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*apiclient.AuthResponse, error)
	Signup(ctx context.Context, req apiclient.SignupRequest) (*apiclient.AuthResponse, error)
}

// Handler holds HTTP handlers and dependencies
type Handler struct {
	sessionService *session.Service
	tenantService  *tenant.Service
	auth           Authenticator
	auditLogger    audit.Logger
	instruments    *metrics.Instruments
	forms          *forms.Validator
	renderer       *Renderer
	sessionConfig  SessionConfig
	liveConfig     LiveConfig
	upgrader       websocket.Upgrader
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	MaxAge         time.Duration
}

// LiveConfig controls the landlord live feed.
type LiveConfig struct {
	Interval     time.Duration
	WriteTimeout time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sessionService *session.Service,
	tenantService *tenant.Service,
	auth Authenticator,
	auditLogger audit.Logger,
	instruments *metrics.Instruments,
	sessionConfig SessionConfig,
	liveConfig LiveConfig,
) *Handler {
	if instruments == nil {
		instruments = metrics.NoopInstruments()
	}
	if liveConfig.Interval <= 0 {
		liveConfig.Interval = 3 * time.Second
	}
	if liveConfig.WriteTimeout <= 0 {
		liveConfig.WriteTimeout = 10 * time.Second
	}
	if sessionConfig.MaxAge <= 0 {
		sessionConfig.MaxAge = 24 * time.Hour
	}

	return &Handler{
		sessionService: sessionService,
		tenantService:  tenantService,
		auth:           auth,
		auditLogger:    auditLogger,
		instruments:    instruments,
		forms:          forms.New(),
		renderer:       defaultRenderer,
		sessionConfig:  sessionConfig,
		liveConfig:     liveConfig,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
	}
}

// NewRouter creates a new HTTP router. corsOrigins lists the origins allowed
// to read the landlord snapshot from a browser.
func NewRouter(h *Handler, rateLimiter *RateLimiter, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Handle("/static/*", http.StripPrefix("/static/", StaticHandler{FS: staticFiles()}))

	r.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)
		r.Use(SameOriginMiddleware)

		// The live feed outlives the page timeout.
		r.With(h.RequireView(view.Landlord)).Get("/landlord/live", h.LandlordLive)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/", h.Landing)
			r.Post("/signup/role", h.ChooseSignupRole)
			r.Get("/signup", h.SignupPage)
			r.Post("/signup", h.Signup)
			r.Get("/login", h.LoginPage)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)

			r.With(h.RequireView(view.TenantHome)).Get("/tenant-home", h.TenantHome)
			r.Route("/room-selection", func(r chi.Router) {
				r.Use(h.RequireView(view.RoomSelection))
				r.Get("/", h.RoomSelectionPage)
				r.Post("/", h.SelectRoom)
			})
			r.With(h.RequireView(view.Tenants)).Get("/tenants", h.TenantOverview)
			r.Route("/tenant", func(r chi.Router) {
				r.Use(h.RequireView(view.Tenant))
				r.Get("/", h.TenantDashboard)
				r.Post("/pay", h.PayBill)
			})

			r.Route("/landlord", func(r chi.Router) {
				r.Use(h.RequireView(view.Landlord))
				r.Get("/", h.LandlordDashboard)
				r.Post("/tenants/{tenantID}/delete", h.RemoveTenant)
				r.With(cors.New(cors.Options{
					AllowedOrigins:   corsOrigins,
					AllowedMethods:   []string{http.MethodGet},
					AllowCredentials: true,
				}).Handler).Get("/snapshot", h.LandlordSnapshot)
			})
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "rentdesk",
	})
}

// commitSession writes the request's session back and updates the cookie.
// It must run before anything is written to w.
func (h *Handler) commitSession(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	before := h.getSessionFromCookie(r)

	id, err := h.sessionService.Persist(r.Context(), sc, getIPAddress(r), r.UserAgent())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to persist session", logger.Error(err))
		return
	}

	switch {
	case id == "" && before != "":
		h.clearSessionCookie(w)
	case id != "" && id != before:
		h.setSessionCookie(w, id)
	}
}

// redirect commits the session and sends a 303 to path.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	h.commitSession(w, r)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   int(h.sessionConfig.MaxAge.Seconds()),
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// actor describes the signed-in user for services and audit records.
func (h *Handler) actor(r *http.Request) tenant.Actor {
	sc := session.FromContext(r.Context())
	return tenant.Actor{
		UserID:    sc.UserID(),
		Name:      sc.UserName(),
		Role:      string(sc.Role()),
		Token:     sc.Token(),
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
	}
}

func (h *Handler) audit(r *http.Request, event audit.Event) {
	if h.auditLogger == nil {
		return
	}
	if event.IPAddress == "" {
		event.IPAddress = getIPAddress(r)
	}
	if event.UserAgent == "" {
		event.UserAgent = r.UserAgent()
	}
	h.auditLogger.Log(r.Context(), event)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func getIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
