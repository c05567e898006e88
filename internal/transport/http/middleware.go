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
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/view"
)

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				level := slog.LevelInfo
				if ww.Status() >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				args := []any{
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(getIPAddress(r)),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				}
				if v, ok := view.FromPath(r.URL.Path); ok {
					args = append(args, logger.String("view", string(v)))
				}
				slog.Log(r.Context(), level, "http_request", args...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// SessionMiddleware loads the session named by the cookie and attaches it to
// the request context. Handlers persist it through commitSession.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, err := h.sessionService.Load(r.Context(), h.getSessionFromCookie(r))
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to load session", logger.Error(err))
		}
		next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), sc)))
	})
}

// RequireView redirects visitors the view's guard turns away.
func (h *Handler) RequireView(v view.View) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := session.FromContext(r.Context())
			d := view.Guard(v, view.VisitorFrom(sc))
			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			slog.DebugContext(r.Context(), "view guard redirect",
				logger.String("view", string(v)),
				logger.String("redirect", string(d.Redirect)),
			)
			if isWebSocket(r) || r.URL.Path == "/landlord/snapshot" {
				respondError(w, http.StatusUnauthorized, "not signed in")
				return
			}
			h.redirect(w, r, d.Redirect.Path())
		})
	}
}

// SameOriginMiddleware rejects state-changing requests whose Origin or
// Referer names another host.
func SameOriginMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			next.ServeHTTP(w, r)
			return
		}

		if !sameOrigin(r) {
			slog.WarnContext(r.Context(), "cross-origin form post rejected",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.String("origin", r.Header.Get("Origin")),
			)
			http.Error(w, "cross-origin request rejected", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sameOrigin reports whether the request's Origin, or failing that its
// Referer, points at the host being served. Requests carrying neither pass.
func sameOrigin(r *http.Request) bool {
	source := r.Header.Get("Origin")
	if source == "" {
		source = r.Header.Get("Referer")
	}
	if source == "" {
		return true
	}
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func isWebSocket(r *http.Request) bool {
	return r.Header.Get("Upgrade") == "websocket"
}
