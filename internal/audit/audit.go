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

package audit

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Event types
const (
	TypeLoginSuccess  = "login_success"
	TypeLoginFailed   = "login_failed"
	TypeSignup        = "signup"
	TypeSignupFailed  = "signup_failed"
	TypeLogout        = "logout"
	TypeRoomSelected  = "room_selected"
	TypePaymentMade   = "payment_made"
	TypePaymentFailed = "payment_failed"
	TypeTenantRemoved = "tenant_removed"
)

// Event represents an auditable action
type Event struct {
	Type      string
	ActorID   int64
	ActorRole string
	TenantID  int64
	Resource  string
	Metadata  map[string]any
	Timestamp time.Time
	IPAddress string
	UserAgent string
}

// Logger defines the interface for audit logging
type Logger interface {
	Log(ctx context.Context, event Event)
}

// SlogLogger implements Logger using slog
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates an audit logger writing through l, or the default
// logger when l is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: l}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		slog.String("component", "audit"),
		slog.String("audit_type", event.Type),
		slog.Time("timestamp", event.Timestamp),
	}
	if event.ActorID != 0 {
		attrs = append(attrs, slog.Int64("actor_id", event.ActorID))
	}
	if event.ActorRole != "" {
		attrs = append(attrs, slog.String("actor_role", event.ActorRole))
	}
	if event.TenantID != 0 {
		attrs = append(attrs, slog.Int64("tenant_id", event.TenantID))
	}
	if event.Resource != "" {
		attrs = append(attrs, slog.String("resource", event.Resource))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}

	if len(event.Metadata) > 0 {
		keys := make([]string, 0, len(event.Metadata))
		for k := range event.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		group := make([]any, 0, len(keys))
		for _, k := range keys {
			v := event.Metadata[k]
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", group...))
	}

	lg := l.logger
	if lg == nil {
		lg = slog.Default()
	}
	lg.InfoContext(ctx, "AUDIT_EVENT", attrs...)
}

// isSecret reports whether a metadata key likely holds a credential.
func isSecret(key string) bool {
	k := strings.ToLower(key)
	for _, s := range []string{"password", "secret", "token", "key", "hash", "credential", "access_code", "accesscode", "authorization"} {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
