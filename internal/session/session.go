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

package session

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInvalid  = errors.New("session invalid")
)

// Role is the kind of account a session belongs to.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
)

// ParseRole returns the role for s, or "" when s is not a known role.
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleTenant, RoleLandlord:
		return r
	}
	return ""
}

// Durable keys survive until logout or expiry.
const (
	KeyToken             = "token"
	KeyRole              = "role"
	KeyUserName          = "userName"
	KeyUserID            = "userID"
	KeySelectedHouseType = "selectedHouseType"
)

// DurableKeys lists every durable key; logout removes all of them.
var DurableKeys = []string{KeyToken, KeyRole, KeyUserName, KeyUserID, KeySelectedHouseType}

// Ephemeral keys are removed the first time they are read.
const (
	FlashSignupRole = "signupRole"
)

// Session is the server-side record behind the session cookie.
type Session struct {
	ID         string            `json:"id"`
	Values     map[string]string `json:"values"`
	Flash      map[string]string `json:"flash"`
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	ExpiresAt  time.Time         `json:"expires_at"`
	CreatedAt  time.Time         `json:"created_at"`
	LastSeenAt time.Time         `json:"last_seen_at"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsIdle checks if the session has been idle for too long
func (s *Session) IsIdle(idleTimeout time.Duration) bool {
	return idleTimeout > 0 && time.Since(s.LastSeenAt) > idleTimeout
}

// Clone returns a deep copy so repositories never share maps with callers.
func (s *Session) Clone() *Session {
	c := *s
	c.Values = cloneMap(s.Values)
	c.Flash = cloneMap(s.Flash)
	return &c
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Repository defines the interface for session persistence
type Repository interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Update replaces the stored values and last seen time
	Update(ctx context.Context, session *Session) error

	// Delete deletes a session
	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired deletes all expired sessions and reports how many went
	DeleteExpired(ctx context.Context) (int64, error)
}
