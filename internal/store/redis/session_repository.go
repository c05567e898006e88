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

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rentdesk/rentdesk/internal/session"
)

const keyPrefix = "rentdesk:session:"

// SessionRepository stores sessions as JSON values whose TTL tracks the
// session expiry, so Redis evicts them on its own.
type SessionRepository struct {
	client goredis.UniversalClient
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client goredis.UniversalClient) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	return r.write(ctx, sess, false)
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Update replaces the stored session, keeping it only if it already exists
func (r *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	return r.write(ctx, sess, true)
}

// Delete deletes a session
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	n, err := r.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired is a no-op: keys expire through their TTL.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (r *SessionRepository) write(ctx context.Context, sess *session.Session, mustExist bool) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return session.ErrSessionExpired
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if !mustExist {
		if err := r.client.Set(ctx, sessionKey(sess.ID), payload, ttl).Err(); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	}

	ok, err := r.client.SetXX(ctx, sessionKey(sess.ID), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if !ok {
		return session.ErrSessionNotFound
	}
	return nil
}
