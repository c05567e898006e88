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
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// touchInterval bounds how often an unchanged session has its last seen time
// written back.
const touchInterval = time.Minute

// Service manages session lifetimes on top of a Repository.
type Service struct {
	repo        Repository
	lifetime    time.Duration
	idleTimeout time.Duration
	now         func() time.Time
}

// NewService creates a new session service
func NewService(repo Repository, lifetime, idleTimeout time.Duration) *Service {
	return &Service{
		repo:        repo,
		lifetime:    lifetime,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Load returns the session context for sessionID. Unknown, expired and idle
// sessions yield an anonymous context; expired and idle ones are deleted.
func (s *Service) Load(ctx context.Context, sessionID string) (*Context, error) {
	if sessionID == "" {
		return NewAnonymousContext(), nil
	}

	sess, err := s.Get(ctx, sessionID)
	switch {
	case err == nil:
		return NewContext(sess), nil
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		return NewAnonymousContext(), nil
	default:
		return NewAnonymousContext(), err
	}
}

// Get retrieves a live session by ID.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.After(sess.ExpiresAt) || (s.idleTimeout > 0 && now.Sub(sess.LastSeenAt) > s.idleTimeout) {
		if err := s.repo.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			slog.WarnContext(ctx, "failed to delete stale session", slog.String("error", err.Error()))
		}
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Persist writes sc back to the repository and returns the id the session
// cookie should carry. An empty id means the cookie should be cleared.
func (s *Service) Persist(ctx context.Context, sc *Context, ipAddress, userAgent string) (string, error) {
	now := s.now()

	if sc.replaced != "" {
		if err := s.Destroy(ctx, sc.replaced); err != nil {
			return "", fmt.Errorf("failed to destroy replaced session: %w", err)
		}
		sc.replaced = ""
	}

	if sc.Cleared() {
		if !sc.isNew {
			if err := s.repo.Delete(ctx, sc.sess.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
				return "", fmt.Errorf("failed to destroy session: %w", err)
			}
		}
		sc.dirty = false
		return "", nil
	}

	if sc.isNew {
		if !sc.dirty {
			return "", nil
		}
		sess := sc.sess
		sess.ID = uuid.NewString()
		sess.IPAddress = ipAddress
		sess.UserAgent = userAgent
		sess.CreatedAt = now
		sess.LastSeenAt = now
		if limit := now.Add(s.lifetime); sess.ExpiresAt.IsZero() || sess.ExpiresAt.After(limit) {
			sess.ExpiresAt = limit
		}
		if err := s.repo.Create(ctx, sess.Clone()); err != nil {
			return "", fmt.Errorf("failed to create session: %w", err)
		}
		sc.isNew = false
		sc.dirty = false
		return sess.ID, nil
	}

	if !sc.dirty && now.Sub(sc.sess.LastSeenAt) < touchInterval {
		return sc.sess.ID, nil
	}

	sc.sess.LastSeenAt = now
	if err := s.repo.Update(ctx, sc.sess.Clone()); err != nil {
		return sc.sess.ID, fmt.Errorf("failed to update session: %w", err)
	}
	sc.dirty = false
	return sc.sess.ID, nil
}

// Destroy deletes a session. A session that is already gone is not an error.
func (s *Service) Destroy(ctx context.Context, sessionID string) error {
	err := s.repo.Delete(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	return err
}

// CleanupExpired removes every expired session.
func (s *Service) CleanupExpired(ctx context.Context) error {
	n, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "expired sessions removed", slog.Int64("count", n))
	}
	return nil
}
