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

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	sess := &session.Session{
		ID:        "s1",
		Values:    map[string]string{session.KeyRole: "tenant"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, sess))
	assert.ErrorIs(t, repo.Create(ctx, sess), session.ErrSessionInvalid)

	// Mutating the caller's copy must not leak into the store.
	sess.Values[session.KeyRole] = "landlord"

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tenant", got.Values[session.KeyRole])

	got.Values[session.KeyUserName] = "Jane"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Values[session.KeyUserName])

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "s1"), session.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Update(ctx, got), session.ErrSessionNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	require.NoError(t, repo.Create(ctx, &session.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &session.Session{ID: "live", ExpiresAt: time.Now().Add(time.Hour)}))

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, repo.Len())
}
