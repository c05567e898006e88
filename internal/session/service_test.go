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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapRepo struct {
	mu   sync.Mutex
	data map[string]*Session
}

func newMapRepo() *mapRepo { return &mapRepo{data: map[string]*Session{}} }

func (r *mapRepo) Create(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.ID] = s.Clone()
	return nil
}

func (r *mapRepo) Get(_ context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *mapRepo) Update(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[s.ID]; !ok {
		return ErrSessionNotFound
	}
	r.data[s.ID] = s.Clone()
	return nil
}

func (r *mapRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *mapRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.data {
		if s.IsExpired() {
			delete(r.data, id)
			n++
		}
	}
	return n, nil
}

func TestPersist_AnonymousUntouchedIsNotStored(t *testing.T) {
	repo := newMapRepo()
	svc := NewService(repo, time.Hour, 30*time.Minute)

	sc, err := svc.Load(context.Background(), "")
	require.NoError(t, err)

	id, err := svc.Persist(context.Background(), sc, "127.0.0.1", "test")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, repo.data)
}

func TestPersist_CreateThenLoad(t *testing.T) {
	ctx := context.Background()
	repo := newMapRepo()
	svc := NewService(repo, time.Hour, 30*time.Minute)

	sc := NewAnonymousContext()
	sc.SetIdentity(Identity{Token: "tok", Role: RoleTenant, Name: "Jane", UserID: 7})

	id, err := svc.Persist(ctx, sc, "127.0.0.1", "test")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.False(t, sc.IsNew())
	assert.Equal(t, id, sc.ID())

	loaded, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token())
	assert.Equal(t, RoleTenant, loaded.Role())
	assert.Equal(t, "Jane", loaded.UserName())
	assert.Equal(t, int64(7), loaded.UserID())
	assert.True(t, loaded.IsAuthenticated())
}

func TestPersist_TokenExpiryCapsLifetime(t *testing.T) {
	ctx := context.Background()
	repo := newMapRepo()
	svc := NewService(repo, 24*time.Hour, 0)

	exp := time.Now().Add(10 * time.Minute)
	sc := NewAnonymousContext()
	sc.SetIdentity(Identity{Token: "tok", Role: RoleLandlord, Name: "John Doe", ExpiresAt: exp})

	id, err := svc.Persist(ctx, sc, "", "")
	require.NoError(t, err)
	assert.WithinDuration(t, exp, repo.data[id].ExpiresAt, time.Second)
}

// TestPurpose: Validates that logout clears every durable key and destroys the stored session.
// Scope: Unit Test
// Expected: The session record is deleted and a fresh load is anonymous with no identity.
// Test Case ID: SES-01
func TestPersist_ClearDestroysSession(t *testing.T) {
	ctx := context.Background()
	repo := newMapRepo()
	svc := NewService(repo, time.Hour, 30*time.Minute)

	sc := NewAnonymousContext()
	sc.SetIdentity(Identity{Token: "tok", Role: RoleTenant, Name: "Jane"})
	sc.SetSelectedRoomType("Bedsitter")
	id, err := svc.Persist(ctx, sc, "", "")
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, id)
	require.NoError(t, err)
	loaded.Clear()

	for _, k := range DurableKeys {
		assert.Empty(t, loaded.Get(k), "durable key %s must be cleared", k)
	}

	newID, err := svc.Persist(ctx, loaded, "", "")
	require.NoError(t, err)
	assert.Empty(t, newID)
	assert.Empty(t, repo.data)

	again, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, again.HasIdentity())
	assert.True(t, again.IsNew())
}

// TestPurpose: Validates that a renewed session is stored under a new id and the old record is destroyed.
// Scope: Unit Test
// Expected: Persist returns a different id, only the new record remains and the old id loads as anonymous.
// Test Case ID: SES-02
func TestPersist_RenewRotatesID(t *testing.T) {
	ctx := context.Background()
	repo := newMapRepo()
	svc := NewService(repo, time.Hour, 30*time.Minute)

	sc := NewAnonymousContext()
	sc.SetFlash(FlashSignupRole, "tenant")
	oldID, err := svc.Persist(ctx, sc, "", "")
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, oldID)
	require.NoError(t, err)
	loaded.Renew()
	assert.Equal(t, oldID, loaded.Replaced())
	assert.Empty(t, loaded.TakeFlash(FlashSignupRole))
	loaded.SetIdentity(Identity{Token: "tok", Role: RoleTenant, Name: "Jane"})

	newID, err := svc.Persist(ctx, loaded, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, newID)
	assert.NotEqual(t, oldID, newID)
	assert.Empty(t, loaded.Replaced())
	assert.Len(t, repo.data, 1)
	assert.Contains(t, repo.data, newID)

	stale, err := svc.Load(ctx, oldID)
	require.NoError(t, err)
	assert.False(t, stale.HasIdentity())
}

func TestFlash_ReadOnce(t *testing.T) {
	ctx := context.Background()
	repo := newMapRepo()
	svc := NewService(repo, time.Hour, time.Hour)

	sc := NewAnonymousContext()
	sc.SetFlash(FlashSignupRole, "landlord")
	id, err := svc.Persist(ctx, sc, "", "")
	require.NoError(t, err)

	first, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "landlord", first.TakeFlash(FlashSignupRole))
	assert.Empty(t, first.TakeFlash(FlashSignupRole))
	_, err = svc.Persist(ctx, first, "", "")
	require.NoError(t, err)

	second, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, second.TakeFlash(FlashSignupRole))
}

func TestGet_ExpiredAndIdle(t *testing.T) {
	ctx := context.Background()
	repo := newMapRepo()
	svc := NewService(repo, time.Hour, 10*time.Minute)
	now := time.Now()

	repo.data["expired"] = &Session{ID: "expired", ExpiresAt: now.Add(-time.Second), LastSeenAt: now}
	repo.data["idle"] = &Session{ID: "idle", ExpiresAt: now.Add(time.Hour), LastSeenAt: now.Add(-time.Hour)}

	_, err := svc.Get(ctx, "expired")
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = svc.Get(ctx, "idle")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, repo.data)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCleanupExpired(t *testing.T) {
	repo := newMapRepo()
	svc := NewService(repo, time.Hour, time.Hour)
	repo.data["a"] = &Session{ID: "a", ExpiresAt: time.Now().Add(-time.Minute)}
	repo.data["b"] = &Session{ID: "b", ExpiresAt: time.Now().Add(time.Minute)}

	require.NoError(t, svc.CleanupExpired(context.Background()))
	assert.Len(t, repo.data, 1)
	assert.Contains(t, repo.data, "b")
}

func TestFromContext_DefaultsToAnonymous(t *testing.T) {
	sc := FromContext(context.Background())
	require.NotNil(t, sc)
	assert.False(t, sc.HasIdentity())

	attached := NewAnonymousContext()
	attached.Set(KeyUserName, "Jane")
	got := FromContext(WithContext(context.Background(), attached))
	assert.Same(t, attached, got)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleTenant, ParseRole("tenant"))
	assert.Equal(t, RoleLandlord, ParseRole("landlord"))
	assert.Equal(t, Role(""), ParseRole("admin"))
}
