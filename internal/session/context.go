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
	"strconv"
	"time"
)

// Context is the per-request view of a session. Pages read and write session
// state only through it; the transport layer persists it once the page is done.
//
// A Context may wrap a session that does not exist yet. Nothing is stored
// until a value is set.
type Context struct {
	sess    *Session
	isNew   bool
	dirty   bool
	cleared bool
	// replaced is the id of a stored session dropped by Renew.
	replaced string
}

// NewContext wraps a session loaded from the repository.
func NewContext(s *Session) *Context {
	return &Context{sess: s.Clone()}
}

// NewAnonymousContext returns an empty context with no backing session.
func NewAnonymousContext() *Context {
	return &Context{
		sess: &Session{
			Values: map[string]string{},
			Flash:  map[string]string{},
		},
		isNew: true,
	}
}

// Set stores a durable value.
func (c *Context) Set(key, value string) {
	if c.sess.Values[key] == value {
		return
	}
	c.sess.Values[key] = value
	c.dirty = true
	c.cleared = false
}

// Get returns a durable value, or "" when absent.
func (c *Context) Get(key string) string {
	return c.sess.Values[key]
}

// Delete removes a durable value.
func (c *Context) Delete(key string) {
	if _, ok := c.sess.Values[key]; !ok {
		return
	}
	delete(c.sess.Values, key)
	c.dirty = true
}

// Clear removes every durable and ephemeral value and marks the session for
// destruction.
func (c *Context) Clear() {
	c.sess.Values = map[string]string{}
	c.sess.Flash = map[string]string{}
	c.cleared = true
	c.dirty = true
}

// Renew drops every value and detaches the context from its stored
// session. The next persist stores a fresh session under a new id and
// destroys the old one.
func (c *Context) Renew() {
	if !c.isNew && c.sess.ID != "" {
		c.replaced = c.sess.ID
	}
	c.sess = &Session{
		Values: map[string]string{},
		Flash:  map[string]string{},
	}
	c.isNew = true
	c.dirty = true
	c.cleared = false
}

// Replaced returns the id of the stored session dropped by Renew, or "".
func (c *Context) Replaced() string { return c.replaced }

// SetFlash stores a short-lived value that is removed on first read.
func (c *Context) SetFlash(key, value string) {
	c.sess.Flash[key] = value
	c.dirty = true
	c.cleared = false
}

// TakeFlash returns a short-lived value and removes it.
func (c *Context) TakeFlash(key string) string {
	v, ok := c.sess.Flash[key]
	if !ok {
		return ""
	}
	delete(c.sess.Flash, key)
	c.dirty = true
	return v
}

// Identity is what a successful login or signup stores.
type Identity struct {
	Token     string
	Role      Role
	Name      string
	UserID    int64
	ExpiresAt time.Time
}

// SetIdentity stores the durable identity keys in one step.
func (c *Context) SetIdentity(id Identity) {
	c.Set(KeyToken, id.Token)
	c.Set(KeyRole, string(id.Role))
	c.Set(KeyUserName, id.Name)
	if id.UserID > 0 {
		c.Set(KeyUserID, strconv.FormatInt(id.UserID, 10))
	} else {
		c.Delete(KeyUserID)
	}
	if !id.ExpiresAt.IsZero() && (c.sess.ExpiresAt.IsZero() || id.ExpiresAt.Before(c.sess.ExpiresAt)) {
		c.sess.ExpiresAt = id.ExpiresAt
		c.dirty = true
	}
}

// Token is the API bearer token.
func (c *Context) Token() string { return c.Get(KeyToken) }

// Role is the logged-in role, or "" when anonymous.
func (c *Context) Role() Role { return ParseRole(c.Get(KeyRole)) }

// UserName is the display name.
func (c *Context) UserName() string { return c.Get(KeyUserName) }

// UserID is the API user id, or 0 when unknown.
func (c *Context) UserID() int64 {
	id, err := strconv.ParseInt(c.Get(KeyUserID), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// SelectedRoomType is the room type chosen on the room selection page.
func (c *Context) SelectedRoomType() string { return c.Get(KeySelectedHouseType) }

// SetSelectedRoomType records the tenant's room choice.
func (c *Context) SetSelectedRoomType(roomType string) { c.Set(KeySelectedHouseType, roomType) }

// IsAuthenticated reports whether an API token is held.
func (c *Context) IsAuthenticated() bool { return c.Token() != "" }

// HasIdentity reports whether a display name is present; pages gate on this.
func (c *Context) HasIdentity() bool { return c.UserName() != "" }

// ID returns the backing session id, or "" for a session not yet stored.
func (c *Context) ID() string {
	if c.isNew {
		return ""
	}
	return c.sess.ID
}

// IsNew reports whether the session has never been stored.
func (c *Context) IsNew() bool { return c.isNew }

// Dirty reports whether anything changed since load.
func (c *Context) Dirty() bool { return c.dirty }

// Cleared reports whether Clear was called and nothing has been set since.
func (c *Context) Cleared() bool { return c.cleared }

// Session returns a copy of the backing record.
func (c *Context) Session() *Session { return c.sess.Clone() }

type contextKey struct{}

// WithContext attaches sc to ctx.
func WithContext(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the session context attached to ctx. It never returns
// nil; a missing session yields an anonymous one.
func FromContext(ctx context.Context) *Context {
	if sc, ok := ctx.Value(contextKey{}).(*Context); ok && sc != nil {
		return sc
	}
	return NewAnonymousContext()
}
