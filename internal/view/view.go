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

// Package view names the pages of the application, decides which page a
// visitor may see, and models the navigation between them.
package view

import (
	"errors"
	"fmt"

	"github.com/rentdesk/rentdesk/internal/session"
)

// View is a named page.
type View string

const (
	Landing       View = "landing"
	Signup        View = "signup"
	Login         View = "login"
	TenantHome    View = "tenant-home"
	RoomSelection View = "room-selection"
	Tenants       View = "tenants"
	Tenant        View = "tenant"
	Landlord      View = "landlord"
)

var paths = map[View]string{
	Landing:       "/",
	Signup:        "/signup",
	Login:         "/login",
	TenantHome:    "/tenant-home",
	RoomSelection: "/room-selection",
	Tenants:       "/tenants",
	Tenant:        "/tenant",
	Landlord:      "/landlord",
}

// All lists every view in navigation order.
func All() []View {
	return []View{Landing, Signup, Login, TenantHome, RoomSelection, Tenants, Tenant, Landlord}
}

// Path returns the URL path the view is served on.
func (v View) Path() string {
	return paths[v]
}

// FromPath returns the view served on p.
func FromPath(p string) (View, bool) {
	for v, vp := range paths {
		if vp == p {
			return v, true
		}
	}
	return "", false
}

// tenantOnly views need a display name before they render.
func (v View) tenantOnly() bool {
	switch v {
	case TenantHome, RoomSelection, Tenants, Tenant:
		return true
	}
	return false
}

// Visitor is what the guards know about the person asking for a page.
type Visitor struct {
	Name     string
	Role     session.Role
	RoomType string
}

// VisitorFrom reads a Visitor from the session.
func VisitorFrom(sc *session.Context) Visitor {
	return Visitor{
		Name:     sc.UserName(),
		Role:     sc.Role(),
		RoomType: sc.SelectedRoomType(),
	}
}

// Decision is the outcome of a guard. Redirect is empty when the view may
// render.
type Decision struct {
	Redirect View
}

// Allowed reports whether the view may render.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Guard decides whether who may see v. Guards only steer navigation; the
// API still authorises every call.
func Guard(v View, who Visitor) Decision {
	switch {
	case v.tenantOnly() && who.Name == "":
		return Decision{Redirect: Login}
	case v == Tenant && who.RoomType == "":
		return Decision{Redirect: RoomSelection}
	case v == Landlord && who.Name == "":
		return Decision{Redirect: Login}
	}
	return Decision{}
}

// Event is a user action that moves between views.
type Event string

const (
	EventChooseSignup    Event = "choose-signup"
	EventChooseLogin     Event = "choose-login"
	EventSignupSucceeded Event = "signup-succeeded"
	EventLoginSucceeded  Event = "login-succeeded"
	EventFindRoom        Event = "find-room"
	EventRoomSelected    Event = "room-selected"
	EventOpenOverview    Event = "open-overview"
	EventOpenPayments    Event = "open-payments"
	EventLogout          Event = "logout"
)

// ErrInvalidTransition is returned when an event has no meaning on a view.
var ErrInvalidTransition = errors.New("invalid view transition")

// Next returns the view that follows ev on from. role matters only for a
// successful login.
func Next(from View, ev Event, role session.Role) (View, error) {
	if ev == EventLogout && from != Landing && from != Signup && from != Login {
		return Landing, nil
	}

	switch from {
	case Landing:
		switch ev {
		case EventChooseSignup:
			return Signup, nil
		case EventChooseLogin:
			return Login, nil
		}
	case Signup:
		switch ev {
		case EventSignupSucceeded, EventChooseLogin:
			return Login, nil
		}
	case Login:
		switch ev {
		case EventLoginSucceeded:
			return AfterLogin(role), nil
		case EventChooseSignup:
			return Signup, nil
		}
	case TenantHome:
		switch ev {
		case EventFindRoom:
			return RoomSelection, nil
		case EventOpenOverview:
			return Tenants, nil
		case EventOpenPayments:
			return Tenant, nil
		}
	case RoomSelection:
		if ev == EventRoomSelected {
			return Tenant, nil
		}
	case Tenants:
		switch ev {
		case EventOpenPayments:
			return Tenant, nil
		case EventFindRoom:
			return RoomSelection, nil
		}
	case Tenant:
		switch ev {
		case EventOpenOverview:
			return Tenants, nil
		case EventFindRoom:
			return RoomSelection, nil
		}
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
}

// AfterLogin is the first page a freshly signed-in role sees.
func AfterLogin(role session.Role) View {
	if role == session.RoleLandlord {
		return Landlord
	}
	return RoomSelection
}
