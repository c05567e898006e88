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

	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/audit"
	"github.com/rentdesk/rentdesk/internal/forms"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/view"
)

// Landing renders the welcome page.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.Landing, Page{})
}

// ChooseSignupRole remembers the role picked on the landing page for the
// next signup form only.
func (h *Handler) ChooseSignupRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sc := session.FromContext(r.Context())
	if role := session.ParseRole(r.PostForm.Get("role")); role != "" {
		sc.SetFlash(session.FlashSignupRole, string(role))
	}

	next, _ := view.Next(view.Landing, view.EventChooseSignup, "")
	h.redirect(w, r, next.Path())
}

// SignupPage renders the registration form with the remembered role.
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	role := sc.TakeFlash(session.FlashSignupRole)
	if role == "" {
		role = string(session.RoleTenant)
	}
	h.render(w, r, http.StatusOK, view.Signup, Page{Form: forms.Signup{Role: role}})
}

// Signup registers an account and sends the user to the login page.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := forms.ParseSignup(r.PostForm)
	if errs := h.forms.Validate(r.Context(), form); errs != nil {
		form.Password = ""
		h.render(w, r, http.StatusUnprocessableEntity, view.Signup, Page{Form: form, Errors: errs})
		return
	}

	_, err := h.auth.Signup(r.Context(), apiclient.SignupRequest{
		Name:       form.Name,
		Email:      form.Email,
		Password:   form.Password,
		Role:       form.Role,
		AccessCode: form.AccessCode,
	})
	if err != nil {
		slog.WarnContext(r.Context(), "signup rejected",
			logger.Email(form.Email),
			logger.Role(form.Role),
			logger.Error(err),
		)
		h.audit(r, audit.Event{
			Type:      audit.TypeSignupFailed,
			ActorRole: form.Role,
			Resource:  "account",
			Metadata:  map[string]any{"email": form.Email},
		})
		form.Password = ""
		h.render(w, r, http.StatusOK, view.Signup, Page{Form: form, Error: apiclient.UserMessage(err)})
		return
	}

	h.audit(r, audit.Event{
		Type:      audit.TypeSignup,
		ActorRole: form.Role,
		Resource:  "account",
		Metadata:  map[string]any{"email": form.Email},
	})

	sc := session.FromContext(r.Context())
	sc.SetFlash(flashNotice, "Account created. Please log in.")
	next, _ := view.Next(view.Signup, view.EventSignupSucceeded, "")
	h.redirect(w, r, next.Path())
}

// LoginPage renders the sign-in form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.Login, Page{Form: forms.Login{}})
}

// Login signs the user in and stores their identity in the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := forms.ParseLogin(r.PostForm)
	if errs := h.forms.Validate(r.Context(), form); errs != nil {
		form.Password = ""
		h.render(w, r, http.StatusUnprocessableEntity, view.Login, Page{Form: form, Errors: errs})
		return
	}

	resp, err := h.auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		slog.WarnContext(r.Context(), "login failed", logger.Email(form.Email), logger.Error(err))
		h.audit(r, audit.Event{
			Type:     audit.TypeLoginFailed,
			Resource: "session",
			Metadata: map[string]any{"email": form.Email},
		})
		form.Password = ""
		h.render(w, r, http.StatusOK, view.Login, Page{Form: form, Error: apiclient.UserMessage(err)})
		return
	}

	id := identityFrom(resp, form.Email)
	if claims, err := apiclient.ParseClaims(resp.Token); err != nil {
		slog.DebugContext(r.Context(), "token claims unreadable", logger.Error(err))
	} else {
		id.ExpiresAt = claims.ExpiresAt
		if id.UserID == 0 {
			id.UserID = claims.UserID
		}
		if id.Role == "" {
			id.Role = session.ParseRole(claims.Role)
		}
	}
	if id.Role == "" {
		id.Role = session.RoleTenant
	}

	// A signed-in user never keeps the id the browser arrived with.
	sc := session.FromContext(r.Context())
	sc.Renew()
	sc.SetIdentity(id)

	h.audit(r, audit.Event{
		Type:      audit.TypeLoginSuccess,
		ActorID:   id.UserID,
		ActorRole: string(id.Role),
		Resource:  "session",
	})
	slog.InfoContext(r.Context(), "user logged in", logger.UserID(id.UserID), logger.Role(string(id.Role)))

	next, _ := view.Next(view.Login, view.EventLoginSucceeded, id.Role)
	h.redirect(w, r, next.Path())
}

// identityFrom builds the session identity from a login response. Accounts
// without a name are shown by their email.
func identityFrom(resp *apiclient.AuthResponse, email string) session.Identity {
	name := resp.User.Name
	if name == "" {
		name = email
	}
	return session.Identity{
		Token:  resp.Token,
		Role:   session.ParseRole(resp.User.Role),
		Name:   name,
		UserID: resp.User.ID,
	}
}

// Logout forgets the identity and returns to the landing page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sc := session.FromContext(r.Context())
	if sc.HasIdentity() || sc.IsAuthenticated() {
		h.audit(r, audit.Event{
			Type:      audit.TypeLogout,
			ActorID:   sc.UserID(),
			ActorRole: string(sc.Role()),
			Resource:  "session",
		})
	}
	sc.Clear()
	h.redirect(w, r, view.Landing.Path())
}
