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

// Package forms validates the HTML forms a user submits before any request
// reaches the rental API.
package forms

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rentdesk/rentdesk/internal/billing"
)

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

// Signup is the registration form. Name is required for tenants and the
// access code for landlords.
type Signup struct {
	Name       string `form:"name" validate:"required_if=Role tenant"`
	Email      string `form:"email" validate:"required,email"`
	Password   string `form:"password" validate:"required,min=6"`
	Role       string `form:"role" validate:"required,oneof=tenant landlord"`
	AccessCode string `form:"accessCode" validate:"required_if=Role landlord"`
}

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// RoomSelection is the room type picker.
type RoomSelection struct {
	RoomType string `form:"room_type" validate:"required,selectable_room"`
}

// Payment is a request to pay one bill.
type Payment struct {
	Bill string `form:"bill" validate:"required,bill"`
}

// messages are keyed by "<form field>.<tag>".
var messages = map[string]string{
	"name.required_if":          "Name is required",
	"email.required":            "Email is required",
	"email.email":               "Invalid email",
	"password.required":         "Password is required",
	"password.min":              "Password must be at least 6 characters",
	"role.required":             "Please choose a role",
	"role.oneof":                "Please choose a role",
	"accessCode.required_if":    "Access code is required",
	"room_type.required":        "Please select a room type",
	"room_type.selectable_room": "Please select a room type",
	"bill.required":             "Please choose a bill to pay",
	"bill.bill":                 "Unknown bill type",
}

// Validator checks forms.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the rental rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	_ = v.RegisterValidation("selectable_room", func(fl validator.FieldLevel) bool {
		return billing.IsSelectable(fl.Field().String())
	})
	_ = v.RegisterValidation("bill", func(fl validator.FieldLevel) bool {
		_, err := billing.ParseBill(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

// Validate checks form and returns nil when it is acceptable.
func (fv *Validator) Validate(ctx context.Context, form any) Errors {
	err := fv.v.StructCtx(ctx, form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Errors{"submit": "Invalid form submission"}
	}

	out := make(Errors, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[field] = msg
	}
	return out
}

// ParseSignup reads the signup form. A missing role defaults to tenant.
func ParseSignup(v url.Values) Signup {
	s := Signup{
		Name:       strings.TrimSpace(v.Get("name")),
		Email:      strings.TrimSpace(v.Get("email")),
		Password:   v.Get("password"),
		Role:       strings.TrimSpace(v.Get("role")),
		AccessCode: strings.TrimSpace(v.Get("accessCode")),
	}
	if s.Role == "" {
		s.Role = "tenant"
	}
	if s.Role != "landlord" {
		s.AccessCode = ""
	}
	return s
}

// ParseLogin reads the login form.
func ParseLogin(v url.Values) Login {
	return Login{
		Email:    strings.TrimSpace(v.Get("email")),
		Password: v.Get("password"),
	}
}

// ParseRoomSelection reads the room picker form.
func ParseRoomSelection(v url.Values) RoomSelection {
	return RoomSelection{RoomType: strings.TrimSpace(v.Get("room_type"))}
}

// ParsePayment reads the pay form.
func ParsePayment(v url.Values) Payment {
	return Payment{Bill: strings.ToLower(strings.TrimSpace(v.Get("bill")))}
}
