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

package view

import "github.com/rentdesk/rentdesk/internal/session"

// Navbar is what the top bar shows.
type Navbar struct {
	UserName      string
	Role          session.Role
	ShowUser      bool
	ShowAuthLinks bool
}

// NavbarFor builds the navbar for the current view. Signed-in visitors see
// their name and a logout button; everyone else sees login and signup links
// except on the landing page, which has its own.
func NavbarFor(current View, who Visitor) Navbar {
	if who.Role != "" {
		name := who.Name
		if name == "" {
			name = "User"
		}
		return Navbar{UserName: name, Role: who.Role, ShowUser: true}
	}
	return Navbar{ShowAuthLinks: current != Landing}
}
