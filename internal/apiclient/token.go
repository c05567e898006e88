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

package apiclient

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the API puts in the tokens it issues.
type Claims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

// ParseClaims reads the claims of an API token without checking its
// signature; the API verifies tokens on every bearer-authorised call.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var c Claims
	switch v := mc["user_id"].(type) {
	case float64:
		c.UserID = int64(v)
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return Claims{}, fmt.Errorf("%w: user_id: %v", ErrMalformedToken, err)
		}
		c.UserID = id
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Claims{}, fmt.Errorf("%w: user_id: %v", ErrMalformedToken, err)
		}
		c.UserID = id
	}

	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: exp: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
