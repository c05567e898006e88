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

package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledIsNoop(t *testing.T) {
	m, err := New(context.Background(), Config{Enabled: false}, "rentdesk")
	require.NoError(t, err)
	require.NotNil(t, m.GetMeter())

	in, err := m.Instruments()
	require.NoError(t, err)
	assert.NotNil(t, in.APIRequests)
	assert.NotNil(t, in.APILatency)
	assert.NotNil(t, in.Payments)
	assert.NotNil(t, in.LiveViewers)

	// Recording on noop instruments must not panic.
	in.APIRequests.Add(context.Background(), 1)
	in.LiveViewers.Add(context.Background(), -1)
}

func TestNoopInstruments(t *testing.T) {
	in := NoopInstruments()
	require.NotNil(t, in)
	in.APILatency.Record(context.Background(), 12.5)
}
