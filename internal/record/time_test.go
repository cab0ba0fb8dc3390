// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatToTimeString(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "seconds", seconds: 3, want: "3.000s"},
		{name: "minutes", seconds: 600, want: "10.000m"},
		{name: "hours", seconds: 6.5 * 3600, want: "6.500h"},
		{name: "under five hours stays minutes", seconds: 3600, want: "60.000m"},
		{name: "days", seconds: 6 * 86400, want: "6.000d"},
		{name: "years", seconds: 10 * Year, want: "10.000y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FloatToTimeString(tt.seconds/Year))
		})
	}
}

func TestTimeStringToFloat(t *testing.T) {
	tests := []struct {
		in      string
		seconds float64
		wantErr bool
	}{
		{in: "1h", seconds: 3600},
		{in: "2.5d", seconds: 2.5 * 86400},
		{in: "3w+1d", seconds: 3*604800 + 86400},
		{in: "2hs", seconds: 7200},
		{in: "10s", seconds: 10},
		{in: "1M", seconds: 2629800},
		{in: "", wantErr: true},
		{in: "h", wantErr: true},
		{in: "12", wantErr: true},
		{in: "4q", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := TimeStringToFloat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.seconds, got*Year, 1e-6)
		})
	}
}

func TestNowRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got := Time(Now(ts))
	assert.WithinDuration(t, ts, got, time.Millisecond)
	assert.InDelta(t, 0, Now(time.Unix(int64(T2000), 0)), 1e-12)
}
