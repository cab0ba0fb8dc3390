// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Stored creation times are fractional years since 2000-01-01 00:00 CET.
const (
	T2000 = 946681200.0
	Year  = 31557600.0
)

var seconds = map[string]float64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 604800,
	"M": 2629800,
	"y": Year,
}

// Now converts a wall clock time to stored time units.
func Now(t time.Time) float64 {
	return (float64(t.UnixNano())/1e9 - T2000) / Year
}

// Time converts stored time units back to a wall clock time.
func Time(ctime float64) time.Time {
	secs := ctime*Year + T2000
	return time.Unix(0, int64(secs*1e9))
}

// FloatToTimeString renders an elapsed time (in years) using the largest unit
// for which the value exceeds 5, e.g. "6.500h".
func FloatToTimeString(t float64) string {
	t *= Year
	var x float64
	unit := "s"
	for _, u := range []string{"y", "M", "w", "d", "h", "m", "s"} {
		unit = u
		x = t / seconds[u]
		if x > 5 {
			break
		}
	}
	return fmt.Sprintf("%.3f%s", x, unit)
}

// TimeStringToFloat parses a duration such as "1h", "2.5d" or "3w+1d" and
// returns it in years.
func TimeStringToFloat(s string) (float64, error) {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, errors.New("empty time string")
	}
	if strings.Contains(s, "+") {
		var total float64
		for _, part := range strings.Split(s, "+") {
			v, err := TimeStringToFloat(part)
			if err != nil {
				return 0, err
			}
			total += v
		}
		return total, nil
	}

	// Allow plural forms like "2hs".
	if len(s) > 2 && s[len(s)-1] == 's' && isLetter(s[len(s)-2]) {
		s = s[:len(s)-1]
	}

	i := 0
	for i < len(s) && (s[i] == '.' || s[i] == '-' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, errors.Errorf("bad time string %q", s)
	}

	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad time string %q", s)
	}
	unit, ok := seconds[s[i:]]
	if !ok {
		return 0, errors.Errorf("bad time unit %q", s[i:])
	}
	return n * unit / Year, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
