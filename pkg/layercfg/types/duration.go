package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Seconds is a duration configured as a whole number of seconds.
type Seconds time.Duration

// Minutes is a duration configured as a whole number of minutes.
type Minutes time.Duration

// Hours is a duration configured as a whole number of hours.
type Hours time.Duration

// Millis is a duration configured as a whole number of milliseconds.
type Millis time.Duration

// UnmarshalConfig implements schema.Unmarshaler.
func (s *Seconds) UnmarshalConfig(v value.Value) error {
	d, err := wholeUnits(v, time.Second)
	*s = Seconds(d)
	return err
}

// Duration returns s as a time.Duration.
func (s Seconds) Duration() time.Duration { return time.Duration(s) }

func (s Seconds) String() string { return time.Duration(s).String() }

// UnmarshalConfig implements schema.Unmarshaler.
func (m *Minutes) UnmarshalConfig(v value.Value) error {
	d, err := wholeUnits(v, time.Minute)
	*m = Minutes(d)
	return err
}

// Duration returns m as a time.Duration.
func (m Minutes) Duration() time.Duration { return time.Duration(m) }

func (m Minutes) String() string { return time.Duration(m).String() }

// UnmarshalConfig implements schema.Unmarshaler.
func (h *Hours) UnmarshalConfig(v value.Value) error {
	d, err := wholeUnits(v, time.Hour)
	*h = Hours(d)
	return err
}

// Duration returns h as a time.Duration.
func (h Hours) Duration() time.Duration { return time.Duration(h) }

func (h Hours) String() string { return time.Duration(h).String() }

// UnmarshalConfig implements schema.Unmarshaler.
func (ms *Millis) UnmarshalConfig(v value.Value) error {
	d, err := wholeUnits(v, time.Millisecond)
	*ms = Millis(d)
	return err
}

// Duration returns ms as a time.Duration.
func (ms Millis) Duration() time.Duration { return time.Duration(ms) }

func (ms Millis) String() string { return time.Duration(ms).String() }

// wholeUnits reads a non-negative integer count of unit from a number or
// a numeric string.
func wholeUnits(v value.Value, unit time.Duration) (time.Duration, error) {
	var n uint64
	switch v.Kind() {
	case value.KindNumber:
		u, ok := v.AsUint()
		if !ok {
			return 0, fmt.Errorf("%s is not a non-negative integer", v.String())
		}
		n = u
	case value.KindString:
		s, _ := v.AsString()
		u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a non-negative integer", s)
		}
		n = u
	default:
		return 0, fmt.Errorf("expected a non-negative integer, found %s", v.Kind())
	}
	if n > uint64(math.MaxInt64/int64(unit)) {
		return 0, fmt.Errorf("%d overflows a duration", n)
	}
	return time.Duration(n) * unit, nil
}
