package interval

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with minute granularity. The zero value is
// "unset", which is distinct from midnight.
type TimeOfDay struct {
	minute int
	set    bool
}

// NewTimeOfDay panics on out-of-range input; use ParseTimeOfDay for user data.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		panic(fmt.Sprintf("interval: invalid time of day %02d:%02d", hour, minute))
	}
	return TimeOfDay{minute: hour*60 + minute, set: true}
}

// ParseTimeOfDay reads "HH:MM". An empty string yields the unset value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeOfDay{}, nil
	}
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: bad hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: bad minute", s)
	}
	return TimeOfDay{minute: h*60 + m, set: true}, nil
}

// MustParseTimeOfDay is ParseTimeOfDay for literals.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) IsSet() bool { return t.set }

// Minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.minute }

func (t TimeOfDay) Hour() int   { return t.minute / 60 }
func (t TimeOfDay) Minute() int { return t.minute % 60 }

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.minute < o.minute }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t.minute > o.minute }

func (t TimeOfDay) String() string {
	if !t.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
