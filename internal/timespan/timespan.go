// Package timespan parses and formats the human-readable durations used in
// retention settings, such as "12 days", "1w 2d" or "36h".
package timespan

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/pflag"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = time.Duration(30.44 * float64(day))
	year  = time.Duration(365.25 * float64(day))
)

var units = map[string]time.Duration{
	"nsec": time.Nanosecond, "ns": time.Nanosecond,
	"usec": time.Microsecond, "us": time.Microsecond, "µs": time.Microsecond,
	"msec": time.Millisecond, "ms": time.Millisecond,
	"seconds": time.Second, "second": time.Second, "secs": time.Second, "sec": time.Second, "s": time.Second,
	"minutes": time.Minute, "minute": time.Minute, "mins": time.Minute, "min": time.Minute, "m": time.Minute,
	"hours": time.Hour, "hour": time.Hour, "hrs": time.Hour, "hr": time.Hour, "h": time.Hour,
	"days": day, "day": day, "d": day,
	"weeks": week, "week": week, "w": week,
	"months": month, "month": month, "M": month,
	"years": year, "year": year, "y": year,
}

// Parse converts a span such as "12 days" or "1h30m" into a time.Duration.
// A bare "0" is accepted as zero. Negative spans are rejected.
func Parse(value string) (time.Duration, error) {
	input := strings.TrimSpace(value)
	if input == "" {
		return 0, fmt.Errorf("timespan: empty value")
	}
	if input == "0" {
		return 0, nil
	}

	var total time.Duration
	rest := input
	for rest != "" {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			break
		}
		digits := leading(rest, func(r rune) bool { return unicode.IsDigit(r) })
		if digits == "" {
			return 0, fmt.Errorf("timespan %q: expected number at %q", input, rest)
		}
		rest = strings.TrimLeftFunc(rest[len(digits):], unicode.IsSpace)
		unit := leading(rest, func(r rune) bool { return unicode.IsLetter(r) || r == 'µ' })
		if unit == "" {
			return 0, fmt.Errorf("timespan %q: missing unit after %s", input, digits)
		}
		rest = rest[len(unit):]

		scale, ok := units[unit]
		if !ok {
			// "M" is the only case-sensitive unit; everything else folds.
			scale, ok = units[strings.ToLower(unit)]
		}
		if !ok {
			return 0, fmt.Errorf("timespan %q: unknown unit %q", input, unit)
		}
		n, err := strconv.ParseUint(digits, 10, 63)
		if err != nil {
			return 0, fmt.Errorf("timespan %q: %w", input, err)
		}
		if n > uint64(math.MaxInt64/int64(scale)) {
			return 0, fmt.Errorf("timespan %q: value out of range", input)
		}
		part := time.Duration(n) * scale
		if total > math.MaxInt64-part {
			return 0, fmt.Errorf("timespan %q: value out of range", input)
		}
		total += part
	}
	return total, nil
}

func leading(s string, keep func(rune) bool) string {
	for i, r := range s {
		if !keep(r) {
			return s[:i]
		}
	}
	return s
}

// Format renders d using the largest whole units first, e.g. "12d 3h 5m".
// Sub-second remainders are rounded away.
func Format(d time.Duration) string {
	if d < 0 {
		return "-" + Format(-d)
	}
	d = d.Round(time.Second)
	if d == 0 {
		return "0s"
	}
	parts := make([]string, 0, 4)
	for _, step := range []struct {
		size  time.Duration
		label string
	}{{day, "d"}, {time.Hour, "h"}, {time.Minute, "m"}, {time.Second, "s"}} {
		if d >= step.size {
			n := d / step.size
			d -= n * step.size
			parts = append(parts, strconv.FormatInt(int64(n), 10)+step.label)
		}
	}
	return strings.Join(parts, " ")
}

// Duration is a time.Duration that reads and writes the span syntax in TOML
// files and on the command line.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return Format(time.Duration(d)) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

var _ pflag.Value = (*Duration)(nil)

// Set implements pflag.Value.
func (d *Duration) Set(value string) error {
	return d.UnmarshalText([]byte(value))
}

// Type implements pflag.Value.
func (d *Duration) Type() string { return "timespan" }
