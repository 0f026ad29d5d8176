package timex

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// NotAvailable is what the formatters print for a missing or unparsable date.
const NotAvailable = "N/A"

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
	TimeLayout     = "15:04"
)

// localLayouts carry no zone information and are interpreted as server-local
// wall clock, same as the array form.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
}

// Normalize converts a backend date value into a time.Time. The boolean is
// false when the input is absent or malformed; Normalize never panics.
//
// Accepted inputs:
//   - time.Time and *time.Time
//   - [year, month, day, hour?, minute?, second?, nanosecond?] in any integer
//     or float slice, or []any as decoded from JSON; month is 1-based
//   - strings in RFC3339 or ISO local form, or numeric strings
//   - numbers, read as milliseconds since the Unix epoch
//   - DateLike and *DateLike
func Normalize(input any) (time.Time, bool) {
	switch v := input.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return checkRange(v)
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return checkRange(*v)
	case DateLike:
		return v.Time()
	case *DateLike:
		if v == nil {
			return time.Time{}, false
		}
		return v.Time()
	case []int:
		parts := make([]int64, len(v))
		for i, p := range v {
			parts[i] = int64(p)
		}
		return fromParts(parts)
	case []int64:
		return fromParts(v)
	case []float64:
		parts := make([]int64, len(v))
		for i, p := range v {
			n, ok := wholeNumber(p)
			if !ok {
				return time.Time{}, false
			}
			parts[i] = n
		}
		return fromParts(parts)
	case []any:
		parts := make([]int64, len(v))
		for i, p := range v {
			n, ok := anyToInt(p)
			if !ok {
				return time.Time{}, false
			}
			parts[i] = n
		}
		return fromParts(parts)
	case string:
		return parseString(v)
	case int:
		return fromMillis(int64(v))
	case int64:
		return fromMillis(v)
	case float64:
		n, ok := wholeNumber(v)
		if !ok {
			return time.Time{}, false
		}
		return fromMillis(n)
	case json.Number:
		return parseString(v.String())
	default:
		return time.Time{}, false
	}
}

// FormatDate renders the date part, or NotAvailable.
func FormatDate(input any) string {
	return format(input, DateLayout)
}

// FormatDateTime renders date and time to the minute, or NotAvailable.
func FormatDateTime(input any) string {
	return format(input, DateTimeLayout)
}

// FormatTime renders the time of day, or NotAvailable.
func FormatTime(input any) string {
	return format(input, TimeLayout)
}

func format(input any, layout string) string {
	t, ok := Normalize(input)
	if !ok {
		return NotAvailable
	}
	return t.Format(layout)
}

func fromParts(p []int64) (time.Time, bool) {
	if len(p) < 3 || len(p) > 7 {
		return time.Time{}, false
	}
	field := func(i int) int64 {
		if i < len(p) {
			return p[i]
		}
		return 0
	}

	year, month, day := field(0), field(1), field(2)
	hour, minute, sec, nsec := field(3), field(4), field(5), field(6)

	if year == 0 || month == 0 || day == 0 {
		return time.Time{}, false
	}
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || sec < 0 || sec > 59 {
		return time.Time{}, false
	}
	if nsec < 0 || nsec > 999_999_999 {
		return time.Time{}, false
	}

	ms := nsec / 1_000_000
	t := time.Date(int(year), time.Month(month), int(day), int(hour), int(minute), int(sec),
		int(ms)*int(time.Millisecond), time.Local)

	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject instead.
	if t.Day() != int(day) || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if len(s) == 4 || len(s) == 8 {
			return parseCompact(s)
		}
		return fromMillis(n)
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return checkRange(t)
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return checkRange(t)
		}
	}
	return time.Time{}, false
}

// parseCompact reads a bare year ("2024") or a compact date ("20240315")
// in local time. Longer digit strings are epoch milliseconds.
func parseCompact(s string) (time.Time, bool) {
	var layout string
	switch len(s) {
	case 4:
		layout = "2006"
	case 8:
		layout = "20060102"
	default:
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(layout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return checkRange(t)
}

// maxMillis bounds epoch values to the 8.64e15 ms range browsers accept.
const maxMillis = 8_640_000_000_000_000

func fromMillis(ms int64) (time.Time, bool) {
	if ms > maxMillis || ms < -maxMillis {
		return time.Time{}, false
	}
	return checkRange(time.UnixMilli(ms))
}

func checkRange(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	if y := t.Year(); y < 1 || y > 9999 {
		return time.Time{}, false
	}
	return t, true
}

func wholeNumber(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func anyToInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return wholeNumber(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// DateLike is a JSON field that accepts whatever shape a backend uses for a
// timestamp: a 7-tuple array, an ISO string, epoch millis, or null.
type DateLike struct {
	raw json.RawMessage
}

// NewDateLike wraps a time for outgoing payloads and tests.
func NewDateLike(t time.Time) DateLike {
	b, _ := json.Marshal(t.Format(time.RFC3339Nano))
	return DateLike{raw: b}
}

func (d *DateLike) UnmarshalJSON(b []byte) error {
	d.raw = append(d.raw[:0], b...)
	return nil
}

func (d DateLike) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("null"), nil
	}
	return d.raw, nil
}

// Time normalizes the stored value. Decoding problems are reported as an
// invalid date, never as an error.
func (d DateLike) Time() (time.Time, bool) {
	raw := bytes.TrimSpace(d.raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return time.Time{}, false
	}
	return Normalize(v)
}

// IsZero reports whether the field was absent or null.
func (d DateLike) IsZero() bool {
	raw := bytes.TrimSpace(d.raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func (d DateLike) String() string {
	return FormatDateTime(d)
}
