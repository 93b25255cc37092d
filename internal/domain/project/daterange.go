package project

import (
	"fmt"
	"time"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
)

const (
	dateOnlyLayout = "2006-01-02"
	instantLayout  = "2006-01-02T15:04:05.000Z07:00"
	humanLayout    = "Jan 2, 2006"
)

// DateRange holds the declared bounds of a project exactly as the caller
// supplied them. They label the project and are not re-validated against
// its clips.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseBound accepts "YYYY-MM-DD", read as midnight UTC, or an RFC 3339 instant.
func ParseBound(s string) (time.Time, error) {
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return t.UTC(), nil
}

// Bounds parses both ends. Either end empty is ErrMissingRange; an
// unparseable or inverted range is ErrInvalidRange.
func (r DateRange) Bounds() (time.Time, time.Time, error) {
	if r.Start == "" || r.End == "" {
		return time.Time{}, time.Time{}, ErrMissingRange
	}
	start, err := ParseBound(r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseBound(r.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, r.Start, r.End)
	}
	return start, end, nil
}

// Contains reports start <= ts <= end with ts in epoch milliseconds.
func Contains(start, end time.Time, ts int64) bool {
	return ts >= start.UnixMilli() && ts <= end.UnixMilli()
}

func FormatInstant(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(instantLayout)
}

func HumanDate(t time.Time) string {
	return t.UTC().Format(humanLayout)
}

// SelectionOrderRange takes the first and last items as given, not the
// earliest and latest. Out-of-order selections yield a range that may be
// inverted or may not cover every clip.
func SelectionOrderRange(items []media.Item) (DateRange, error) {
	if len(items) == 0 {
		return DateRange{}, ErrEmptySelection
	}
	return DateRange{
		Start: FormatInstant(items[0].Timestamp),
		End:   FormatInstant(items[len(items)-1].Timestamp),
	}, nil
}
