package renewal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/orris-inc/subtrack/internal/shared/calendar"
)

// Bucket is a coarse label for the time left before expiry.
type Bucket string

const (
	BucketNone    Bucket = ""
	BucketToday   Bucket = "Today"
	BucketDays    Bucket = "Days"
	BucketMonths  Bucket = "Months"
	BucketYears   Bucket = "Years"
	BucketExpired Bucket = "Expired"
	BucketOverDue Bucket = "Over-Due"
)

var ValidBuckets = map[Bucket]bool{
	BucketToday:   true,
	BucketDays:    true,
	BucketMonths:  true,
	BucketYears:   true,
	BucketExpired: true,
	BucketOverDue: true,
}

func (b Bucket) String() string {
	return string(b)
}

// IsPast reports whether the bucket marks an expiry that has gone by.
func (b Bucket) IsPast() bool {
	return b == BucketExpired || b == BucketOverDue
}

// Classification is the result of classifying an expiry against now.
type Classification struct {
	Bucket    Bucket
	Remaining string
	Years     int
	Months    int
	Days      int
}

// Classify buckets the time between now and expiry. Past expiries are
// labelled Expired.
func Classify(now time.Time, expiry *time.Time) Classification {
	return classify(now, expiry, BucketExpired)
}

// ClassifyDue is Classify for the due-window view, where past expiries are
// labelled Over-Due.
func ClassifyDue(now time.Time, expiry *time.Time) Classification {
	return classify(now, expiry, BucketOverDue)
}

func classify(now time.Time, expiry *time.Time, pastLabel Bucket) Classification {
	if expiry == nil {
		return Classification{}
	}
	if calendar.Before(*expiry, now) {
		return Classification{Bucket: pastLabel, Remaining: string(pastLabel)}
	}

	y, m, d := calendar.Diff(now, *expiry)
	c := Classification{Years: y, Months: m, Days: d, Remaining: FormatRemaining(y, m, d)}
	switch {
	case y > 0:
		c.Bucket = BucketYears
	case m > 0:
		c.Bucket = BucketMonths
	case d > 0:
		c.Bucket = BucketDays
	default:
		c.Bucket = BucketToday
	}
	return c
}

// FormatRemaining renders "1 yr, 2 mos, 3 days" style text, or "Today" when
// every component is zero.
func FormatRemaining(years, months, days int) string {
	parts := make([]string, 0, 3)
	if years > 0 {
		parts = append(parts, plural(years, "yr"))
	}
	if months > 0 {
		parts = append(parts, plural(months, "mo"))
	}
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if len(parts) == 0 {
		return "Today"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// DaysUntil is the number of days from now to expiry rounded up, negative
// once the expiry has passed.
func DaysUntil(now, expiry time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}
