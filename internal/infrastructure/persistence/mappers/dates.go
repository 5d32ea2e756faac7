package mappers

import (
	"time"

	"gorm.io/datatypes"
)

func toDate(t time.Time) datatypes.Date {
	return datatypes.Date(t.UTC())
}

func toDatePtr(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := toDate(*t)
	return &d
}

// fromDate normalizes a stored DATE to UTC midnight.
func fromDate(d datatypes.Date) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func fromDatePtr(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := fromDate(*d)
	return &t
}
