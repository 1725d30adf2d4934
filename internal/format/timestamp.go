package format

import "time"

// DateLayout is the display layout for transaction dates ("Mon DD, YYYY").
const DateLayout = "Jan 02, 2006"

// Timestamp formats epoch seconds in UTC.
func Timestamp(epoch int64) string {
	return TimestampIn(epoch, time.UTC)
}

// TimestampIn formats epoch seconds in loc.
func TimestampIn(epoch int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(epoch, 0).In(loc).Format(DateLayout)
}
