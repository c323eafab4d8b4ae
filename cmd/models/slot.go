package models

import "time"

// PlatformZone is the fixed offset all slot arithmetic runs in. Availability
// is declared in Brasília time and matched in it regardless of where the
// server or the client sits.
var PlatformZone = time.FixedZone("UTC-3", -3*60*60)

var weekdayIndex = [...]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

func WeekdayName(d time.Weekday) string {
	return weekdayIndex[int(d)]
}

// SlotOf maps an instant to the (weekday, hour) pair used against WeekHours.
func SlotOf(t time.Time) (weekday string, hour int) {
	local := t.In(PlatformZone)
	return WeekdayName(local.Weekday()), local.Hour()
}
