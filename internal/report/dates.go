package report

import "time"

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampedDate builds a date with the day clamped to the month's last day.
func clampedDate(year int, month time.Month, day int) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// previousMonth subtracts one calendar month, clamping the day to the
// target month's length (Mar 31 -> Feb 28/29).
func previousMonth(d time.Time) time.Time {
	year, month := d.Year(), d.Month()
	if month == time.January {
		year, month = year-1, time.December
	} else {
		month--
	}
	return clampedDate(year, month, d.Day())
}

// previousYear subtracts one year, clamping Feb 29 to day 28.
func previousYear(d time.Time) time.Time {
	day := d.Day()
	if d.Month() == time.February && day == 29 {
		day = 28
	}
	return time.Date(d.Year()-1, d.Month(), day, 0, 0, 0, 0, time.UTC)
}
