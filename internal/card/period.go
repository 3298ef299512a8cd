package card

import "time"

// Period is one billing cycle: charges dated in [Start, End] belong to
// the statement due on DueDate.
type Period struct {
	Start      time.Time
	End        time.Time
	DueDate    time.Time
	ClosingDay int
}

// ComputePeriod derives the billing cycle containing the anchor month.
// The period ends on the closing day of the anchor month (clamped to the
// month's last day) and starts the day after the previous closing. The
// due date falls in the following month unless the due day is later than
// the closing day, in which case the cycle closes and falls due within
// the same month.
func ComputePeriod(anchor time.Time, closingDay, dueDay int) Period {
	year, month := anchor.Year(), anchor.Month()
	end := clampedDate(year, month, closingDay)

	prevYear, prevMonth := year, month-1
	if month == time.January {
		prevYear, prevMonth = year-1, time.December
	}
	start := clampedDate(prevYear, prevMonth, closingDay).AddDate(0, 0, 1)

	dueYear, dueMonth := year, month
	if dueDay <= closingDay {
		dueYear, dueMonth = year, month+1
		if month == time.December {
			dueYear, dueMonth = year+1, time.January
		}
	}
	return Period{
		Start:      start,
		End:        end,
		DueDate:    clampedDate(dueYear, dueMonth, dueDay),
		ClosingDay: closingDay,
	}
}

func clampedDate(year int, month time.Month, day int) time.Time {
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
