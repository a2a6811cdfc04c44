package utils

import "time"

// DateLayout is the wire format for all calendar dates (ISO 8601 date).
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DayCount returns the inclusive number of days between two ISO dates,
// e.g. 2024-01-01..2024-01-03 -> 3.
func DayCount(startDate, endDate string) (int, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// DateForDay returns the ISO date of the 1-based day offset from startDate.
func DateForDay(startDate string, day int) (string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return "", err
	}
	return start.AddDate(0, 0, day-1).Format(DateLayout), nil
}

func Today() string {
	return time.Now().Format(DateLayout)
}

func Tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(DateLayout)
}
