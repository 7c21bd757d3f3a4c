package generator

import "time"

// TradingDays returns every US exchange trading day in [start, end], oldest first.
// It excludes Saturdays, Sundays, and NYSE full-day holidays.
func TradingDays(start, end time.Time) []time.Time {
	start, end = truncateToDate(start), truncateToDate(end)
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if isTradingDayUS(d) {
			out = append(out, d)
		}
	}
	return out
}

// isTradingDayUS returns true if date is a trading day on US exchanges.
func isTradingDayUS(d time.Time) bool {
	// Weekend
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := holidaysUS(d.Year())[truncateToDate(d)]
	return !holiday
}

// holidaysUS lists the NYSE full-day closures for a year.
func holidaysUS(y int) map[time.Time]struct{} {
	days := []time.Time{
		newYearObserved(y),
		nthWeekday(y, time.January, time.Monday, 3),    // Martin Luther King Jr. Day
		nthWeekday(y, time.February, time.Monday, 3),   // Washington's Birthday
		easterSunday(y).AddDate(0, 0, -2),              // Good Friday
		lastWeekday(y, time.May, time.Monday),          // Memorial Day
		observed(date(y, time.July, 4)),                // Independence Day
		nthWeekday(y, time.September, time.Monday, 1),  // Labor Day
		nthWeekday(y, time.November, time.Thursday, 4), // Thanksgiving
		observed(date(y, time.December, 25)),           // Christmas
	}
	if y >= 2022 {
		days = append(days, observed(date(y, time.June, 19))) // Juneteenth
	}

	out := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		out[d] = struct{}{}
	}
	return out
}

// newYearObserved moves a Sunday New Year to Monday. A Saturday New Year is
// not observed on the preceding Friday.
func newYearObserved(y int) time.Time {
	d := date(y, time.January, 1)
	if d.Weekday() == time.Sunday {
		return d.AddDate(0, 0, 1)
	}
	return d
}

// observed shifts Saturday holidays to Friday and Sunday holidays to Monday.
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func nthWeekday(y int, m time.Month, wd time.Weekday, n int) time.Time {
	d := date(y, m, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(n-1))
}

func lastWeekday(y int, m time.Month, wd time.Weekday) time.Time {
	d := date(y, m+1, 1).AddDate(0, 0, -1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return date(year, time.Month(month), day)
}
