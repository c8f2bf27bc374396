package gst

import "time"

// FiscalYear returns the Indian fiscal year containing d. The fiscal year
// runs April 1 through March 31, so a March date belongs to the previous
// calendar year's fiscal year.
func FiscalYear(d time.Time) int {
	if d.Month() >= time.April {
		return d.Year()
	}
	return d.Year() - 1
}

// FiscalYearWindow returns the inclusive [April 1, March 31] date window for
// a fiscal year, in UTC.
func FiscalYearWindow(year int) (start, end time.Time) {
	start = time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.March, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}
