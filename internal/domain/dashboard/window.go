package dashboard

import "time"

const dateLayout = "2006-01-02"

// MaxDays bounds the length of a daily series
const MaxDays = 366

// Window is a half-open day interval [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// Date returns the window's start date as YYYY-MM-DD
func (w Window) Date() string {
	return w.Start.Format(dateLayout)
}

// Today returns the window holding now
func Today(now time.Time) Window {
	return dayWindow(now, 0)
}

// Windows returns n consecutive day windows in now's location, oldest first.
// The last window starts at today's midnight.
func Windows(now time.Time, n int) ([]Window, error) {
	if n < 1 || n > MaxDays {
		return nil, ErrInvalidDays
	}

	windows := make([]Window, n)
	for i := 0; i < n; i++ {
		windows[i] = dayWindow(now, i-(n-1))
	}
	return windows, nil
}

func dayWindow(now time.Time, offset int) Window {
	y, m, d := now.Date()
	loc := now.Location()
	return Window{
		Start: time.Date(y, m, d+offset, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+offset+1, 0, 0, 0, 0, loc),
	}
}
