package timeline

const HoursPerDay = 24

// Timeline is the hourly occupancy bitmap of one seat over one or two
// consecutive days: index 24*dayOffset+h is 1 when any reservation covers
// hour h of that day, 0 when the hour is free.
type Timeline []byte

func New(days int) Timeline {
	if days < 1 {
		days = 1
	}
	return make(Timeline, days*HoursPerDay)
}

func (t Timeline) Days() int {
	return len(t) / HoursPerDay
}

// Mark sets the hours [fromHour, toHour) of the given day to occupied.
// Out-of-range hours are clamped, so a reservation running past the window
// edge marks only the visible part.
func (t Timeline) Mark(dayOffset, fromHour, toHour int) {
	if dayOffset < 0 || dayOffset >= t.Days() {
		return
	}
	if fromHour < 0 {
		fromHour = 0
	}
	if toHour > HoursPerDay {
		toHour = HoursPerDay
	}
	for h := fromHour; h < toHour; h++ {
		t[dayOffset*HoursPerDay+h] = 1
	}
}

func (t Timeline) Occupied(index int) bool {
	return index >= 0 && index < len(t) && t[index] == 1
}

func (t Timeline) AllFree() bool {
	for _, v := range t {
		if v != 0 {
			return false
		}
	}
	return true
}

// MaxFreeRun returns the length of the longest contiguous free block at or
// after index from. A seat with no occupied hours yields the full remaining
// window.
func (t Timeline) MaxFreeRun(from int) int {
	if from < 0 {
		from = 0
	}
	best, run := 0, 0
	for i := from; i < len(t); i++ {
		if t[i] == 0 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// FreeRunStart returns the start index of the first free block of at least n
// hours at or after index from, and whether one exists.
func (t Timeline) FreeRunStart(from, n int) (int, bool) {
	if n <= 0 {
		return from, false
	}
	if from < 0 {
		from = 0
	}
	run, start := 0, from
	for i := from; i < len(t); i++ {
		if t[i] == 0 {
			if run == 0 {
				start = i
			}
			run++
			if run == n {
				return start, true
			}
		} else {
			run = 0
		}
	}
	return 0, false
}
