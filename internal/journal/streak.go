package journal

// Chain returns the number of consecutive calendar days with entries,
// walking backward one day at a time starting at from, stopping at the
// first missing day. Zero if from itself has no entry.
func Chain(days []string, from string) int {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}

	n := 0
	for cursor := from; set[cursor]; cursor = PrevDayKey(cursor) {
		n++
	}
	return n
}

// ActiveStreak returns the current streak derived from the entry day set.
// The streak is active only while the newest entry is today or yesterday;
// a missed day breaks it regardless of how long the chain behind it is.
func ActiveStreak(days []string, today string) int {
	if len(days) == 0 {
		return 0
	}

	newest := days[0]
	for _, d := range days[1:] {
		if d > newest {
			newest = d
		}
	}

	if newest != today && newest != PrevDayKey(today) {
		return 0
	}
	return Chain(days, newest)
}

// applyQualifying updates the streak counters for a qualifying save landing
// on day today. Idempotent when the day is already recorded; a gap (the
// previous qualifying day is not the day before) closes the old run into
// LastRunStreak before the counter restarts at 1.
func (st *State) applyQualifying(today string) {
	switch st.StreakLastDay {
	case today:
		// Already counted for this day. The gate prevents a true duplicate
		// entry, so this only guards against redundant counter updates.
	case PrevDayKey(today):
		st.StreakCount++
	case "":
		st.StreakCount = 1
	default:
		st.LastRunStreak = st.StreakCount
		st.StreakCount = 1
	}

	if st.StreakCount > st.BestStreak {
		st.BestStreak = st.StreakCount
	}
	st.StreakLastDay = today
}
