package domain

import "sort"

// Sort returns sessions ordered by day, then start time, then insertion
// order. The input slice is left untouched.
func Sort(sessions []ClassSession) []ClassSession {
	sorted := make([]ClassSession, len(sessions))
	copy(sorted, sessions)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sessionLess(sorted[i], sorted[j])
	})

	return sorted
}

func sessionLess(a, b ClassSession) bool {
	dayA, _ := a.Day.Index()
	dayB, _ := b.Day.Index()
	if dayA != dayB {
		return dayA < dayB
	}
	if a.Start != b.Start {
		return a.Start.Minutes() < b.Start.Minutes()
	}
	return a.Seq < b.Seq
}

func FilterByDay(sessions []ClassSession, day Weekday) []ClassSession {
	filtered := make([]ClassSession, 0, len(sessions))
	for _, session := range sessions {
		if session.Day == day {
			filtered = append(filtered, session)
		}
	}
	return filtered
}
