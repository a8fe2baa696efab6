package habit

import "sort"

// Streak returns the current consecutive-day streak for a set of check-in
// days, as of today. A streak is only alive if its most recent day is today
// or yesterday; a missed day resets it to zero.
//
// The ledger guarantees at most one check-in per day, but duplicates are
// tolerated here anyway. Days use DayFormat, so lexicographic order is
// chronological order.
func Streak(days []string, today string) int {
	if len(days) == 0 {
		return 0
	}

	uniq := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			uniq = append(uniq, d)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(uniq)))

	t, err := parseDay(today)
	if err != nil {
		return 0
	}
	yesterday := DayOf(t.AddDate(0, 0, -1))
	if uniq[0] != today && uniq[0] != yesterday {
		return 0
	}

	expected, err := parseDay(uniq[0])
	if err != nil {
		return 0
	}

	streak := 0
	for _, d := range uniq {
		if d != DayOf(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}
