package scoring

import "sort"

// Rank orders summaries by total points descending. The sort is stable,
// so equal totals keep their input order, and the input slice is left
// untouched. Ranking an already ranked slice returns the same order.
func Rank(summaries []TeamSummary) []TeamSummary {
	ranked := make([]TeamSummary, len(summaries))
	copy(ranked, summaries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})

	return ranked
}

// StandingRow pairs a ranked summary with its 1-based position.
type StandingRow struct {
	Rank    int
	Summary TeamSummary
}

// Standings ranks summaries and numbers the result. Equal totals get
// distinct consecutive ranks in input order, not shared ranks.
func Standings(summaries []TeamSummary) []StandingRow {
	ranked := Rank(summaries)
	rows := make([]StandingRow, len(ranked))
	for i, s := range ranked {
		rows[i] = StandingRow{Rank: i + 1, Summary: s}
	}

	return rows
}
