package scoring

import "github.com/stavrosdim/hooprank/internal/domain/roster"

// FetchOutcome is the result of one roster fetch attempt. Exactly one of
// Players or Err is meaningful; a non-nil Err means the fetch failed and
// the team degrades to a zero summary.
type FetchOutcome struct {
	Players []roster.Player
	Err     error
}

// Failed reports whether the outcome carries a fetch failure.
func (o FetchOutcome) Failed() bool {
	return o.Err != nil
}

// TeamSummary is one team's aggregated result. It is immutable once
// built: ranking reorders summaries, it never edits them.
type TeamSummary struct {
	TeamID      int64
	TeamName    string
	TotalPoints float64
	PlayerCount int
	Players     []roster.Player
	FetchErr    error
}

// Aggregate folds a fetch outcome into a TeamSummary. A failed outcome
// yields a zero-valued summary that still identifies the team, keeping
// the batch total comparable instead of aborting it. Summation runs
// left to right in roster order so equal inputs always produce the
// identical float result.
func Aggregate(team roster.Team, outcome FetchOutcome) TeamSummary {
	if outcome.Failed() {
		return TeamSummary{
			TeamID:   team.ID,
			TeamName: team.Name,
			FetchErr: outcome.Err,
		}
	}

	var total float64
	for _, p := range outcome.Players {
		total += Score(p)
	}

	return TeamSummary{
		TeamID:      team.ID,
		TeamName:    team.Name,
		TotalPoints: total,
		PlayerCount: len(outcome.Players),
		Players:     outcome.Players,
	}
}
