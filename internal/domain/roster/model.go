package roster

import "fmt"

// Court slot encoding used by the upstream preview payload. Slots 1-6 are
// the starting lineup, 7-10 the bench, 11 the head coach.
const (
	CourtPositionBenchFirst = 7
	CourtPositionBenchLast  = 10
	CourtPositionCoach      = 11
)

// Player is a fully-defaulted roster entry. Wire payloads with absent
// fields are resolved before a Player is constructed, so consumers never
// have to null-check.
type Player struct {
	ID                int64
	FirstName         string
	LastName          string
	Position          string
	ClubAbbr          string
	Points            float64
	Quotation         float64
	IsCaptain         bool
	CaptainMultiplier float64
	CourtPosition     int
}

// FullName joins first and last name, tolerating either being empty.
func (p Player) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// OnBench reports whether the player occupies a bench slot.
func (p Player) OnBench() bool {
	return p.CourtPosition >= CourtPositionBenchFirst && p.CourtPosition <= CourtPositionBenchLast
}

// IsCoach reports whether the entry is the non-playing head coach slot.
func (p Player) IsCoach() bool {
	return p.CourtPosition == CourtPositionCoach
}

// Team is a configured fantasy team to rank. Configuration order is
// significant: it is the tie-break order for equal totals.
type Team struct {
	Name string
	ID   int64
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.ID <= 0 {
		return fmt.Errorf("team id must be positive: %q", t.Name)
	}

	return nil
}
