package dunkest

import (
	"strings"

	"github.com/stavrosdim/hooprank/internal/domain/roster"
)

// previewEnvelope mirrors the fantasy-team preview payload. Player fields
// the provider may omit are pointers; defaults are resolved here, at the
// decode boundary, so the domain only ever sees fully populated players.
type previewEnvelope struct {
	Data *previewData `json:"data"`
}

type previewData struct {
	Players []previewPlayer `json:"players"`
}

type previewPlayer struct {
	ID                int64          `json:"id"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Position          *namedRelation `json:"position"`
	Team              *clubRelation  `json:"team"`
	Points            *float64       `json:"pts"`
	Quotation         *float64       `json:"quotation"`
	IsCaptain         *bool          `json:"is_captain"`
	CaptainMultiplier *float64       `json:"captain_multiplier"`
	CourtPosition     *int           `json:"court_position"`
}

type namedRelation struct {
	Name string `json:"name"`
}

type clubRelation struct {
	Abbreviation string `json:"abbreviation"`
}

func mapPreviewPlayer(item previewPlayer) roster.Player {
	out := roster.Player{
		ID:                item.ID,
		FirstName:         strings.TrimSpace(item.FirstName),
		LastName:          strings.TrimSpace(item.LastName),
		CaptainMultiplier: 1,
	}
	if item.Position != nil {
		out.Position = strings.TrimSpace(item.Position.Name)
	}
	if item.Team != nil {
		out.ClubAbbr = strings.TrimSpace(item.Team.Abbreviation)
	}
	if item.Points != nil {
		out.Points = *item.Points
	}
	if item.Quotation != nil {
		out.Quotation = *item.Quotation
	}
	if item.IsCaptain != nil {
		out.IsCaptain = *item.IsCaptain
	}
	if item.CaptainMultiplier != nil {
		out.CaptainMultiplier = *item.CaptainMultiplier
	}
	if item.CourtPosition != nil {
		out.CourtPosition = *item.CourtPosition
	}

	return out
}

func mapPreviewPlayers(items []previewPlayer) []roster.Player {
	out := make([]roster.Player, 0, len(items))
	for _, item := range items {
		out = append(out, mapPreviewPlayer(item))
	}
	return out
}
