package httpapi

import (
	"time"

	"github.com/stavrosdim/hooprank/internal/domain/scoring"
	"github.com/stavrosdim/hooprank/internal/usecase"
)

type teamDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type standingRowDTO struct {
	Rank        int     `json:"rank"`
	TeamID      int64   `json:"team_id"`
	TeamName    string  `json:"team_name"`
	TotalPoints float64 `json:"total_points"`
	PlayerCount int     `json:"player_count"`
	FetchFailed bool    `json:"fetch_failed"`
	FetchError  string  `json:"fetch_error,omitempty"`
}

type rankingRunDTO struct {
	RunID       string           `json:"run_id"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	WorkerCount int              `json:"worker_count"`
	TeamCount   int              `json:"team_count"`
	FailedCount int              `json:"failed_count"`
	Standings   []standingRowDTO `json:"standings"`
}

type playerBreakdownDTO struct {
	Name        string  `json:"name"`
	Position    string  `json:"position"`
	Club        string  `json:"club"`
	BasePoints  float64 `json:"base_points"`
	Modifiers   string  `json:"modifiers"`
	FinalPoints float64 `json:"final_points"`
	Quotation   float64 `json:"quotation"`
	IsCaptain   bool    `json:"is_captain"`
	OnBench     bool    `json:"on_bench"`
}

type teamPreviewDTO struct {
	TeamID      int64                `json:"team_id"`
	TeamName    string               `json:"team_name"`
	TotalPoints float64              `json:"total_points"`
	PlayerCount int                  `json:"player_count"`
	Players     []playerBreakdownDTO `json:"players"`
}

func rankingRunToDTO(run usecase.RankingRun) rankingRunDTO {
	rows := make([]standingRowDTO, 0, len(run.Standings))
	for _, row := range run.Standings {
		dto := standingRowDTO{
			Rank:        row.Rank,
			TeamID:      row.Summary.TeamID,
			TeamName:    row.Summary.TeamName,
			TotalPoints: row.Summary.TotalPoints,
			PlayerCount: row.Summary.PlayerCount,
		}
		if row.Summary.FetchErr != nil {
			dto.FetchFailed = true
			dto.FetchError = row.Summary.FetchErr.Error()
		}
		rows = append(rows, dto)
	}

	return rankingRunDTO{
		RunID:       run.RunID,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		WorkerCount: run.WorkerCount,
		TeamCount:   run.TeamCount,
		FailedCount: run.FailedCount,
		Standings:   rows,
	}
}

func teamPreviewToDTO(summary scoring.TeamSummary, breakdown []usecase.PlayerBreakdown) teamPreviewDTO {
	players := make([]playerBreakdownDTO, 0, len(breakdown))
	for _, item := range breakdown {
		players = append(players, playerBreakdownDTO{
			Name:        item.Player.FullName(),
			Position:    item.Player.Position,
			Club:        item.Player.ClubAbbr,
			BasePoints:  item.BasePoints,
			Modifiers:   item.Modifiers,
			FinalPoints: item.FinalPoints,
			Quotation:   item.Player.Quotation,
			IsCaptain:   item.Player.IsCaptain,
			OnBench:     item.Player.OnBench(),
		})
	}

	return teamPreviewDTO{
		TeamID:      summary.TeamID,
		TeamName:    summary.TeamName,
		TotalPoints: summary.TotalPoints,
		PlayerCount: summary.PlayerCount,
		Players:     players,
	}
}
