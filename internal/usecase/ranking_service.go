package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/stavrosdim/hooprank/internal/domain/roster"
	"github.com/stavrosdim/hooprank/internal/domain/scoring"
	"github.com/stavrosdim/hooprank/internal/platform/cache"
)

const rankingCacheKey = "rankings:latest"

// RosterProvider loads one fantasy team's roster from the upstream API.
type RosterProvider interface {
	FetchTeamPreview(ctx context.Context, teamID int64) ([]roster.Player, error)
}

// ProgressEvent reports one finished team fetch during a ranking run.
// Completed counts finished fetches, not the team's configured index.
type ProgressEvent struct {
	Team      roster.Team
	Completed int
	Total     int
	Err       error
}

// ProgressFunc observes ranking progress. Called from worker goroutines,
// serialized by the service, so implementations need no locking.
type ProgressFunc func(ProgressEvent)

type RankTeamsInput struct {
	MaxWorkers int
	Refresh    bool
	Progress   ProgressFunc
}

// RankingRun is one completed batch: every configured team fetched,
// aggregated and ranked.
type RankingRun struct {
	RunID       string                `json:"run_id"`
	StartedAt   time.Time             `json:"started_at"`
	FinishedAt  time.Time             `json:"finished_at"`
	WorkerCount int                   `json:"worker_count"`
	TeamCount   int                   `json:"team_count"`
	FailedCount int                   `json:"failed_count"`
	Standings   []scoring.StandingRow `json:"standings"`
}

type RankingServiceConfig struct {
	Teams      []roster.Team
	MaxWorkers int
}

type RankingService struct {
	provider RosterProvider
	teams    []roster.Team
	workers  int
	logger   *slog.Logger
	cache    *cache.Store

	now func() time.Time
}

func NewRankingService(provider RosterProvider, cfg RankingServiceConfig, store *cache.Store, logger *slog.Logger) *RankingService {
	if logger == nil {
		logger = slog.Default()
	}

	teams := make([]roster.Team, len(cfg.Teams))
	copy(teams, cfg.Teams)

	return &RankingService{
		provider: provider,
		teams:    teams,
		workers:  cfg.MaxWorkers,
		logger:   logger,
		cache:    store,
		now:      time.Now,
	}
}

// Teams returns the configured teams in configuration order.
func (s *RankingService) Teams() []roster.Team {
	out := make([]roster.Team, len(s.teams))
	copy(out, s.teams)
	return out
}

// RankTeams fetches every configured roster, aggregates and ranks them.
// A failed fetch degrades that team to zero points and the batch goes
// on; only a cancelled context aborts the run. Summaries are collected
// by configured position before ranking, so the final order never
// depends on which worker finished first.
func (s *RankingService) RankTeams(ctx context.Context, input RankTeamsInput) (RankingRun, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RankTeams")
	defer span.End()

	if s.provider == nil {
		return RankingRun{}, fmt.Errorf("%w: roster provider is not configured", ErrDependencyUnavailable)
	}
	if len(s.teams) == 0 {
		return RankingRun{}, fmt.Errorf("%w: no teams configured", ErrInvalidInput)
	}

	if s.cache != nil && input.Refresh {
		s.cache.Delete(ctx, rankingCacheKey)
	}

	// Progress callbacks make a cached replay meaningless, so those runs
	// always hit the provider.
	if s.cache != nil && input.Progress == nil {
		value, err := s.cache.GetOrLoad(ctx, rankingCacheKey, func(ctx context.Context) (any, error) {
			return s.rankTeamsUncached(ctx, input)
		})
		if err != nil {
			return RankingRun{}, err
		}
		run, ok := value.(RankingRun)
		if !ok {
			return RankingRun{}, fmt.Errorf("unexpected cached ranking type %T", value)
		}
		return run, nil
	}

	return s.rankTeamsUncached(ctx, input)
}

func (s *RankingService) rankTeamsUncached(ctx context.Context, input RankTeamsInput) (RankingRun, error) {
	workerCount := normalizeFetchWorkerCount(firstPositive(input.MaxWorkers, s.workers), len(s.teams))
	startedAt := s.now().UTC()

	summaries := make([]scoring.TeamSummary, len(s.teams))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RankingRun{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var progressMu sync.Mutex
	completed := 0
	reportProgress := func(team roster.Team, fetchErr error) {
		if input.Progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		completed++
		input.Progress(ProgressEvent{
			Team:      team,
			Completed: completed,
			Total:     len(s.teams),
			Err:       fetchErr,
		})
	}

	var workers sync.WaitGroup
	for i, team := range s.teams {
		i, team := i, team
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			outcome := s.fetchOutcome(ctx, team)
			summaries[i] = scoring.Aggregate(team, outcome)
			reportProgress(team, outcome.Err)
		}); err != nil {
			workers.Done()
			return RankingRun{}, fmt.Errorf("submit fetch to worker pool: %w", err)
		}
	}
	workers.Wait()

	if ctx.Err() != nil {
		return RankingRun{}, ctx.Err()
	}

	failedCount := 0
	for _, summary := range summaries {
		if summary.FetchErr != nil {
			failedCount++
		}
	}

	run := RankingRun{
		RunID:       uuid.NewString(),
		StartedAt:   startedAt,
		FinishedAt:  s.now().UTC(),
		WorkerCount: workerCount,
		TeamCount:   len(s.teams),
		FailedCount: failedCount,
		Standings:   scoring.Standings(summaries),
	}

	s.logger.InfoContext(ctx, "ranking run finished",
		"run_id", run.RunID,
		"team_count", run.TeamCount,
		"failed_count", run.FailedCount,
		"worker_count", run.WorkerCount,
		"duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	)

	return run, nil
}

func (s *RankingService) fetchOutcome(ctx context.Context, team roster.Team) scoring.FetchOutcome {
	players, err := s.provider.FetchTeamPreview(ctx, team.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "team fetch failed, scoring zero",
			"team", team.Name,
			"team_id", team.ID,
			"error", err,
		)
		return scoring.FetchOutcome{Err: err}
	}
	return scoring.FetchOutcome{Players: players}
}

// PlayerBreakdown is a scored roster entry for the detail views.
type PlayerBreakdown struct {
	Player      roster.Player `json:"player"`
	BasePoints  float64       `json:"base_points"`
	Modifiers   string        `json:"modifiers"`
	FinalPoints float64       `json:"final_points"`
}

// TeamPreview fetches a single configured team and scores each roster
// entry. Unlike RankTeams there is no degrade here: the caller asked
// for one team, so its fetch error surfaces directly.
func (s *RankingService) TeamPreview(ctx context.Context, teamID int64) (scoring.TeamSummary, []PlayerBreakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.TeamPreview")
	defer span.End()

	if s.provider == nil {
		return scoring.TeamSummary{}, nil, fmt.Errorf("%w: roster provider is not configured", ErrDependencyUnavailable)
	}

	team, ok := s.findTeam(teamID)
	if !ok {
		return scoring.TeamSummary{}, nil, fmt.Errorf("%w: team id=%d is not configured", ErrNotFound, teamID)
	}

	players, err := s.provider.FetchTeamPreview(ctx, team.ID)
	if err != nil {
		return scoring.TeamSummary{}, nil, fmt.Errorf("fetch preview team=%s: %w", team.Name, err)
	}

	summary := scoring.Aggregate(team, scoring.FetchOutcome{Players: players})
	breakdown := make([]PlayerBreakdown, 0, len(players))
	for _, p := range players {
		breakdown = append(breakdown, PlayerBreakdown{
			Player:      p,
			BasePoints:  p.Points,
			Modifiers:   scoring.Adjustments(p).Label(),
			FinalPoints: scoring.Score(p),
		})
	}

	return summary, breakdown, nil
}

func (s *RankingService) findTeam(teamID int64) (roster.Team, bool) {
	for _, team := range s.teams {
		if team.ID == teamID {
			return team, true
		}
	}
	return roster.Team{}, false
}

func normalizeFetchWorkerCount(value int, teamCount int) int {
	if teamCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > 8 {
		value = 8
	}
	if value > teamCount {
		value = teamCount
	}
	return value
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
