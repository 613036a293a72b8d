package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/stavrosdim/hooprank/internal/app"
	"github.com/stavrosdim/hooprank/internal/config"
	"github.com/stavrosdim/hooprank/internal/domain/scoring"
	"github.com/stavrosdim/hooprank/internal/platform/logging"
	"github.com/stavrosdim/hooprank/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

func main() {
	details := flag.Bool("details", false, "print per-player scoring for every team")
	workers := flag.Int("workers", 0, "fetch worker count (0 uses RANK_FETCH_WORKERS)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall run timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.SlogLevel(cfg.LogLevel),
	}))

	svc := app.NewRankingService(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	run, err := svc.RankTeams(ctx, usecase.RankTeamsInput{
		MaxWorkers: *workers,
		Progress: func(ev usecase.ProgressEvent) {
			if ev.Err != nil {
				fmt.Fprintf(os.Stderr, "[%d/%d] %s: fetch failed, scoring zero (%v)\n", ev.Completed, ev.Total, ev.Team.Name, ev.Err)
				return
			}
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", ev.Completed, ev.Total, ev.Team.Name)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ranking failed: %v\n", err)
		os.Exit(1)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	renderRun(buf, run, *details)
	os.Stdout.Write(buf.Bytes())
}

func renderRun(buf *bytebufferpool.ByteBuffer, run usecase.RankingRun, details bool) {
	tw := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTEAM\tPOINTS\tPLAYERS\tSTATUS")
	for _, row := range run.Standings {
		status := "ok"
		if row.Summary.FetchErr != nil {
			status = "fetch failed"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			row.Rank,
			row.Summary.TeamName,
			formatPoints(row.Summary.TotalPoints),
			row.Summary.PlayerCount,
			status,
		)
	}
	tw.Flush()

	fmt.Fprintf(buf, "\nTop teams:\n")
	for _, row := range run.Standings {
		if row.Rank > 3 {
			break
		}
		fmt.Fprintf(buf, "  %d. %s (%s pts)\n", row.Rank, row.Summary.TeamName, formatPoints(row.Summary.TotalPoints))
	}

	if details {
		for _, row := range run.Standings {
			renderTeamDetails(buf, row)
		}
	}

	fmt.Fprintf(buf, "\nrun %s: %d teams, %d failed, %d workers, took %s\n",
		run.RunID, run.TeamCount, run.FailedCount, run.WorkerCount,
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
	)
}

func renderTeamDetails(buf *bytebufferpool.ByteBuffer, row scoring.StandingRow) {
	fmt.Fprintf(buf, "\n%s\n", row.Summary.TeamName)
	if row.Summary.FetchErr != nil {
		fmt.Fprintf(buf, "  roster unavailable: %v\n", row.Summary.FetchErr)
		return
	}

	tw := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  PLAYER\tPOS\tCLUB\tBASE\tMOD\tFINAL")
	for _, p := range row.Summary.Players {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			p.FullName(),
			p.Position,
			p.ClubAbbr,
			formatPoints(p.Points),
			scoring.Adjustments(p).Label(),
			formatPoints(scoring.Score(p)),
		)
	}
	tw.Flush()
}

func formatPoints(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
