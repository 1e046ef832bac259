// =============================================================================
// SEA GAME - HEADLESS RUNNER
// =============================================================================
// Plays missions with the built-in autopilot at a fixed frame length and
// prints a report per seed. Useful for balancing and for reproducing a run:
// the same seed and frame length always give the same result.
//
// USAGE:
//
//	go run ./cmd/headless -seeds 1,2,3 -frame 16
//	go run ./cmd/headless -seeds 42 -png last.png -submit http://localhost:3000
//
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"sea-game/internal/game"
	"sea-game/internal/leaderboard"
	"sea-game/internal/logging"
	"sea-game/internal/mission"
	"sea-game/internal/render"
)

func main() {
	godotenv.Load(".env")

	seeds := flag.String("seeds", "1", "comma separated mission seeds")
	handle := flag.String("handle", "autopilot", "handle recorded on the mission")
	frameMs := flag.Float64("frame", 16, "simulated frame length in ms")
	maxTicks := flag.Int("ticks", 200_000, "give up after this many ticks")
	pngPath := flag.String("png", "", "write the final frame of the last run here")
	submitURL := flag.String("submit", os.Getenv("LEADERBOARD_URL"), "leaderboard base URL for won runs")
	eventLog := flag.String("events", "", "JSONL event log path")
	level := flag.String("log", "warn", "log level")
	flag.Parse()

	log := logging.New(*level, true)

	list, err := parseSeeds(*seeds)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Bad -seeds")
	}

	var client *leaderboard.Client
	if *submitURL != "" {
		client = leaderboard.NewClient(*submitURL, leaderboard.NewLocalCache("leaderboard-cache.json"), log)
	}

	var last mission.State
	wins := 0
	for _, seed := range list {
		start := time.Now()
		e := game.NewEngine(game.Config{
			Seed:       seed,
			Handle:     *handle,
			MaxDeltaMs: *frameMs,
			Log:        log,
		})
		if *eventLog != "" {
			if err := e.StartEventLog(*eventLog); err != nil {
				log.Warn().Err(err).Msg("⚠️ Event log disabled")
			}
		}

		res := game.RunAutopilot(e, game.NewAutopilot(), *frameMs, *maxTicks)
		e.StopEventLog()
		last = res.Final

		report(seed, res, time.Since(start))
		if res.Final.Phase == mission.PhaseWon {
			wins++
			if client != nil {
				submit(log, client, res.Final)
			}
		}
	}
	fmt.Printf("\n%d/%d missions delivered\n", wins, len(list))

	if *pngPath != "" {
		if err := writeFrame(*pngPath, last); err != nil {
			log.Error().Err(err).Msg("❌ Frame not written")
			os.Exit(1)
		}
		fmt.Printf("🖼  final frame: %s\n", *pngPath)
	}
}

func parseSeeds(raw string) ([]uint64, error) {
	var out []uint64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", part, err)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no seeds given")
	}
	return out, nil
}

func report(seed uint64, res game.RunResult, took time.Duration) {
	s := res.Final
	fmt.Printf("seed %-6d %-7s outcome=%-9s day=%-2d ticks=%-6d suits=%-2d score=%.0fms (%s)\n",
		seed, s.Phase, s.Outcome, s.DayIndex, res.Ticks, len(s.Suits), s.ScoreMs, took.Round(time.Millisecond))

	names := make([]string, 0, len(res.Actions))
	for a := range res.Actions {
		names = append(names, string(a))
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("    %-10s %d\n", n, res.Actions[mission.Action(n)])
	}
	if s.Reason != "" {
		fmt.Printf("    reason: %s\n", s.Reason)
	}
}

func submit(log zerolog.Logger, client *leaderboard.Client, s mission.State) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := client.SubmitScore(ctx, leaderboard.Submission{
		Username:   s.Profile.Handle,
		DurationMs: s.ScoreMs,
		DayCount:   s.DayIndex,
	})
	if rec == nil {
		log.Warn().Msg("⚠️ Score not recorded")
		return
	}
	fmt.Printf("    🏆 recorded as %s\n", rec.ID)
}

func writeFrame(path string, s mission.State) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.New(0, 0).EncodePNG(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
