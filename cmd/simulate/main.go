// Command simulate plays headless AI-versus-AI batches and prints the
// aggregate outcomes, for rule and balance experiments.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/gutlands/gutlands-server-go/internal/game"
	"github.com/gutlands/gutlands-server-go/internal/game/cards"
	"github.com/gutlands/gutlands-server-go/internal/game/rules"
	"github.com/gutlands/gutlands-server-go/internal/random"
	"github.com/gutlands/gutlands-server-go/internal/series"
)

var (
	matchCount = flag.Int("matches", 100, "number of matches to simulate")
	goodDiff   = flag.String("good", "hard", "good AI difficulty (easy, medium, hard)")
	badDiff    = flag.String("bad", "hard", "bad AI difficulty (easy, medium, hard)")
	seed       = flag.Int64("seed", 0, "randomness seed (0 picks a fresh one)")
	turnLimit  = flag.Int("turn-limit", 100, "per-match turn limit (0 for unlimited)")
	verbose    = flag.Bool("verbose", false, "log every simulated match")
)

func main() {
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	catalog, err := cards.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load card catalog: %v\n", err)
		os.Exit(1)
	}

	actualSeed := *seed
	var src *random.Source
	if actualSeed == 0 {
		src, actualSeed, err = random.NewSeededSource()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed randomness: %v\n", err)
			os.Exit(1)
		}
	} else {
		src = random.NewSource(actualSeed)
	}

	settings := rules.DefaultSettings()
	settings.TurnLimit = *turnLimit

	runner := series.NewRunner(
		settings,
		catalog,
		game.ParseDifficulty(*goodDiff),
		game.ParseDifficulty(*badDiff),
		src,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Simulating %d matches (good=%s, bad=%s, seed=%d)...\n",
		*matchCount, game.ParseDifficulty(*goodDiff), game.ParseDifficulty(*badDiff), actualSeed)

	summary, err := runner.Run(ctx, *matchCount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation stopped: %v\n", err)
		if summary == nil || summary.Matches == 0 {
			os.Exit(1)
		}
	}

	printSummary(summary)
}

func printSummary(s *series.Summary) {
	fmt.Println("\n=== Simulation Summary ===")
	fmt.Printf("Matches played:   %d\n", s.Matches)
	fmt.Printf("Good Bacteria:    %d wins (%.1f%%)\n", s.GoodWins, percent(s.GoodWins, s.Matches))
	fmt.Printf("Bad Bacteria:     %d wins (%.1f%%)\n", s.BadWins, percent(s.BadWins, s.Matches))
	fmt.Printf("Draws:            %d (%.1f%%)\n", s.Draws, percent(s.Draws, s.Matches))
	fmt.Printf("Average turns:    %.1f\n", s.AverageTurns)
	fmt.Printf("Longest match:    %d turns\n", s.LongestTurns)

	fmt.Println("\nOutcomes by condition:")
	for condition, count := range s.WinsByCondition {
		fmt.Printf("  %-20s %d\n", condition, count)
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
