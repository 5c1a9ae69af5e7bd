package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/pipeline"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/scheduler"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/script"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/store"
	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/topics"
)

const usage = `Usage: shorts [flags] <command>

Commands:
  run              execute the pipeline once
  schedule         run the pipeline on the configured cron schedule
  validate-config  check configuration and credentials, then exit
  test             probe external tools and credentials, then exit

Flags:
  -config string   path to config file (default "config.yaml")
  -debug           generate everything but skip the upload
`

func main() {
	// Load .env (local dev only — CI uses real env)
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "skip upload, log the full script")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch flag.Arg(0) {
	case "run":
		os.Exit(runOnce(ctx, cfg, *debug))
	case "schedule":
		os.Exit(runScheduled(ctx, cfg, *debug))
	case "validate-config":
		os.Exit(validateConfig(cfg, *debug))
	case "test":
		os.Exit(testSystem(cfg))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}
}

func runOnce(ctx context.Context, cfg *config.Config, debug bool) int {
	if err := cfg.Validate(debug); err != nil {
		log.Printf("❌ Config invalid: %v", err)
		return 1
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("❌ Failed to create dir %s: %v", dir, err)
			return 1
		}
	}

	history, err := store.OpenHistory(cfg.Paths.Database)
	if err != nil {
		log.Printf("⚠️ History unavailable, continuing without it: %v", err)
		history = nil
	} else {
		defer history.Close()
	}

	orch := pipeline.New(cfg, history, debug)
	run, err := orch.Execute(ctx)
	if err != nil {
		log.Printf("❌ Pipeline error: %v", err)
		return 1
	}
	if !run.Succeeded() && run.Status != pipeline.StatusNoTopics {
		return 1
	}
	return 0
}

func runScheduled(ctx context.Context, cfg *config.Config, debug bool) int {
	if err := cfg.Validate(debug); err != nil {
		log.Printf("❌ Config invalid: %v", err)
		return 1
	}

	sched := scheduler.New(cfg.Schedule, func(ctx context.Context) {
		runOnce(ctx, cfg, debug)
	})
	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		log.Printf("❌ Scheduler error: %v", err)
		return 1
	}
	return 0
}

func validateConfig(cfg *config.Config, debug bool) int {
	if err := cfg.Validate(debug); err != nil {
		fmt.Printf("✗ %v\n", err)
		return 1
	}
	fmt.Println("✓ config valid")
	fmt.Printf("✓ sources: %v\n", cfg.Topics.Sources)
	fmt.Printf("✓ schedule: %q (%s)\n", cfg.Schedule.CronExpression, cfg.Schedule.Timezone)
	return 0
}

// testSystem probes the external pieces the pipeline leans on. Failures are
// reported but only tool absence is fatal: missing optional credentials just
// mean fallbacks will carry those stages.
func testSystem(cfg *config.Config) int {
	ok := true

	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			fmt.Printf("✗ %s not found\n", tool)
			ok = false
		} else {
			fmt.Printf("✓ %s\n", tool)
		}
	}
	if _, err := exec.LookPath("edge-tts"); err != nil {
		fmt.Println("⚠ edge-tts not found (voiceover will use fallback)")
	} else {
		fmt.Println("✓ edge-tts")
	}

	checks := []struct {
		name string
		set  bool
	}{
		{"OPENAI_API_KEY", cfg.Credentials.OpenAIAPIKey != ""},
		{"PEXELS_API_KEY", cfg.Credentials.PexelsAPIKey != ""},
		{"YOUTUBE_API_KEY", cfg.Credentials.YouTubeAPIKey != ""},
		{"YOUTUBE_CLIENT_ID", cfg.Credentials.YouTubeClientID != ""},
		{"YOUTUBE_CLIENT_SECRET", cfg.Credentials.YouTubeClientSecret != ""},
		{"YOUTUBE_REFRESH_TOKEN", cfg.Credentials.YouTubeRefreshToken != ""},
	}
	for _, c := range checks {
		if c.set {
			fmt.Printf("✓ %s set\n", c.name)
		} else {
			fmt.Printf("⚠ %s not set\n", c.name)
		}
	}

	history, err := store.OpenHistory(cfg.Paths.Database)
	if err != nil {
		fmt.Printf("✗ history db: %v\n", err)
		ok = false
	} else {
		history.Close()
		fmt.Printf("✓ history db: %s\n", cfg.Paths.Database)
	}

	if !smokeTest(cfg) {
		ok = false
	}

	if !ok {
		return 1
	}
	return 0
}

// smokeTest runs the offline half of the pipeline on a synthetic topic:
// rank, select, and template script. No network, no external tools.
func smokeTest(cfg *config.Config) bool {
	raw := []topics.RawTopic{{
		Title:       "The hidden life of deep sea creatures",
		Description: "How animals survive in total darkness",
		Source:      "google_trends",
		Score:       60,
	}}

	processor := topics.NewProcessor(cfg.Topics, nil)
	ranked := processor.Process(raw)
	best, okBest := processor.BestTopic(ranked)
	if !okBest {
		fmt.Println("✗ topic engine produced no candidate from the smoke batch")
		return false
	}
	fmt.Printf("✓ topic engine: %q (%s, %s)\n", best.DisplayTitle, best.ContentType, best.Difficulty)

	gen := script.NewGeneratorWithStrategies(cfg.Script, script.NewTemplateStrategy(cfg.Script))
	sc, err := gen.Generate(context.Background(), best)
	if err != nil {
		fmt.Printf("✗ template script: %v\n", err)
		return false
	}
	fmt.Printf("✓ template script: %d words, ~%ds\n", sc.WordCount, sc.EstimatedDuration)
	return true
}
