package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/mayflower/storyteller/internal/config"
	"github.com/mayflower/storyteller/internal/memory"
	"github.com/mayflower/storyteller/internal/merge"
	"github.com/mayflower/storyteller/internal/pipeline"
	"github.com/mayflower/storyteller/internal/state"
	"github.com/mayflower/storyteller/internal/storage"
	"github.com/mayflower/storyteller/internal/story"
)

func main() {
	var (
		deltaDir = flag.String("deltas", "", "directory of delta JSON files to replay, in filename order")
		genre    = flag.String("genre", "", "story genre (default from config)")
		tone     = flag.String("tone", "", "story tone (default from config)")
		author   = flag.String("author", "", "author whose style to emulate")
		idea     = flag.String("idea", "", "initial story idea")
		language = flag.String("language", "", "target language")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(context.Background(), *deltaDir, *genre, *tone, *author, *idea, *language); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, deltaDir, genre, tone, author, idea, language string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := storage.NewFileSystem(cfg.Paths.OutputDir)
	mem := memory.NewStore(store, cfg.Story.MemoryNamespace)
	manager := state.NewManager()

	runner := pipeline.NewRunner(manager,
		pipeline.WithCheckpoints(pipeline.NewCheckpointManager(store)),
		pipeline.WithProgress(pipeline.NewProgressTracker(func(step string, version uint64) {
			slog.Debug("progress", "step", step, "version", version)
		})),
		pipeline.WithRateLimit(cfg.Limits.RateLimit.RequestsPerMinute, cfg.Limits.RateLimit.BurstSize),
		pipeline.WithRetry(pipeline.RetryConfig{
			MaxAttempts:   cfg.Limits.MaxRetries,
			InitialDelay:  pipeline.DefaultRetryConfig.InitialDelay,
			MaxDelay:      pipeline.DefaultRetryConfig.MaxDelay,
			BackoffFactor: pipeline.DefaultRetryConfig.BackoffFactor,
		}),
	)

	steps := []pipeline.Step{
		&pipeline.InitStep{
			Genre:              firstOf(genre, cfg.Story.DefaultGenre),
			Tone:               firstOf(tone, cfg.Story.DefaultTone),
			Author:             author,
			InitialIdea:        idea,
			Language:           firstOf(language, cfg.Story.DefaultLanguage),
			SupportedLanguages: cfg.Story.SupportedLanguages,
			Memory:             mem,
		},
	}

	if deltaDir != "" {
		deltaSteps, err := deltaFileSteps(deltaDir)
		if err != nil {
			return err
		}
		steps = append(steps, deltaSteps...)
	}

	if err := runner.Run(ctx, steps); err != nil {
		return err
	}

	snapshot := manager.Snapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	outPath := filepath.Join(storage.SessionPath(manager.SessionID(), idea), "story.json")
	if err := store.Save(ctx, outPath, data); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	slog.Info("session complete",
		"session_id", manager.SessionID(),
		"version", manager.Version(),
		"output", filepath.Join(cfg.Paths.OutputDir, outPath))
	return nil
}

// deltaFileSteps wraps each JSON file in the directory as a pipeline
// step that decodes and returns it, sorted by filename so replay order
// is stable.
func deltaFileSteps(dir string) ([]pipeline.Step, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading delta directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var steps []pipeline.Step
	for _, name := range names {
		path := filepath.Join(dir, name)
		steps = append(steps, pipeline.StepFunc{
			StepName: "delta:" + name,
			Fn: func(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
				data, err := os.ReadFile(path)
				if err != nil {
					return nil, fmt.Errorf("reading delta %s: %w", path, err)
				}
				delta, warnings, err := merge.DecodeDelta(data)
				if err != nil {
					return nil, err
				}
				for _, w := range warnings {
					slog.Warn("delta normalized", "file", path, "warning", w.String())
				}
				return delta, nil
			},
		})
	}
	return steps, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
