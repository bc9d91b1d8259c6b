// Command chime trains, applies, and serves rhyme-detection models.
//
// Usage:
//
//	chime train -config chime.yaml -corpus <dir|file> [-out model.json]
//	chime tag   -model model.json -in poem.txt [-format 1|2|3] [-report]
//	chime serve -config chime.yaml [-model model.json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/verselabs/chime/internal/config"
	"github.com/verselabs/chime/internal/corpus"
	"github.com/verselabs/chime/internal/eval"
	"github.com/verselabs/chime/internal/observe"
	"github.com/verselabs/chime/internal/server"
	"github.com/verselabs/chime/internal/token"
	"github.com/verselabs/chime/pkg/rhyme"
	"github.com/verselabs/chime/pkg/transcribe"
	"github.com/verselabs/chime/pkg/transcribe/espeak"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "train":
		return runTrain(args[1:])
	case "tag":
		return runTag(args[1:])
	case "serve":
		return runServe(args[1:])
	case "-h", "-help", "--help", "help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "chime: unknown command %q\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  chime train -config chime.yaml -corpus <dir|file> [-out model.json]
  chime tag   -model model.json -in poem.txt [-format 1|2|3] [-report]
  chime serve -config chime.yaml [-model model.json]`)
}

// ── train ─────────────────────────────────────────────────────────────────────

func runTrain(args []string) int {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "chime.yaml", "path to the YAML configuration file")
	corpusPath := fs.String("corpus", "", "corpus directory or file (required)")
	outPath := fs.String("out", "", "output model path (default: model_path from config)")
	fs.Parse(args)

	if *corpusPath == "" {
		fmt.Fprintln(os.Stderr, "chime train: -corpus is required")
		return 2
	}

	cfg, ok := loadConfig(*configPath)
	if !ok {
		return 1
	}
	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	out := *outPath
	if out == "" {
		out = cfg.ModelPath
	}
	if out == "" {
		fmt.Fprintln(os.Stderr, "chime train: no -out flag and no model_path in config")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poems, err := loadCorpus(ctx, *corpusPath)
	if err != nil {
		slog.Error("failed to load corpus", "err", err)
		return 1
	}
	slog.Info("corpus loaded", "poems", len(poems))

	model, err := rhyme.NewModel(cfg.Model, newTranscriber(cfg))
	if err != nil {
		slog.Error("failed to initialise model", "err", err)
		return 1
	}

	metrics := observe.Default()
	start := time.Now()
	for _, p := range poems {
		if err := model.AddPoem(ctx, p); err != nil {
			slog.Error("failed to ingest poem", "err", err)
			return 1
		}
		metrics.PoemsIngested.Add(ctx, 1)
	}
	slog.Info("corpus ingested", "lines", model.Lines())

	result, err := model.Train()
	if err != nil {
		slog.Error("training failed", "err", err)
		return 1
	}
	metrics.TrainDuration.Record(ctx, time.Since(start).Seconds())
	metrics.TrainIterations.Add(ctx, int64(result.Iterations),
		metric.WithAttributes(attribute.Bool("equilibrium", result.Equilibrium)))

	if result.Equilibrium {
		slog.Info("training converged", "iterations", result.Iterations)
	} else {
		slog.Warn("training stopped before equilibrium; consider raising max_iter",
			"iterations", result.Iterations)
	}

	if err := model.Save(out); err != nil {
		slog.Error("failed to save model", "err", err)
		return 1
	}
	slog.Info("model saved", "path", out)
	return 0
}

// loadCorpus loads a directory or a single corpus file.
func loadCorpus(ctx context.Context, path string) ([]rhyme.Poem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return corpus.LoadDir(ctx, path)
	}
	return corpus.LoadFile(path)
}

// ── tag ───────────────────────────────────────────────────────────────────────

func runTag(args []string) int {
	fs := flag.NewFlagSet("tag", flag.ExitOnError)
	modelPath := fs.String("model", "", "trained model path or name (required)")
	inPath := fs.String("in", "", "poem file to tag (required)")
	format := fs.Int("format", int(rhyme.FormatScheme), "output format: 1 neighbors, 2 chains, 3 scheme")
	report := fs.Bool("report", false, "append a chain plausibility report")
	espeakBin := fs.String("espeak", espeak.DefaultBinary, "espeak-ng binary")
	fs.Parse(args)

	if *modelPath == "" || *inPath == "" {
		fmt.Fprintln(os.Stderr, "chime tag: -model and -in are required")
		return 2
	}
	slog.SetDefault(newLogger(config.LogWarn))

	model, err := rhyme.Load(*modelPath, espeak.New(espeak.WithBinary(*espeakBin)))
	if err != nil {
		slog.Error("failed to load model", "err", err)
		return 1
	}

	poems, err := corpus.LoadFile(*inPath)
	if err != nil {
		slog.Error("failed to load poem", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, poem := range poems {
		rhymes, err := model.Tag(ctx, poem)
		if err != nil {
			slog.Error("tagging failed", "err", err)
			return 1
		}
		rendered, err := rhymes.Render(rhyme.OutputFormat(*format))
		if err != nil {
			slog.Error("render failed", "err", err)
			return 1
		}

		out := map[string]any{"rhymes": rendered}
		if *report {
			out["report"] = eval.New().Chains(rhymes.Chains(), poemRhymeWords(poem))
		}
		if err := enc.Encode(out); err != nil {
			slog.Error("encode failed", "err", err)
			return 1
		}
	}
	return 0
}

func poemRhymeWords(poem rhyme.Poem) []string {
	var words []string
	for _, st := range poem {
		for _, l := range st {
			w, _ := token.RhymeWord(l.Text)
			words = append(words, w)
		}
	}
	return words
}

// ── serve ─────────────────────────────────────────────────────────────────────

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "chime.yaml", "path to the YAML configuration file")
	modelPath := fs.String("model", "", "trained model path (default: model_path from config)")
	fs.Parse(args)

	cfg, ok := loadConfig(*configPath)
	if !ok {
		return 1
	}
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	path := *modelPath
	if path == "" {
		path = cfg.ModelPath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "chime serve: no -model flag and no model_path in config")
		return 2
	}
	if cfg.ModelDir != "" {
		rhyme.DefaultModelDir = cfg.ModelDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownObserve, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownObserve(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown error", "err", err)
		}
	}()

	model, err := rhyme.Load(path, newTranscriber(cfg))
	if err != nil {
		slog.Error("failed to load model", "err", err)
		return 1
	}
	slog.Info("model loaded", "path", path, "lang", model.Settings().Lang)

	addr := cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: server.New(model, observe.Default(), cfg.Server.AllowedOrigins).Handler(),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("server ready", "addr", addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			return 1
		}
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received, stopping…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── shared helpers ────────────────────────────────────────────────────────────

func loadConfig(path string) (*config.Config, bool) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "chime: config file %q not found\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "chime: %v\n", err)
		}
		return nil, false
	}
	return cfg, true
}

func newTranscriber(cfg *config.Config) transcribe.Transcriber {
	opts := []espeak.Option{}
	if cfg.Transcribe.Binary != "" {
		opts = append(opts, espeak.WithBinary(cfg.Transcribe.Binary))
	}
	if len(cfg.Transcribe.Substitutions) > 0 {
		subs := make([]espeak.Substitution, len(cfg.Transcribe.Substitutions))
		for i, s := range cfg.Transcribe.Substitutions {
			subs[i] = espeak.Substitution{From: s.From, To: s.To}
		}
		opts = append(opts, espeak.WithSubstitutions(subs))
	}
	return espeak.New(opts...)
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
