package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/content"
	"github.com/umputun/newsdigest/pkg/digest"
	"github.com/umputun/newsdigest/pkg/feed"
	"github.com/umputun/newsdigest/pkg/history"
	"github.com/umputun/newsdigest/pkg/llm"
	"github.com/umputun/newsdigest/pkg/pipeline"
	"github.com/umputun/newsdigest/pkg/scheduler"
	"github.com/umputun/newsdigest/server"
)

// Opts with all CLI options
type Opts struct {
	Config string   `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults are used if not set"`
	Feeds  []string `short:"f" long:"feed" env:"FEEDS" env-delim:"," description:"feed url, replaces configured feeds"`
	Serve  bool     `short:"s" long:"serve" env:"SERVE" description:"serve editions over http and publish on schedule"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	lgr.Printf("[INFO] starting newsdigest version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Printf("[INFO] completed")
}

// run wires all components and either publishes once or serves until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.LLM.APIKey != "" {
		setupLog(opts.Debug, opts.NoColor, cfg.LLM.APIKey)
	}

	store, err := history.NewStore(ctx, cfg.History)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			lgr.Printf("[WARN] failed to close history store: %v", err)
		}
	}()
	editions := history.NewEditions(store, cfg.History.MaxEditions)

	simplifier, err := llm.NewSimplifier(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to make simplifier: %w", err)
	}
	if closer, ok := simplifier.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	params := pipeline.Params{
		Fetcher: feed.NewFetcher(feed.NewParser(cfg.Fetch.Timeout, cfg.Fetch.UserAgent), cfg.Fetch.Timeout),
		Feeds:   cfg.FeedURLs(),
		Window:  cfg.Digest.Window,
		Ranker:  digest.NewRanker(cfg.Digest.Keywords),
		Selector: digest.Selector{
			Limit:         cfg.Digest.TopN,
			SummaryLength: cfg.Digest.SummaryLength,
		},
		Simplifier: llm.Batch{Simplifier: simplifier, Concurrency: cfg.LLM.Concurrency, Interval: cfg.LLM.Interval},
		Editions:   editions,
	}
	if cfg.Extraction.Enabled {
		params.Enricher = content.Enricher{
			Extractor:     content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent),
			MinTextLength: cfg.Extraction.MinTextLength,
		}
	}
	lgr.Printf("[INFO] %d feeds, history %s, llm provider %s, extraction enabled: %v",
		len(params.Feeds), store.Location(), cfg.LLM.Provider, cfg.Extraction.Enabled)

	pl := pipeline.New(params)

	if !opts.Serve {
		return publishOnce(ctx, pl)
	}

	sched := scheduler.NewScheduler(pl, cfg.Schedule.Interval)
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, editions, sched, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// publishOnce runs the pipeline a single time, nothing to publish is not an error
func publishOnce(ctx context.Context, pl *pipeline.Pipeline) error {
	res, err := pl.Run(ctx)
	if errors.Is(err, pipeline.ErrNoContent) {
		lgr.Printf("[INFO] nothing to publish: %v", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	lgr.Printf("[INFO] edition %s: %d articles selected from %d recent of %d fetched, %d editions stored",
		res.Date, len(res.Articles), res.Recent, res.Fetched, res.Editions)
	return nil
}

func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}
	cfg.OverrideFeeds(opts.Feeds)
	return cfg, nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
