package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voyhq/wanderguide/internal/app"
	"github.com/voyhq/wanderguide/internal/guide"
	"github.com/voyhq/wanderguide/internal/scrape"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		destination  string
		outputPath   string
		pdfPath      string
		wikiBase     string
		userAgent    string
		llmBaseURL   string
		llmModel     string
		llmKey       string
		temperature  float64
		fetchTimeout time.Duration
		sectionChars int
		configPath   string
		envFile      string
		verbose      bool
		showVersion  bool
	)

	flag.StringVar(&destination, "dest", "", "Destination name (alternative to the positional argument)")
	flag.StringVar(&outputPath, "output", "guide.md", "Path to write the Markdown guide; '-' for stdout")
	flag.StringVar(&pdfPath, "output.pdf", "", "Optional path to also export a PDF")
	flag.StringVar(&wikiBase, "wiki.base", "", "Travel wiki base URL (default "+scrape.DefaultBaseURL+")")
	flag.StringVar(&userAgent, "wiki.ua", "", "Custom User-Agent for page fetches")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL (e.g. http://localhost:11434/v1)")
	flag.StringVar(&llmModel, "llm.model", "", "Model name")
	flag.StringVar(&llmKey, "llm.key", "", "API key for the model server, if it wants one")
	flag.Float64Var(&temperature, "llm.temperature", 0, "Sampling temperature (default 0.7)")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", 0, "Page fetch timeout (default 15s)")
	flag.IntVar(&sectionChars, "max.sectionChars", 0, "Maximum characters per scraped section (default 4000)")
	flag.StringVar(&configPath, "config", "", "Path to YAML/JSON config file")
	flag.StringVar(&envFile, "env", ".env", "Path to dotenv file loaded before env lookup")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("wanderguide %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if destination == "" && flag.NArg() > 0 {
		destination = strings.TrimSpace(strings.Join(flag.Args(), " "))
	}

	cfg := app.Config{
		Destination:     destination,
		OutputPath:      outputPath,
		OutputPDFPath:   pdfPath,
		WikiBaseURL:     wikiBase,
		UserAgent:       userAgent,
		LLMBaseURL:      llmBaseURL,
		LLMModel:        llmModel,
		LLMAPIKey:       llmKey,
		Temperature:     float32(temperature),
		FetchTimeout:    fetchTimeout,
		MaxSectionChars: sectionChars,
		Verbose:         verbose,
	}

	// Precedence: flags > env > config file. Dotenv merely seeds the env.
	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Warn().Err(err).Str("path", envFile).Msg("dotenv load failed")
	}
	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file load failed")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Destination == "" {
		fmt.Fprintln(os.Stderr, "usage: wanderguide [flags] <destination>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Policy: both failure domains (page scrape, model response) halt
		// the pipeline with a nonzero exit; nothing partial is produced.
		if errors.Is(err, scrape.ErrNoContent) || errors.Is(err, guide.ErrBadResponse) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
