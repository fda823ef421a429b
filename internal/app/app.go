package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/voyhq/wanderguide/internal/fetch"
	"github.com/voyhq/wanderguide/internal/guide"
	"github.com/voyhq/wanderguide/internal/llm"
	"github.com/voyhq/wanderguide/internal/render"
	"github.com/voyhq/wanderguide/internal/scrape"
)

// DefaultUserAgent is a browser-like UA; the travel wiki serves stripped
// pages to clients it does not recognize.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 wanderguide/1.0"

type App struct {
	cfg Config
	ai  llm.Client
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.Destination == "" {
		return nil, fmt.Errorf("destination is required")
	}

	// Build OpenAI-compatible config pointed at the local server
	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	transportCfg.HTTPClient = newHTTPClient()
	client := &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)}

	a := &App{cfg: cfg, ai: client}

	// Quick connectivity check against the local LLM by listing models.
	// Preflight is best-effort: warn and continue; the guide call surfaces
	// real errors with the proper exit policy.
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if ids, err := guide.ListModels(pctx, a.ai); err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
	} else if len(ids) > 0 {
		log.Info().Int("count", len(ids)).Msg("LLM models available")
	} else {
		log.Warn().Msg("LLM returned zero models")
	}

	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// Run executes the whole pipeline: scrape the destination page, generate the
// guide, render Markdown, write output. Each step completes before the next
// begins and no state survives the call.
func (a *App) Run(ctx context.Context) error {
	ua := a.cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	timeout := a.cfg.FetchTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	scraper := &scrape.Scraper{
		Fetcher: &fetch.Client{
			HTTPClient:        newHTTPClient(),
			UserAgent:         ua,
			PerRequestTimeout: timeout,
			RedirectMaxHops:   5,
		},
		BaseURL:         a.cfg.WikiBaseURL,
		MaxSectionChars: a.cfg.MaxSectionChars,
	}
	info, err := scraper.Scrape(ctx, a.cfg.Destination)
	if err != nil {
		return fmt.Errorf("scrape destination: %w", err)
	}
	log.Info().
		Str("destination", a.cfg.Destination).
		Int("overview_chars", len(info.Overview)).
		Int("attractions_chars", len(info.Attractions)).
		Int("transportation_chars", len(info.Transportation)).
		Int("food_chars", len(info.Food)).
		Int("tips_chars", len(info.Tips)).
		Msg("scraped destination page")

	gen := &guide.Generator{Client: a.ai, Model: a.cfg.LLMModel, Temperature: a.cfg.Temperature, Verbose: a.cfg.Verbose}
	g, err := gen.Generate(ctx, a.cfg.Destination, info)
	if err != nil {
		return fmt.Errorf("generate guide: %w", err)
	}

	md := render.Document(g.Sections, a.cfg.Destination)

	if a.cfg.OutputPath == "-" {
		fmt.Print(md)
	} else {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote guide")
	}

	if a.cfg.OutputPDFPath != "" {
		if err := writeGuidePDF(md, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote PDF")
	}
	return nil
}
