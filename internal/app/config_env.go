package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}

	if cfg.WikiBaseURL == "" {
		cfg.WikiBaseURL = os.Getenv("WIKI_BASE_URL")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("WIKI_USER_AGENT")
	}

	if cfg.FetchTimeout == 0 {
		if s := os.Getenv("FETCH_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.FetchTimeout = d
			}
		}
	}
	if cfg.MaxSectionChars == 0 {
		if s := strings.TrimSpace(os.Getenv("MAX_SECTION_CHARS")); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				cfg.MaxSectionChars = n
			}
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
}
