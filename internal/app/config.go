package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	Destination string
	// OutputPath receives the Markdown document; "-" writes to stdout.
	OutputPath string
	// OutputPDFPath, when set, additionally exports a PDF rendering.
	OutputPDFPath string

	// Wiki
	WikiBaseURL string
	UserAgent   string

	// LLM
	LLMBaseURL  string
	LLMModel    string
	LLMAPIKey   string
	Temperature float32

	// Limits
	FetchTimeout    time.Duration
	MaxSectionChars int

	// Behavior
	Verbose bool
}
