// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"

	"github.com/NicolasThaddeusL/cccup-ai/internal/adapters/llm"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BundlePath points at the primary bundle artifact produced by the
	// bundle CLI.
	BundlePath string `koanf:"bundle_path"`

	// OrganizerSite is the official event site referenced in answers.
	OrganizerSite string `koanf:"organizer_site"`

	// OrganizerSupport is the support contact referenced in answers.
	OrganizerSupport string `koanf:"organizer_support"`

	// MaxOutputTokens caps the generative model output length.
	MaxOutputTokens int `koanf:"max_output_tokens"`

	// LLMBaseURL is the OpenAI-compatible provider base URL.
	LLMBaseURL string `koanf:"llm_base_url"`

	// LLMAPIKey authenticates against the provider. Required for the
	// generative fallback; deterministic answers work without it.
	LLMAPIKey string `koanf:"llm_api_key"`

	// LLMModel selects the chat model.
	LLMModel string `koanf:"llm_model"`

	// LLMConnectTimeoutMS and LLMReadTimeoutMS bound the outbound call.
	LLMConnectTimeoutMS int `koanf:"llm_connect_timeout_ms"`
	LLMReadTimeoutMS    int `koanf:"llm_read_timeout_ms"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		BundlePath:          "data/data.bundle.yaml",
		OrganizerSite:       "cccup.id",
		OrganizerSupport:    "+62 811-9628-426 (Jonas)",
		MaxOutputTokens:     420,
		LLMBaseURL:          llm.DefaultBaseURL,
		LLMModel:            llm.DefaultModel,
		LLMConnectTimeoutMS: int(llm.DefaultConnectTimeout.Milliseconds()),
		LLMReadTimeoutMS:    int(llm.DefaultReadTimeout.Milliseconds()),
	}
	return c
}
