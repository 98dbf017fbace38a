// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"strings"
	"sync"

	"github.com/NicolasThaddeusL/cccup-ai/internal/adapters/llm"
	repository "github.com/NicolasThaddeusL/cccup-ai/internal/adapters/repository"
	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/answer"
	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/guard"
	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/intent"
	"github.com/NicolasThaddeusL/cccup-ai/pkg/logger"
	"github.com/NicolasThaddeusL/cccup-ai/pkg/metrics"
)

// maxConversationTurns bounds how much caller conversation is forwarded
// to the generative model after the grounding message.
const maxConversationTurns = 8

// systemInstruction frames the generative fallback. The context block
// assembled from the bundle is appended to it; the model is told to
// stay within that data.
const systemInstruction = "Kamu adalah CCCC.AI, asisten resmi CC Cup. " +
	"Jawab singkat, ramah, dan dalam bahasa pengguna. " +
	"Gunakan HANYA informasi pada Basis Data di bawah ini; " +
	"jika jawabannya tidak ada di sana, arahkan pengguna ke situs resmi.\n\n"

// Message is one turn of a caller conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HealthInfo is the introspection payload reported by the service.
type HealthInfo struct {
	OK            bool     `json:"ok"`
	SchemaVersion int      `json:"schema"`
	Creator       string   `json:"creator"`
	SportsIndexed []string `json:"sports_indexed"`
	BundleLoaded  bool     `json:"bundle_loaded"`
}

// Service resolves chat queries against the loaded bundle, preferring
// deterministic answers and falling back to the generative model.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	generator llm.Generator

	// Configuration
	bundlePath string
	organizer  answer.Organizer
	maxTokens  int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBundlePath sets the bundle artifact path used when no store is
// injected.
func WithBundlePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.bundlePath = path
		}
	}
}

// WithStore injects a bundle store. Tests use this to bypass the
// filesystem.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGenerator injects the generative capability.
func WithGenerator(g llm.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithOrganizer sets the official site and support contact referenced
// in answers.
func WithOrganizer(site, support string) Option {
	return func(s *Service) {
		if site != "" {
			s.organizer.Site = site
		}
		if support != "" {
			s.organizer.Support = support
		}
	}
}

// WithMaxOutputTokens caps the generative output length.
func WithMaxOutputTokens(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		bundlePath: "data/data.bundle.yaml",
		organizer: answer.Organizer{
			Site:    "cccup.id",
			Support: "+62 811-9628-426 (Jonas)",
		},
		maxTokens: 420,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start performs the initial bundle load. A missing or unusable bundle
// leaves the service running degraded with an empty index.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting chatbot service...")

	if s.store == nil {
		s.store = repository.NewBundleStore(s.bundlePath, repository.WithLogger(s.logger))
	}

	if err := s.store.Load(ctx); err != nil {
		// Serving continues with an empty index; the failure stays
		// visible through /health and the logs.
		s.logger.Error(ctx, "initial bundle load failed; serving degraded", logger.Error(err))
	}

	s.started = true
	s.logger.Info(ctx, "chatbot service started",
		logger.String("bundle", s.bundlePath),
		logger.Int("sports", len(s.store.Keys(ctx))),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "chatbot service stopped")
}

// Reload re-runs the bundle loader and returns the sport keys indexed
// afterwards. The swap is atomic from the point of view of concurrent
// queries.
func (s *Service) Reload(ctx context.Context) ([]string, error) {
	if err := s.store.Load(ctx); err != nil {
		return s.store.Keys(ctx), err
	}
	return s.store.Keys(ctx), nil
}

// Health reports the loaded schema version, display identity and the
// indexed sport keys.
func (s *Service) Health(ctx context.Context) HealthInfo {
	keys := s.store.Keys(ctx)
	if keys == nil {
		keys = []string{}
	}
	return HealthInfo{
		OK:            true,
		SchemaVersion: s.store.SchemaVersion(ctx),
		Creator:       s.store.Identity(ctx),
		SportsIndexed: keys,
		BundleLoaded:  s.store.Loaded(ctx),
	}
}

// Chat resolves one conversation: content guard, then the deterministic
// contact path, then the generative fallback grounded on the context
// block. The deterministic path never consults the model.
func (s *Service) Chat(ctx context.Context, messages []Message) (string, error) {
	metrics.RecordQuery()

	lastUser := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			lastUser = messages[i].Content
			break
		}
	}

	if guard.Blocked(lastUser) {
		metrics.RecordGuardRejection()
		s.logger.Warn(ctx, "query rejected by content guard")
		return guard.DeclineMessage(s.organizer.Site, s.organizer.Support), nil
	}

	if intent.IsContactIntent(lastUser) {
		if key, ok := intent.MatchSport(lastUser, s.store.Keys(ctx)); ok {
			if contact, found := s.store.Contact(ctx, key); found {
				metrics.RecordDeterministicAnswer()
				s.logger.Info(ctx, "deterministic contact answer", logger.String("sport", key))
				return answer.Contact(contact, s.organizer), nil
			}
		}
	}

	metrics.RecordGenerativeFallback()
	return s.generate(ctx, messages, lastUser)
}

// generate hands the conversation to the model, grounded on the
// assembled context block.
func (s *Service) generate(ctx context.Context, messages []Message, lastUser string) (string, error) {
	block := answer.ContextBlock(
		s.store.Bundle(ctx),
		s.store.Identity(ctx),
		s.store.Keys(ctx),
		s.store.Contacts(ctx),
		s.organizer,
	)

	conversation := messages
	if len(conversation) > maxConversationTurns {
		conversation = conversation[len(conversation)-maxConversationTurns:]
	}

	outbound := make([]llm.Message, 0, len(conversation)+1)
	outbound = append(outbound, llm.Message{
		Role:    "system",
		Content: systemInstruction + block,
	})
	for _, m := range conversation {
		outbound = append(outbound, llm.Message{Role: m.Role, Content: m.Content})
	}

	s.logger.Debug(ctx, "generative fallback",
		logger.Int("context_bytes", len(block)),
		logger.Int("turns", len(conversation)),
		logger.Int("query_bytes", len(strings.TrimSpace(lastUser))),
	)

	return s.generator.Generate(ctx, outbound, s.maxTokens)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"bundlePath": s.bundlePath,
	}

	if s.started {
		keys := s.store.Keys(ctx)
		stats["bundleLoaded"] = s.store.Loaded(ctx)
		stats["schemaVersion"] = s.store.SchemaVersion(ctx)
		stats["sportsIndexed"] = len(keys)

		metrics.UpdateIndexedSports(len(keys))
	}

	return stats
}
