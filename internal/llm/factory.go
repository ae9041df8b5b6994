package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/abhisek/coursewiz/internal/logger"
	"github.com/abhisek/coursewiz/internal/store"
)

// NewProvider creates the named Provider from configuration.
// It returns the provider wrapped with rate-limit, retry and logging
// middleware.
func NewProvider(ctx context.Context, name string, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch name {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	return Wrap(base, name, cfg, eventRepo, log), nil
}

// Wrap applies the middleware chain: caller → rate limit → retry → logging → base.
// Every attempt is logged; only the first waits on the limiter.
func Wrap(base Provider, name string, cfg Config, eventRepo store.EventRepo, log *logger.Logger) Provider {
	logged := WithLogging(base, name, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry)
	return WithRateLimit(retried, cfg.RateLimit)
}

// Registry holds one Provider per configured provider id.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	cfg       Config
}

// NewRegistry builds a Provider for every catalog provider that has an API
// key. Providers without a key are reported by Get as missing credentials.
func NewRegistry(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (*Registry, error) {
	r := &Registry{providers: make(map[string]Provider), cfg: cfg}
	for _, name := range cfg.Configured() {
		p, err := NewProvider(ctx, name, cfg, eventRepo, log)
		if err != nil {
			return nil, err
		}
		r.providers[name] = p
	}
	return r, nil
}

// NewStaticRegistry returns a Registry serving the given providers as-is.
func NewStaticRegistry(cfg Config, providers map[string]Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers)), cfg: cfg}
	for name, p := range providers {
		r.providers[name] = p
	}
	return r
}

// Register adds or replaces a provider.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}
	if env := CredentialEnvVar(name); env != "" {
		return nil, &ErrMissingCredentials{EnvVar: env}
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", name)
}

// Names returns the registered provider ids, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Config returns the configuration the registry was built from.
func (r *Registry) Config() Config {
	return r.cfg
}
