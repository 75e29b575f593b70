package provider

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Descriptor declares one supported upstream: where it lives, which env var
// carries its credential, and the default model to request.
type Descriptor struct {
	Name    string
	KeyEnv  string
	BaseURL string
	Model   string
}

// descriptors is the full set of supported upstreams. All are
// OpenAI-compatible chat-completions services.
var descriptors = []Descriptor{
	{Name: "openai", KeyEnv: "OPENAI_API_KEY", BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
	{Name: "groq", KeyEnv: "GROQ_API_KEY", BaseURL: "https://api.groq.com/openai/v1", Model: "llama-3.3-70b-versatile"},
	{Name: "deepseek", KeyEnv: "DEEPSEEK_API_KEY", BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat"},
	{Name: "together", KeyEnv: "TOGETHER_API_KEY", BaseURL: "https://api.together.xyz/v1", Model: "meta-llama/Llama-3.3-70B-Instruct-Turbo"},
	{Name: "mistral", KeyEnv: "MISTRAL_API_KEY", BaseURL: "https://api.mistral.ai/v1", Model: "mistral-small-latest"},
}

// Registry holds the usable provider clients in fallback priority order.
type Registry struct {
	clients []Client
}

// NewRegistry instantiates a client for every provider whose API key is set,
// in the configured priority order, then appends any remaining credentialed
// providers as extra fallbacks. A missing key silently excludes that
// provider; zero surviving providers is ErrNoProviders.
func NewRegistry(priority []string, timeout time.Duration, log zerolog.Logger) (*Registry, error) {
	byName := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		byName[d.Name] = d
	}

	var clients []Client
	registered := make(map[string]bool)

	add := func(d Descriptor) {
		key := os.Getenv(d.KeyEnv)
		if key == "" {
			log.Debug().Str("provider", d.Name).Msg("Provider skipped, no API key")
			return
		}
		model := d.Model
		if override := os.Getenv(d.KeyEnv + "_MODEL"); override != "" {
			model = override
		}
		clients = append(clients, newOpenAICompatClient(d.Name, key, d.BaseURL, model, timeout))
		registered[d.Name] = true
		log.Info().Str("provider", d.Name).Str("model", model).Msg("Provider registered")
	}

	for _, name := range priority {
		d, ok := byName[name]
		if !ok {
			log.Warn().Str("provider", name).Msg("Unknown provider in priority list, ignored")
			continue
		}
		if !registered[name] {
			add(d)
		}
	}

	// Credentialed providers left out of the priority list still join the
	// pool as last-resort fallbacks.
	for _, d := range descriptors {
		if !registered[d.Name] {
			add(d)
		}
	}

	if len(clients) == 0 {
		return nil, ErrNoProviders
	}

	return &Registry{clients: clients}, nil
}

// newRegistryFromClients is used by tests and by the orchestrator's
// constructor; it bypasses env lookup.
func newRegistryFromClients(clients []Client) *Registry {
	return &Registry{clients: clients}
}

// Clients returns the registered clients in fallback order.
func (r *Registry) Clients() []Client {
	return r.clients
}

// Names returns the registered provider names in fallback order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.clients))
	for i, c := range r.clients {
		names[i] = c.Name()
	}
	return names
}
