package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// clearProviderEnv blanks every provider credential so the ambient
// environment cannot leak into registry tests.
func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, d := range descriptors {
		t.Setenv(d.KeyEnv, "")
		t.Setenv(d.KeyEnv+"_MODEL", "")
	}
}

func TestNewRegistryFollowsPriorityOrder(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("MISTRAL_API_KEY", "ms-test")

	registry, err := NewRegistry([]string{"groq", "openai"}, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := registry.Names()
	want := []string{"groq", "openai", "mistral"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestNewRegistryIgnoresUnknownPriorityNames(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	registry, err := NewRegistry([]string{"anthropic", "openai"}, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "openai" {
		t.Fatalf("expected [openai], got %v", names)
	}
}

func TestNewRegistryWithoutCredentials(t *testing.T) {
	clearProviderEnv(t)

	_, err := NewRegistry([]string{"groq", "openai"}, time.Second, zerolog.Nop())
	if !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
}

func TestNewRegistryModelOverride(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GROQ_API_KEY_MODEL", "llama-guard-custom")

	registry, err := NewRegistry([]string{"groq"}, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client, ok := registry.Clients()[0].(*openAICompatClient)
	if !ok {
		t.Fatalf("unexpected client type %T", registry.Clients()[0])
	}
	if client.model != "llama-guard-custom" {
		t.Fatalf("expected model override, got %q", client.model)
	}
}
