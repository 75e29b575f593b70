package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoProviders is returned at construction time when no upstream provider
// has a usable credential. This is a deployment mistake, not transient
// unavailability, so callers should treat it as fatal.
var ErrNoProviders = errors.New("no AI providers configured")

// CallError is a single upstream failure: an HTTP error, a timeout, or a
// response that could not be parsed into the expected shape.
type CallError struct {
	Provider string
	Op       string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Attempt records one failed provider call inside an exhausted fallback chain.
type Attempt struct {
	Provider string
	Err      error
}

// AggregateError means every registered provider failed for a single logical
// request. It carries the ordered list of attempts; the last attempt holds
// the final underlying error.
type AggregateError struct {
	Op       string
	Attempts []Attempt
}

func (e *AggregateError) Error() string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Provider
	}
	last := "unknown"
	if n := len(e.Attempts); n > 0 {
		last = e.Attempts[n-1].Err.Error()
	}
	return fmt.Sprintf("all providers failed for %s (tried %s): %s",
		e.Op, strings.Join(names, ", "), last)
}

// Providers returns the ordered provider names that were attempted.
func (e *AggregateError) Providers() []string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Provider
	}
	return names
}
