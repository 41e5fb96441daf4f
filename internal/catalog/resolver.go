package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cardlens/internal/classify"
	"cardlens/internal/common"
	"cardlens/internal/model"
)

// Config carries adapter credentials and, for tests, base URL overrides.
type Config struct {
	PokemonAPIKey    string
	MarvelPublicKey  string
	MarvelPrivateKey string

	ScryfallBaseURL string
	PokemonBaseURL  string
	YGOBaseURL      string
	SportsBaseURL   string
	MarvelBaseURL   string

	// FallbackOnMiss escalates a missed auto-classified lookup to an
	// exhaustive search across all adapters. Off by default: the historical
	// auto path queries only the classified domain.
	FallbackOnMiss bool
}

// Resolver dispatches candidate names to catalog adapters.
type Resolver struct {
	adapters       map[model.GameDomain]Adapter
	fallbackOnMiss bool
}

// NewResolver wires all six catalog adapters over a shared HTTP client.
func NewResolver(cfg Config) *Resolver {
	client := newRESTClient()

	adapters := []Adapter{
		newScryfallAdapter(client, cfg.ScryfallBaseURL),
		newPokemonAdapter(client, cfg.PokemonBaseURL, cfg.PokemonAPIKey),
		newYGOAdapter(client, cfg.YGOBaseURL),
		newSportsAdapter(client, cfg.SportsBaseURL, "baseball", model.DomainBaseball),
		newSportsAdapter(client, cfg.SportsBaseURL, "basketball", model.DomainBasketball),
		newMarvelAdapter(client, cfg.MarvelBaseURL, cfg.MarvelPublicKey, cfg.MarvelPrivateKey),
	}

	byDomain := make(map[model.GameDomain]Adapter, len(adapters))
	for _, adapter := range adapters {
		byDomain[adapter.Domain()] = adapter
	}

	return &Resolver{
		adapters:       byDomain,
		fallbackOnMiss: cfg.FallbackOnMiss,
	}
}

// NewResolverWithAdapters builds a resolver over explicit adapters. Tests use
// this to instrument dispatch order.
func NewResolverWithAdapters(adapters []Adapter, fallbackOnMiss bool) *Resolver {
	byDomain := make(map[model.GameDomain]Adapter, len(adapters))
	for _, adapter := range adapters {
		byDomain[adapter.Domain()] = adapter
	}
	return &Resolver{adapters: byDomain, fallbackOnMiss: fallbackOnMiss}
}

// Resolve queries exactly one domain's adapter. Adapter failures are logged
// and reported as ErrNotFound so one bad candidate never stops a scan.
func (r *Resolver) Resolve(ctx context.Context, name string, domain model.GameDomain) (*model.Card, error) {
	adapter, ok := r.adapters[domain]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for domain %q", common.ErrCatalogLookup, domain)
	}

	card, err := adapter.Lookup(ctx, name)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			slog.Warn("Catalog lookup failed",
				"domain", domain,
				"name", name,
				"error", err)
		}
		return nil, common.ErrNotFound
	}

	return card, nil
}

// ResolveAuto classifies the name and queries only that domain's adapter.
// When fallback-on-miss is enabled, a miss escalates to exhaustive order.
func (r *Resolver) ResolveAuto(ctx context.Context, name string) (*model.Card, error) {
	domain := classify.Classify(name)

	card, err := r.Resolve(ctx, name, domain)
	if err == nil {
		return card, nil
	}

	if r.fallbackOnMiss {
		slog.Debug("Auto lookup missed, falling back to exhaustive search",
			"name", name,
			"classified_domain", domain)
		return r.ResolveExhaustive(ctx, name)
	}

	return nil, err
}

// ResolveExhaustive tries every adapter in the fixed fallback order and
// returns the first match.
func (r *Resolver) ResolveExhaustive(ctx context.Context, name string) (*model.Card, error) {
	for _, domain := range model.AllDomains {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		card, err := r.Resolve(ctx, name, domain)
		if err == nil {
			return card, nil
		}
	}
	return nil, common.ErrNotFound
}
