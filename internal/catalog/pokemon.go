package catalog

import (
	"context"
	"fmt"
	"net/url"

	"cardlens/internal/common"
	"cardlens/internal/model"
)

const defaultPokemonBaseURL = "https://api.pokemontcg.io/v2"

// pokemonAdapter resolves cards via the Pokémon TCG API. The API key header is
// optional; unauthenticated requests are rate-limited harder.
type pokemonAdapter struct {
	client  *restClient
	baseURL string
	apiKey  string
}

func newPokemonAdapter(client *restClient, baseURL, apiKey string) *pokemonAdapter {
	if baseURL == "" {
		baseURL = defaultPokemonBaseURL
	}
	return &pokemonAdapter{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (a *pokemonAdapter) Domain() model.GameDomain {
	return model.DomainPokemon
}

type pokemonSearchResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Number string `json:"number"`
		Rarity string `json:"rarity"`
		Set    struct {
			Name string `json:"name"`
		} `json:"set"`
		Images struct {
			Small string `json:"small"`
			Large string `json:"large"`
		} `json:"images"`
		CardMarket struct {
			Prices struct {
				AverageSellPrice float64 `json:"averageSellPrice"`
				LowPrice         float64 `json:"lowPrice"`
			} `json:"prices"`
		} `json:"cardmarket"`
	} `json:"data"`
}

func (a *pokemonAdapter) Lookup(ctx context.Context, name string) (*model.Card, error) {
	params := url.Values{
		"q":        {fmt.Sprintf("name:%q", name)},
		"pageSize": {"1"},
	}
	var headers map[string]string
	if a.apiKey != "" {
		headers = map[string]string{"X-Api-Key": a.apiKey}
	}

	var resp pokemonSearchResponse
	if err := a.client.getJSON(ctx, a.baseURL+"/cards", params, headers, &resp); err != nil {
		return nil, fmt.Errorf("%w: pokemon tcg: %v", common.ErrCatalogLookup, err)
	}
	if len(resp.Data) == 0 {
		return nil, common.ErrNotFound
	}

	card := resp.Data[0]
	return &model.Card{
		Name:       card.Name,
		Set:        firstNonEmpty(card.Set.Name, "Unknown Set"),
		Price:      firstPrice(card.CardMarket.Prices.AverageSellPrice, card.CardMarket.Prices.LowPrice),
		ImageURL:   firstNonEmpty(card.Images.Large, card.Images.Small),
		Rarity:     card.Rarity,
		CardNumber: card.Number,
		Domain:     model.DomainPokemon,
	}, nil
}
