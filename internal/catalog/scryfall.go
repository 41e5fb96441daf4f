package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"cardlens/internal/common"
	"cardlens/internal/model"
)

const defaultScryfallBaseURL = "https://api.scryfall.com"

// scryfallAdapter resolves Magic: The Gathering cards via the Scryfall API.
type scryfallAdapter struct {
	client  *restClient
	baseURL string
}

func newScryfallAdapter(client *restClient, baseURL string) *scryfallAdapter {
	if baseURL == "" {
		baseURL = defaultScryfallBaseURL
	}
	return &scryfallAdapter{client: client, baseURL: baseURL}
}

func (a *scryfallAdapter) Domain() model.GameDomain {
	return model.DomainMTG
}

type scryfallCard struct {
	Name            string `json:"name"`
	SetName         string `json:"set_name"`
	Rarity          string `json:"rarity"`
	CollectorNumber string `json:"collector_number"`
	Prices          struct {
		USD     string `json:"usd"`
		USDFoil string `json:"usd_foil"`
	} `json:"prices"`
	ImageURIs struct {
		Normal string `json:"normal"`
		Small  string `json:"small"`
	} `json:"image_uris"`
}

type scryfallSearchResponse struct {
	Data []scryfallCard `json:"data"`
}

// Lookup tries Scryfall's fuzzy named endpoint first, then falls back to an
// exact-name search when the fuzzy match misses.
func (a *scryfallAdapter) Lookup(ctx context.Context, name string) (*model.Card, error) {
	var card scryfallCard
	err := a.client.getJSON(ctx, a.baseURL+"/cards/named",
		url.Values{"fuzzy": {name}}, nil, &card)
	if err == nil {
		return a.normalize(card), nil
	}

	// Scryfall signals a fuzzy miss with 404; any miss or failure falls
	// through to the search endpoint.
	var searchResp scryfallSearchResponse
	searchErr := a.client.getJSON(ctx, a.baseURL+"/cards/search",
		url.Values{"q": {fmt.Sprintf("name:%q", name)}}, nil, &searchResp)
	if searchErr != nil {
		var status *statusError
		if errors.As(searchErr, &status) && status.Code == http.StatusNotFound {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scryfall: %v", common.ErrCatalogLookup, searchErr)
	}
	if len(searchResp.Data) == 0 {
		return nil, common.ErrNotFound
	}

	return a.normalize(searchResp.Data[0]), nil
}

func (a *scryfallAdapter) normalize(card scryfallCard) *model.Card {
	return &model.Card{
		Name:       card.Name,
		Set:        firstNonEmpty(card.SetName, "Unknown Set"),
		Price:      firstPrice(parsePrice(card.Prices.USD), parsePrice(card.Prices.USDFoil)),
		ImageURL:   firstNonEmpty(card.ImageURIs.Normal, card.ImageURIs.Small),
		Rarity:     card.Rarity,
		CardNumber: card.CollectorNumber,
		Domain:     model.DomainMTG,
	}
}
