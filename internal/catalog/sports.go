package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"cardlens/internal/common"
	"cardlens/internal/model"
)

const defaultSportsBaseURL = "https://www.sportscarddatabase.com/api"

// sportsAdapter resolves sports cards via the Sports Card Database search API.
// One instance per sport; baseball and basketball differ only in the sport
// query parameter and the domain tag.
type sportsAdapter struct {
	client  *restClient
	baseURL string
	sport   string
	domain  model.GameDomain
}

func newSportsAdapter(client *restClient, baseURL, sport string, domain model.GameDomain) *sportsAdapter {
	if baseURL == "" {
		baseURL = defaultSportsBaseURL
	}
	return &sportsAdapter{client: client, baseURL: baseURL, sport: sport, domain: domain}
}

func (a *sportsAdapter) Domain() model.GameDomain {
	return a.domain
}

type sportsSearchResponse struct {
	Results []struct {
		PlayerName     string  `json:"player_name"`
		SetName        string  `json:"set_name"`
		CardNumber     string  `json:"card_number"`
		ParallelType   string  `json:"parallel_type"`
		ImageURL       string  `json:"image_url"`
		EstimatedValue float64 `json:"estimated_value"`
	} `json:"results"`
}

func (a *sportsAdapter) Lookup(ctx context.Context, name string) (*model.Card, error) {
	params := url.Values{
		"q":     {name},
		"sport": {a.sport},
		"limit": {strconv.Itoa(1)},
	}

	var resp sportsSearchResponse
	if err := a.client.getJSON(ctx, a.baseURL+"/search", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: sports card database (%s): %v", common.ErrCatalogLookup, a.sport, err)
	}
	if len(resp.Results) == 0 {
		return nil, common.ErrNotFound
	}

	card := resp.Results[0]
	return &model.Card{
		Name:       firstNonEmpty(card.PlayerName, name),
		Set:        firstNonEmpty(card.SetName, "Unknown Set"),
		Price:      firstPrice(card.EstimatedValue),
		ImageURL:   card.ImageURL,
		Rarity:     firstNonEmpty(card.ParallelType, "Base"),
		CardNumber: card.CardNumber,
		Domain:     a.domain,
	}, nil
}
