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

const defaultYGOBaseURL = "https://db.ygoprodeck.com/api/v7"

// ygoAdapter resolves Yu-Gi-Oh! cards via the YGOPRODeck API.
type ygoAdapter struct {
	client  *restClient
	baseURL string
}

func newYGOAdapter(client *restClient, baseURL string) *ygoAdapter {
	if baseURL == "" {
		baseURL = defaultYGOBaseURL
	}
	return &ygoAdapter{client: client, baseURL: baseURL}
}

func (a *ygoAdapter) Domain() model.GameDomain {
	return model.DomainYuGiOh
}

type ygoResponse struct {
	Data []struct {
		Name     string `json:"name"`
		CardSets []struct {
			SetName   string `json:"set_name"`
			SetCode   string `json:"set_code"`
			SetRarity string `json:"set_rarity"`
		} `json:"card_sets"`
		CardImages []struct {
			ImageURL string `json:"image_url"`
		} `json:"card_images"`
		CardPrices []struct {
			CardMarketPrice string `json:"cardmarket_price"`
			TCGPlayerPrice  string `json:"tcgplayer_price"`
		} `json:"card_prices"`
	} `json:"data"`
}

func (a *ygoAdapter) Lookup(ctx context.Context, name string) (*model.Card, error) {
	var resp ygoResponse
	err := a.client.getJSON(ctx, a.baseURL+"/cardinfo.php",
		url.Values{"fname": {name}}, nil, &resp)
	if err != nil {
		// YGOPRODeck answers 400 when the fuzzy name matches nothing.
		var status *statusError
		if errors.As(err, &status) && (status.Code == http.StatusBadRequest || status.Code == http.StatusNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: ygoprodeck: %v", common.ErrCatalogLookup, err)
	}
	if len(resp.Data) == 0 {
		return nil, common.ErrNotFound
	}

	card := resp.Data[0]
	normalized := &model.Card{
		Name:   card.Name,
		Set:    "Unknown Set",
		Domain: model.DomainYuGiOh,
	}
	if len(card.CardSets) > 0 {
		normalized.Set = firstNonEmpty(card.CardSets[0].SetName, "Unknown Set")
		normalized.Rarity = card.CardSets[0].SetRarity
		normalized.CardNumber = card.CardSets[0].SetCode
	}
	if len(card.CardPrices) > 0 {
		normalized.Price = firstPrice(
			parsePrice(card.CardPrices[0].CardMarketPrice),
			parsePrice(card.CardPrices[0].TCGPlayerPrice))
	}
	if len(card.CardImages) > 0 {
		normalized.ImageURL = card.CardImages[0].ImageURL
	}

	return normalized, nil
}
