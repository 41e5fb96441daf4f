package catalog

import (
	"context"
	"crypto/md5" //nolint:gosec // Marvel API mandates md5 request signing
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"cardlens/internal/common"
	"cardlens/internal/model"
)

const defaultMarvelBaseURL = "https://gateway.marvel.com/v1/public"

// marvelAdapter resolves comic character cards via the Marvel Comics API.
// Marvel provides no pricing, so normalized records carry price 0.
type marvelAdapter struct {
	now        func() time.Time
	client     *restClient
	baseURL    string
	publicKey  string
	privateKey string
}

func newMarvelAdapter(client *restClient, baseURL, publicKey, privateKey string) *marvelAdapter {
	if baseURL == "" {
		baseURL = defaultMarvelBaseURL
	}
	return &marvelAdapter{
		client:     client,
		baseURL:    baseURL,
		publicKey:  publicKey,
		privateKey: privateKey,
		now:        time.Now,
	}
}

func (a *marvelAdapter) Domain() model.GameDomain {
	return model.DomainMarvel
}

type marvelResponse struct {
	Data struct {
		Results []struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			Thumbnail struct {
				Path      string `json:"path"`
				Extension string `json:"extension"`
			} `json:"thumbnail"`
		} `json:"results"`
	} `json:"data"`
}

func (a *marvelAdapter) Lookup(ctx context.Context, name string) (*model.Card, error) {
	ts := strconv.FormatInt(a.now().Unix(), 10)
	params := url.Values{
		"name":   {name},
		"apikey": {a.publicKey},
		"ts":     {ts},
		"hash":   {a.requestHash(ts)},
	}

	var resp marvelResponse
	if err := a.client.getJSON(ctx, a.baseURL+"/characters", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: marvel: %v", common.ErrCatalogLookup, err)
	}
	if len(resp.Data.Results) == 0 {
		return nil, common.ErrNotFound
	}

	character := resp.Data.Results[0]
	imageURL := ""
	if character.Thumbnail.Path != "" {
		imageURL = character.Thumbnail.Path + "." + character.Thumbnail.Extension
	}

	return &model.Card{
		Name:       character.Name,
		Set:        "Marvel Comics",
		Price:      0,
		ImageURL:   imageURL,
		Rarity:     "Common",
		CardNumber: strconv.FormatInt(character.ID, 10),
		Domain:     model.DomainMarvel,
	}, nil
}

// requestHash computes the md5(ts+privateKey+publicKey) signature the Marvel
// API requires on every request.
func (a *marvelAdapter) requestHash(ts string) string {
	sum := md5.Sum([]byte(ts + a.privateKey + a.publicKey)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
