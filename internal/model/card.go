// Package model defines the core domain types shared across the application.
package model

import (
	"time"

	"github.com/google/uuid"
)

// GameDomain identifies which external catalog family a card belongs to.
type GameDomain string

// Supported catalog domains.
const (
	DomainMTG        GameDomain = "mtg"
	DomainPokemon    GameDomain = "pokemon"
	DomainYuGiOh     GameDomain = "yugioh"
	DomainBaseball   GameDomain = "baseball"
	DomainBasketball GameDomain = "basketball"
	DomainMarvel     GameDomain = "marvel"
)

// AllDomains lists every domain in exhaustive-dispatch order. The order is a
// compatibility contract: exhaustive resolution tries adapters exactly in this
// sequence and returns the first hit.
var AllDomains = []GameDomain{
	DomainMTG,
	DomainPokemon,
	DomainYuGiOh,
	DomainBaseball,
	DomainBasketball,
	DomainMarvel,
}

// Valid reports whether d is a known domain.
func (d GameDomain) Valid() bool {
	for _, known := range AllDomains {
		if d == known {
			return true
		}
	}
	return false
}

// Card is the canonical, catalog-agnostic record of one card's metadata as
// normalized from whichever external catalog resolved it.
type Card struct {
	Name       string     `json:"name"`
	Set        string     `json:"set"`
	ImageURL   string     `json:"image"`
	Rarity     string     `json:"rarity,omitempty"`
	CardNumber string     `json:"cardNumber,omitempty"`
	Domain     GameDomain `json:"game"`
	Price      float64    `json:"price"`
}

// DetectedCard is a Card produced by a scan session, carrying a detection
// confidence and a locally generated identifier. It lives only in the working
// set of one scan until accepted into the collection or discarded.
type DetectedCard struct {
	ID         string  `json:"id"`
	Card       Card    `json:"card"`
	Confidence float64 `json:"confidence"`
}

// NewDetectedCard wraps a resolved card with a fresh identifier and the given
// confidence score.
func NewDetectedCard(card Card, confidence float64) DetectedCard {
	return DetectedCard{
		ID:         uuid.NewString(),
		Card:       card,
		Confidence: confidence,
	}
}

// CollectionEntry is a persisted owned-card record.
type CollectionEntry struct {
	DateAdded  time.Time  `json:"dateAdded"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Set        string     `json:"set"`
	ImageURL   string     `json:"image"`
	Condition  string     `json:"condition,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Rarity     string     `json:"rarity,omitempty"`
	CardNumber string     `json:"cardNumber,omitempty"`
	Domain     GameDomain `json:"game,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Price      float64    `json:"price"`
	Confidence float64    `json:"confidence"`
	Quantity   int        `json:"quantity"`
}

// NewCollectionEntry promotes an accepted DetectedCard into a collection entry
// with quantity 1.
func NewCollectionEntry(detected DetectedCard) CollectionEntry {
	return CollectionEntry{
		ID:         detected.ID,
		Name:       detected.Card.Name,
		Set:        detected.Card.Set,
		Price:      detected.Card.Price,
		ImageURL:   detected.Card.ImageURL,
		Rarity:     detected.Card.Rarity,
		CardNumber: detected.Card.CardNumber,
		Domain:     detected.Card.Domain,
		Confidence: detected.Confidence,
		DateAdded:  time.Now().UTC(),
		Quantity:   1,
	}
}

// CollectionExport is the interchange envelope written by export and consumed
// by import.
type CollectionExport struct {
	ExportDate time.Time         `json:"exportDate"`
	Cards      []CollectionEntry `json:"cards"`
	TotalCards int               `json:"totalCards"`
}
