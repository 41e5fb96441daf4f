package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameDomainValid(t *testing.T) {
	for _, domain := range AllDomains {
		assert.True(t, domain.Valid(), "domain %q should be valid", domain)
	}
	assert.False(t, GameDomain("chess").Valid())
	assert.False(t, GameDomain("").Valid())
}

func TestNewDetectedCard(t *testing.T) {
	card := Card{Name: "Black Lotus", Domain: DomainMTG}

	first := NewDetectedCard(card, 0.85)
	second := NewDetectedCard(card, 0.85)

	assert.Equal(t, card, first.Card)
	assert.Equal(t, 0.85, first.Confidence)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID, "each detection gets its own identifier")
}

func TestNewCollectionEntry(t *testing.T) {
	detected := NewDetectedCard(Card{
		Name:       "Charizard",
		Set:        "Base Set",
		Price:      199.99,
		Rarity:     "Rare Holo",
		CardNumber: "4",
		Domain:     DomainPokemon,
	}, 0.90)

	entry := NewCollectionEntry(detected)

	assert.Equal(t, detected.ID, entry.ID)
	assert.Equal(t, "Charizard", entry.Name)
	assert.Equal(t, DomainPokemon, entry.Domain)
	assert.Equal(t, 0.90, entry.Confidence)
	assert.Equal(t, 1, entry.Quantity)
	assert.False(t, entry.DateAdded.IsZero())
}

func TestCollectionExportJSONShape(t *testing.T) {
	export := CollectionExport{
		Cards:      []CollectionEntry{},
		TotalCards: 0,
	}

	data, err := json.Marshal(export)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Interchange field names are a compatibility contract with existing
	// export files.
	assert.Contains(t, decoded, "exportDate")
	assert.Contains(t, decoded, "totalCards")
	assert.Contains(t, decoded, "cards")
}
