package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"cardlens/internal/catalog"
	"cardlens/internal/cli"
	"cardlens/internal/config"
	"cardlens/internal/model"
	"cardlens/internal/storage"
	"cardlens/internal/vision"
)

// openStorage opens the collection database and brings its schema current.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// newResolver wires the catalog resolver from configured API keys.
func newResolver(fallbackOnMiss bool) *catalog.Resolver {
	return catalog.NewResolver(catalog.Config{
		PokemonAPIKey:    viper.GetString("catalogs.pokemon_api_key"),
		MarvelPublicKey:  viper.GetString("catalogs.marvel_public_key"),
		MarvelPrivateKey: viper.GetString("catalogs.marvel_private_key"),
		FallbackOnMiss:   fallbackOnMiss,
	})
}

// newRecognizer builds the Vision client from the configured API key.
func newRecognizer(ctx context.Context) (*vision.Client, error) {
	return vision.NewClient(ctx, viper.GetString("vision.api_key"))
}

// parseDomain converts a --game flag value into a domain tag.
func parseDomain(value string) (model.GameDomain, error) {
	domain := model.GameDomain(strings.ToLower(strings.TrimSpace(value)))
	if !domain.Valid() {
		return "", fmt.Errorf("unknown game %q (valid: mtg, pokemon, yugioh, baseball, basketball, marvel)", value)
	}
	return domain, nil
}

// formatCard renders one canonical card for terminal display.
func formatCard(card model.Card) string {
	var b strings.Builder
	b.WriteString(cli.TitleStyle.UnsetMargins().Render(card.Name))
	b.WriteString("\n  " + cli.SubtleStyle.Render("Set:") + "   " + card.Set)
	b.WriteString("\n  " + cli.SubtleStyle.Render("Game:") + "  " + string(card.Domain))
	b.WriteString("\n  " + cli.SubtleStyle.Render("Price:") + " " + cli.PriceStyle.Render(fmt.Sprintf("$%.2f", card.Price)))
	if card.Rarity != "" {
		b.WriteString("\n  " + cli.SubtleStyle.Render("Rarity:") + " " + card.Rarity)
	}
	if card.CardNumber != "" {
		b.WriteString("\n  " + cli.SubtleStyle.Render("Number:") + " " + card.CardNumber)
	}
	if card.ImageURL != "" {
		b.WriteString("\n  " + cli.SubtleStyle.Render("Image:") + " " + card.ImageURL)
	}
	return b.String()
}

// formatEntry renders one collection entry for terminal display.
func formatEntry(entry model.CollectionEntry) string {
	line := fmt.Sprintf("%s  %s (%s)  x%d  %s",
		cli.SubtleStyle.Render(shortID(entry.ID)),
		entry.Name,
		entry.Set,
		entry.Quantity,
		cli.PriceStyle.Render(fmt.Sprintf("$%.2f", entry.Price)))
	if entry.Condition != "" {
		line += "  " + cli.SubtleStyle.Render(entry.Condition)
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
