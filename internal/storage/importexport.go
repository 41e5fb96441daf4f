package storage

import (
	"context"
	"fmt"
	"time"

	"cardlens/internal/model"
)

// ExportCollection serializes every entry into the interchange envelope.
func (s *SQLiteStorage) ExportCollection(ctx context.Context) (*model.CollectionExport, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	entries, err := s.GetAllEntries(ctx)
	if err != nil {
		return nil, err
	}

	return &model.CollectionExport{
		ExportDate: time.Now().UTC(),
		TotalCards: len(entries),
		Cards:      entries,
	}, nil
}

// ImportCollection replaces the whole collection with the imported set. The
// payload is validated before any destructive work, and the delete plus all
// inserts run in a single transaction: the store either ends up holding
// exactly the imported entries or is left untouched.
func (s *SQLiteStorage) ImportCollection(ctx context.Context, export *model.CollectionExport) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImport(export); err != nil {
		return err
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards
		(id, name, set_name, price, image_url, rarity, card_number, game,
		 confidence, date_added, condition, quantity, notes, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare import insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range export.Cards {
		entry := &export.Cards[i]
		tags, tagErr := encodeTags(entry.Tags)
		if tagErr != nil {
			return tagErr
		}
		if _, err := stmt.ExecContext(ctx,
			entry.ID, entry.Name, entry.Set, entry.Price, entry.ImageURL,
			entry.Rarity, entry.CardNumber, string(entry.Domain),
			entry.Confidence, entry.DateAdded, entry.Condition,
			entry.Quantity, entry.Notes, tags); err != nil {
			return fmt.Errorf("failed to import entry %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
