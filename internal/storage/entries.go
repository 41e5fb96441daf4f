package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cardlens/internal/common"
	"cardlens/internal/model"
	"cardlens/internal/service"
)

// entryColumns is the canonical column list used by every entry query.
const entryColumns = `id, name, set_name, price, image_url, rarity, card_number,
	game, confidence, date_added, condition, quantity, notes, tags`

// SaveEntry inserts or replaces a collection entry keyed by its identifier.
func (s *SQLiteStorage) SaveEntry(ctx context.Context, entry *model.CollectionEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	tags, err := encodeTags(entry.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO cards
		(id, name, set_name, price, image_url, rarity, card_number, game,
		 confidence, date_added, condition, quantity, notes, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Name, entry.Set, entry.Price, entry.ImageURL,
		entry.Rarity, entry.CardNumber, string(entry.Domain),
		entry.Confidence, entry.DateAdded, entry.Condition,
		entry.Quantity, entry.Notes, tags)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

// GetEntry fetches one entry by identifier.
func (s *SQLiteStorage) GetEntry(ctx context.Context, id string) (*model.CollectionEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM cards WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// GetAllEntries returns the whole collection, most recent first.
func (s *SQLiteStorage) GetAllEntries(ctx context.Context) ([]model.CollectionEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM cards ORDER BY date_added DESC, id ASC`)
}

// SearchEntries returns entries whose name, set, or notes contain the query
// substring, most recent first.
func (s *SQLiteStorage) SearchEntries(ctx context.Context, query string) ([]model.CollectionEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	pattern := "%" + escapeLike(query) + "%"
	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM cards
		WHERE name LIKE ? ESCAPE '\'
		   OR set_name LIKE ? ESCAPE '\'
		   OR notes LIKE ? ESCAPE '\'
		ORDER BY date_added DESC, id ASC`,
		pattern, pattern, pattern)
}

// GetEntriesBySet returns the entries of one set, ordered by name.
func (s *SQLiteStorage) GetEntriesBySet(ctx context.Context, setName string) ([]model.CollectionEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(setName, "setName"); err != nil {
		return nil, err
	}
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM cards WHERE set_name = ? ORDER BY name, id`,
		setName)
}

// GetSets returns the distinct set names present in the collection.
func (s *SQLiteStorage) GetSets(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT set_name FROM cards ORDER BY set_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sets []string
	for rows.Next() {
		var set string
		if err := rows.Scan(&set); err != nil {
			return nil, fmt.Errorf("failed to scan set: %w", err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// UpdateEntry applies the non-nil fields of updates to one entry.
func (s *SQLiteStorage) UpdateEntry(ctx context.Context, id string, updates service.EntryUpdates) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateUpdates(&updates); err != nil {
		return err
	}

	var setClauses []string
	var args []any

	if updates.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *updates.Name)
	}
	if updates.Set != nil {
		setClauses = append(setClauses, "set_name = ?")
		args = append(args, *updates.Set)
	}
	if updates.Price != nil {
		setClauses = append(setClauses, "price = ?")
		args = append(args, *updates.Price)
	}
	if updates.Condition != nil {
		setClauses = append(setClauses, "condition = ?")
		args = append(args, *updates.Condition)
	}
	if updates.Quantity != nil {
		setClauses = append(setClauses, "quantity = ?")
		args = append(args, *updates.Quantity)
	}
	if updates.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, *updates.Notes)
	}
	if updates.Tags != nil {
		tags, err := encodeTags(*updates.Tags)
		if err != nil {
			return err
		}
		setClauses = append(setClauses, "tags = ?")
		args = append(args, tags)
	}

	if len(setClauses) == 0 {
		return nil
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET `+strings.Join(setClauses, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteEntry removes one entry.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ClearEntries removes every entry from the collection.
func (s *SQLiteStorage) ClearEntries(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) queryEntries(ctx context.Context, query string, args ...any) ([]model.CollectionEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.CollectionEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for scanEntry.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.CollectionEntry, error) {
	var entry model.CollectionEntry
	var imageURL, rarity, cardNumber, game, condition, notes, tags sql.NullString

	err := row.Scan(
		&entry.ID, &entry.Name, &entry.Set, &entry.Price, &imageURL,
		&rarity, &cardNumber, &game, &entry.Confidence, &entry.DateAdded,
		&condition, &entry.Quantity, &notes, &tags)
	if err != nil {
		return nil, err
	}

	entry.ImageURL = imageURL.String
	entry.Rarity = rarity.String
	entry.CardNumber = cardNumber.String
	entry.Domain = model.GameDomain(game.String)
	entry.Condition = condition.String
	entry.Notes = notes.String

	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &entry.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}

	return &entry, nil
}

func encodeTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(encoded), nil
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
