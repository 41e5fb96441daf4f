package storage

import (
	"context"
	"fmt"

	"cardlens/internal/service"
)

// recentAdditionsLimit caps how many recent entries the stats view carries.
const recentAdditionsLimit = 5

// GetStats computes the aggregate view over the whole collection: total
// quantity, total value (Σ price × quantity), distinct entry count, the most
// valuable entry, and the most recent additions. Ties on the maximum price
// break toward the lowest identifier.
func (s *SQLiteStorage) GetStats(ctx context.Context) (*service.CollectionStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	stats := &service.CollectionStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(price * quantity), 0),
		       COUNT(*)
		FROM cards`).Scan(&stats.TotalCards, &stats.TotalValue, &stats.UniqueCards)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collection: %w", err)
	}

	if stats.UniqueCards == 0 {
		return stats, nil
	}

	top, err := s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM cards ORDER BY price DESC, id ASC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(top) > 0 {
		stats.MostValuable = &top[0]
	}

	recent, err := s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM cards ORDER BY date_added DESC, id ASC LIMIT ?`,
		recentAdditionsLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentAdditions = recent

	return stats, nil
}
