package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cardlens/internal/common"
	"cardlens/internal/model"
	"cardlens/internal/service"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidEntry = errors.New("invalid collection entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEntry validates a single collection entry.
func validateEntry(entry *model.CollectionEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if entry.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEntry)
	}
	if entry.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidEntry)
	}
	if entry.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidEntry)
	}
	if entry.Confidence < 0 || entry.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidEntry)
	}
	if entry.DateAdded.IsZero() {
		return fmt.Errorf("%w: missing date added", ErrInvalidEntry)
	}
	return nil
}

// validateUpdates rejects updates that would violate entry invariants.
func validateUpdates(updates *service.EntryUpdates) error {
	if updates.Name != nil && strings.TrimSpace(*updates.Name) == "" {
		return fmt.Errorf("%w: name cannot be blanked", ErrInvalidEntry)
	}
	if updates.Price != nil && *updates.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidEntry)
	}
	if updates.Quantity != nil && *updates.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidEntry)
	}
	return nil
}

// validateImport checks the whole interchange payload before any destructive
// work begins. A failure here leaves the store untouched.
func validateImport(export *model.CollectionExport) error {
	if export == nil {
		return fmt.Errorf("%w: missing payload", common.ErrImportFormat)
	}

	seen := make(map[string]struct{}, len(export.Cards))
	for i := range export.Cards {
		entry := &export.Cards[i]
		if err := validateEntry(entry); err != nil {
			return fmt.Errorf("%w: card %d: %v", common.ErrImportFormat, i, err)
		}
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("%w: duplicate card ID %s", common.ErrImportFormat, entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}
