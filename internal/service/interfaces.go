// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"cardlens/internal/model"
)

// Storage defines the contract for the collection persistence layer.
type Storage interface {
	// Entry operations
	SaveEntry(ctx context.Context, entry *model.CollectionEntry) error
	GetEntry(ctx context.Context, id string) (*model.CollectionEntry, error)
	GetAllEntries(ctx context.Context) ([]model.CollectionEntry, error)
	SearchEntries(ctx context.Context, query string) ([]model.CollectionEntry, error)
	GetEntriesBySet(ctx context.Context, setName string) ([]model.CollectionEntry, error)
	GetSets(ctx context.Context) ([]string, error)
	UpdateEntry(ctx context.Context, id string, updates EntryUpdates) error
	DeleteEntry(ctx context.Context, id string) error
	ClearEntries(ctx context.Context) error

	// Aggregates
	GetStats(ctx context.Context) (*CollectionStats, error)

	// Bulk interchange
	ExportCollection(ctx context.Context) (*model.CollectionExport, error)
	ImportCollection(ctx context.Context, export *model.CollectionExport) error

	// Settings
	GetSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// EntryUpdates carries user-editable fields for a collection entry. Nil fields
// are left unchanged.
type EntryUpdates struct {
	Name      *string
	Set       *string
	Price     *float64
	Condition *string
	Quantity  *int
	Notes     *string
	Tags      *[]string
}

// CollectionStats is the aggregate view over the whole collection.
type CollectionStats struct {
	MostValuable    *model.CollectionEntry
	RecentAdditions []model.CollectionEntry
	TotalCards      int
	UniqueCards     int
	TotalValue      float64
}

// Recognizer submits an encoded image to an external vision service and
// returns its raw annotations.
type Recognizer interface {
	Annotate(ctx context.Context, imageJPEG []byte) (*RecognitionResult, error)
	AnnotateWeb(ctx context.Context, imageJPEG []byte) (*RecognitionResult, error)
}

// RecognitionResult holds raw output from the vision service. TextAnnotations
// follows the service convention: the first element is the full concatenated
// text, the remainder are per-word fragments.
type RecognitionResult struct {
	TextAnnotations []string
	Objects         []LocalizedObject
	WebEntities     []WebEntity
}

// LocalizedObject is a coarse object detection with a confidence in [0,1].
type LocalizedObject struct {
	Name  string
	Score float64
}

// WebEntity is a web-detection entity description with a confidence score.
type WebEntity struct {
	Description string
	Score       float64
}

// Resolver turns a candidate name into a canonical card record.
type Resolver interface {
	// Resolve queries exactly one domain's catalog adapter.
	Resolve(ctx context.Context, name string, domain model.GameDomain) (*model.Card, error)
	// ResolveAuto classifies the name first and queries only the classified
	// domain's adapter, unless fallback-on-miss is enabled on the resolver.
	ResolveAuto(ctx context.Context, name string) (*model.Card, error)
	// ResolveExhaustive tries every adapter in fixed order and returns the
	// first match.
	ResolveExhaustive(ctx context.Context, name string) (*model.Card, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
