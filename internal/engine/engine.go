// Package engine orchestrates the card identification pipeline: preprocess,
// recognize, extract candidate names, classify, and resolve against catalogs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cardlens/internal/common"
	"cardlens/internal/model"
	"cardlens/internal/scanner"
	"cardlens/internal/service"
	"cardlens/internal/vision"
)

// Detection confidences assigned by each scan path. The multi-card path is
// less certain than the single-card web-detection path.
const (
	multiScanConfidence  = 0.85
	singleScanConfidence = 0.90
)

// ProgressFunc reports candidate resolution progress.
type ProgressFunc func(completed, total int)

// Engine runs the scan pipeline. Candidates within one scan are resolved
// concurrently; results come back in detection order.
type Engine struct {
	recognizer   service.Recognizer
	resolver     service.Resolver
	preprocessor *scanner.Preprocessor
	onProgress   ProgressFunc
	retryOpts    service.RetryOptions
}

// Option configures an Engine.
type Option func(*Engine)

// WithPreprocessor overrides the default high-quality preprocessor.
func WithPreprocessor(p *scanner.Preprocessor) Option {
	return func(e *Engine) { e.preprocessor = p }
}

// WithProgress registers a progress callback for candidate resolution. The
// callback is invoked serially, never from two goroutines at once, so it may
// touch unguarded state.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// WithRetryOptions overrides retry behavior for the recognition call.
func WithRetryOptions(opts service.RetryOptions) Option {
	return func(e *Engine) { e.retryOpts = opts }
}

// New creates a scan engine.
func New(recognizer service.Recognizer, resolver service.Resolver, opts ...Option) *Engine {
	e := &Engine{
		recognizer:   recognizer,
		resolver:     resolver,
		preprocessor: scanner.NewPreprocessor(scanner.HighQuality),
		retryOpts: service.RetryOptions{
			MaxAttempts: 3,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ScanResult is the working set produced by one multi-card scan.
type ScanResult struct {
	Cards       []model.DetectedCard
	Candidates  []string
	CardObjects []service.LocalizedObject
}

// Scan runs the full pipeline on a raw image. Preprocessing and recognition
// failures abort the scan; a candidate that resolves nowhere is simply absent
// from the result.
func (e *Engine) Scan(ctx context.Context, imageData []byte) (*ScanResult, error) {
	encoded, err := e.preprocessor.Process(imageData)
	if err != nil {
		return nil, err
	}
	return e.scanEncoded(ctx, encoded)
}

// ScanFile runs Scan on an image loaded from disk.
func (e *Engine) ScanFile(ctx context.Context, path string) (*ScanResult, error) {
	encoded, err := e.preprocessor.ProcessFile(path)
	if err != nil {
		return nil, err
	}
	return e.scanEncoded(ctx, encoded)
}

func (e *Engine) scanEncoded(ctx context.Context, encoded []byte) (*ScanResult, error) {
	recognition, err := e.recognize(ctx, encoded)
	if err != nil {
		return nil, err
	}

	candidates := vision.ExtractCandidates(recognition.TextAnnotations)
	result := &ScanResult{
		Candidates:  candidates,
		CardObjects: vision.CardLikeObjects(recognition.Objects),
	}
	if len(candidates) == 0 {
		slog.Info("No card name candidates recognized")
		return result, nil
	}

	slog.Debug("Resolving candidates",
		"count", len(candidates),
		"card_objects", len(result.CardObjects))

	result.Cards = e.resolveAll(ctx, candidates)
	return result, nil
}

// ScanSingle runs the single-card recognition path: web-entity detection with
// OCR fallback, resolved through one exhaustive-capable auto lookup.
func (e *Engine) ScanSingle(ctx context.Context, imageData []byte) (*model.DetectedCard, error) {
	encoded, err := e.preprocessor.Process(imageData)
	if err != nil {
		return nil, err
	}

	var recognition *service.RecognitionResult
	err = common.WithRetry(ctx, func() error {
		var annotateErr error
		recognition, annotateErr = e.recognizer.AnnotateWeb(ctx, encoded)
		return annotateErr
	}, e.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRecognitionService, err)
	}

	name := vision.BestCandidate(recognition)
	if name == "" {
		return nil, common.ErrNotFound
	}

	card, err := e.resolver.ResolveAuto(ctx, name)
	if err != nil {
		return nil, common.ErrNotFound
	}

	detected := model.NewDetectedCard(*card, singleScanConfidence)
	return &detected, nil
}

func (e *Engine) recognize(ctx context.Context, encoded []byte) (*service.RecognitionResult, error) {
	var recognition *service.RecognitionResult
	err := common.WithRetry(ctx, func() error {
		var annotateErr error
		recognition, annotateErr = e.recognizer.Annotate(ctx, encoded)
		return annotateErr
	}, e.retryOpts)
	if err != nil {
		if errors.Is(err, common.ErrRecognitionService) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrRecognitionService, err)
	}
	return recognition, nil
}

// resolveAll resolves every candidate concurrently. Each candidate's lookup is
// independent: a miss or failure leaves a gap that is compacted away, and the
// surviving cards keep their original detection order.
func (e *Engine) resolveAll(ctx context.Context, candidates []string) []model.DetectedCard {
	resolved := make([]*model.Card, len(candidates))

	var wg sync.WaitGroup
	var mu sync.Mutex
	finished := 0

	wg.Add(len(candidates))
	for i, name := range candidates {
		go func(idx int, candidate string) {
			defer wg.Done()

			card, err := e.resolver.ResolveAuto(ctx, candidate)
			if err != nil {
				slog.Debug("Candidate did not resolve", "name", candidate)
			} else {
				resolved[idx] = card
			}

			// The callback runs under the mutex so consumers see strictly
			// serialized progress updates.
			mu.Lock()
			finished++
			if e.onProgress != nil {
				e.onProgress(finished, len(candidates))
			}
			mu.Unlock()
		}(i, name)
	}
	wg.Wait()

	cards := make([]model.DetectedCard, 0, len(candidates))
	for _, card := range resolved {
		if card == nil {
			continue
		}
		cards = append(cards, model.NewDetectedCard(*card, multiScanConfidence))
	}
	return cards
}
