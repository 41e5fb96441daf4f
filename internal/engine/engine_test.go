package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardlens/internal/common"
	"cardlens/internal/model"
	"cardlens/internal/service"
)

// testJPEG encodes a small valid JPEG for the preprocessing stage.
func testJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 96))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type fakeRecognizer struct {
	result *service.RecognitionResult
	err    error
}

func (f *fakeRecognizer) Annotate(context.Context, []byte) (*service.RecognitionResult, error) {
	return f.result, f.err
}

func (f *fakeRecognizer) AnnotateWeb(context.Context, []byte) (*service.RecognitionResult, error) {
	return f.result, f.err
}

// fakeResolver answers ResolveAuto from a name-to-card map; unknown names miss.
type fakeResolver struct {
	mu    sync.Mutex
	cards map[string]*model.Card
	calls []string
}

func (f *fakeResolver) Resolve(_ context.Context, name string, _ model.GameDomain) (*model.Card, error) {
	return f.lookup(name)
}

func (f *fakeResolver) ResolveAuto(_ context.Context, name string) (*model.Card, error) {
	return f.lookup(name)
}

func (f *fakeResolver) ResolveExhaustive(_ context.Context, name string) (*model.Card, error) {
	return f.lookup(name)
}

func (f *fakeResolver) lookup(name string) (*model.Card, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	card, ok := f.cards[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	return card, nil
}

func noRetry() service.RetryOptions {
	return service.RetryOptions{MaxAttempts: 1}
}

func TestScan(t *testing.T) {
	t.Run("resolves candidates in detection order", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{
			TextAnnotations: []string{"Black Lotus\nCharizard Base"},
		}}
		resolver := &fakeResolver{cards: map[string]*model.Card{
			"Black Lotus":    {Name: "Black Lotus", Domain: model.DomainMTG},
			"Charizard Base": {Name: "Charizard", Domain: model.DomainPokemon},
		}}

		eng := New(recognizer, resolver, WithRetryOptions(noRetry()))
		result, err := eng.Scan(context.Background(), testJPEG(t))
		require.NoError(t, err)

		require.Len(t, result.Cards, 2)
		assert.Equal(t, "Black Lotus", result.Cards[0].Card.Name)
		assert.Equal(t, "Charizard", result.Cards[1].Card.Name)
		assert.Equal(t, []string{"Black Lotus", "Charizard Base"}, result.Candidates)

		for _, card := range result.Cards {
			assert.Equal(t, 0.85, card.Confidence)
			assert.NotEmpty(t, card.ID)
		}
		assert.NotEqual(t, result.Cards[0].ID, result.Cards[1].ID)
	})

	t.Run("one miss does not drop the rest", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{
			TextAnnotations: []string{"Unknown Card\nBlack Lotus"},
		}}
		resolver := &fakeResolver{cards: map[string]*model.Card{
			"Black Lotus": {Name: "Black Lotus", Domain: model.DomainMTG},
		}}

		eng := New(recognizer, resolver, WithRetryOptions(noRetry()))
		result, err := eng.Scan(context.Background(), testJPEG(t))
		require.NoError(t, err)

		require.Len(t, result.Cards, 1)
		assert.Equal(t, "Black Lotus", result.Cards[0].Card.Name)
		assert.Len(t, result.Candidates, 2)
	})

	t.Run("no candidates is an empty result, not an error", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{
			TextAnnotations: []string{"123\nHP"},
		}}
		resolver := &fakeResolver{}

		eng := New(recognizer, resolver, WithRetryOptions(noRetry()))
		result, err := eng.Scan(context.Background(), testJPEG(t))
		require.NoError(t, err)

		assert.Empty(t, result.Cards)
		assert.Empty(t, result.Candidates)
		assert.Empty(t, resolver.calls)
	})

	t.Run("recognition failure aborts the scan", func(t *testing.T) {
		recognizer := &fakeRecognizer{err: errors.New("service unavailable")}

		eng := New(recognizer, &fakeResolver{}, WithRetryOptions(noRetry()))
		_, err := eng.Scan(context.Background(), testJPEG(t))
		assert.ErrorIs(t, err, common.ErrRecognitionService)
	})

	t.Run("bad image aborts before recognition", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{}}

		eng := New(recognizer, &fakeResolver{}, WithRetryOptions(noRetry()))
		_, err := eng.Scan(context.Background(), []byte("not an image"))
		assert.ErrorIs(t, err, common.ErrImageProcessing)
	})

	t.Run("reports progress for every candidate", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{
			TextAnnotations: []string{"Black Lotus\nCharizard Base\nUnknown Card"},
		}}
		resolver := &fakeResolver{cards: map[string]*model.Card{
			"Black Lotus": {Name: "Black Lotus", Domain: model.DomainMTG},
		}}

		var mu sync.Mutex
		var updates []int
		eng := New(recognizer, resolver,
			WithRetryOptions(noRetry()),
			WithProgress(func(completed, total int) {
				mu.Lock()
				defer mu.Unlock()
				updates = append(updates, completed)
				assert.Equal(t, 3, total)
			}))

		_, err := eng.Scan(context.Background(), testJPEG(t))
		require.NoError(t, err)

		assert.Len(t, updates, 3)
		assert.Contains(t, updates, 3)
	})

	t.Run("progress callbacks never overlap", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{
			TextAnnotations: []string{"Alpha One\nBeta Two\nGamma Three\nDelta Four\nEpsilon Five"},
		}}

		// Consumers are promised serialized callbacks; detect any overlap
		// with an entry flag held across a deliberate pause.
		var inCallback int32
		var overlaps int32
		var calls int32
		eng := New(recognizer, &fakeResolver{},
			WithRetryOptions(noRetry()),
			WithProgress(func(_, _ int) {
				if !atomic.CompareAndSwapInt32(&inCallback, 0, 1) {
					atomic.AddInt32(&overlaps, 1)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&calls, 1)
				atomic.StoreInt32(&inCallback, 0)
			}))

		_, err := eng.Scan(context.Background(), testJPEG(t))
		require.NoError(t, err)

		assert.Zero(t, atomic.LoadInt32(&overlaps))
		assert.EqualValues(t, 5, atomic.LoadInt32(&calls))
	})

	t.Run("keeps card-like objects from object detection", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{
			TextAnnotations: []string{"Black Lotus"},
			Objects: []service.LocalizedObject{
				{Name: "Rectangle", Score: 0.8},
				{Name: "Table", Score: 0.9},
			},
		}}
		resolver := &fakeResolver{cards: map[string]*model.Card{
			"Black Lotus": {Name: "Black Lotus", Domain: model.DomainMTG},
		}}

		eng := New(recognizer, resolver, WithRetryOptions(noRetry()))
		result, err := eng.Scan(context.Background(), testJPEG(t))
		require.NoError(t, err)

		require.Len(t, result.CardObjects, 1)
		assert.Equal(t, "Rectangle", result.CardObjects[0].Name)
	})
}

func TestScanSingle(t *testing.T) {
	t.Run("resolves the best web entity", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{
			TextAnnotations: []string{"noisy ocr text"},
			WebEntities: []service.WebEntity{
				{Description: "Charizard", Score: 0.95},
			},
		}}
		resolver := &fakeResolver{cards: map[string]*model.Card{
			"Charizard": {Name: "Charizard", Domain: model.DomainPokemon},
		}}

		eng := New(recognizer, resolver, WithRetryOptions(noRetry()))
		card, err := eng.ScanSingle(context.Background(), testJPEG(t))
		require.NoError(t, err)

		assert.Equal(t, "Charizard", card.Card.Name)
		assert.Equal(t, 0.90, card.Confidence)
		assert.NotEmpty(t, card.ID)
	})

	t.Run("nothing recognized", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{}}

		eng := New(recognizer, &fakeResolver{}, WithRetryOptions(noRetry()))
		_, err := eng.ScanSingle(context.Background(), testJPEG(t))
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("catalog miss", func(t *testing.T) {
		recognizer := &fakeRecognizer{result: &service.RecognitionResult{
			WebEntities: []service.WebEntity{{Description: "Charizard", Score: 0.95}},
		}}

		eng := New(recognizer, &fakeResolver{}, WithRetryOptions(noRetry()))
		_, err := eng.ScanSingle(context.Background(), testJPEG(t))
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}
