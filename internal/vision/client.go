// Package vision integrates with the Google Cloud Vision API for card text
// and object recognition.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"cardlens/internal/common"
	"cardlens/internal/service"
)

const (
	featureText    = "TEXT_DETECTION"
	featureObjects = "OBJECT_LOCALIZATION"
	featureWeb     = "WEB_DETECTION"

	// callTimeout bounds each annotate call so a hung connection surfaces as
	// a retryable error instead of blocking the scan.
	callTimeout = 15 * time.Second
)

// Client calls the Vision images:annotate endpoint.
type Client struct {
	svc     *vision.Service
	timeout time.Duration
}

// NewClient creates a Vision client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: vision API key", common.ErrMissingConfig)
	}
	return NewClientWithOptions(ctx, option.WithAPIKey(apiKey))
}

// NewClientWithOptions creates a Vision client with explicit client options.
// Tests use this to point the client at a fake backend.
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision service: %w", err)
	}
	return &Client{svc: svc, timeout: callTimeout}, nil
}

// Annotate requests full-text extraction plus coarse object localization for a
// multi-card scan. An empty result is valid and means nothing was recognized.
func (c *Client) Annotate(ctx context.Context, imageJPEG []byte) (*service.RecognitionResult, error) {
	return c.annotate(ctx, imageJPEG, []*vision.Feature{
		{Type: featureText, MaxResults: 50},
		{Type: featureObjects, MaxResults: 10},
	})
}

// AnnotateWeb requests web-entity detection plus text extraction, used for the
// single-card recognition path.
func (c *Client) AnnotateWeb(ctx context.Context, imageJPEG []byte) (*service.RecognitionResult, error) {
	return c.annotate(ctx, imageJPEG, []*vision.Feature{
		{Type: featureWeb, MaxResults: 5},
		{Type: featureText, MaxResults: 10},
	})
}

func (c *Client) annotate(ctx context.Context, imageJPEG []byte, features []*vision.Feature) (*service.RecognitionResult, error) {
	if len(imageJPEG) == 0 {
		return nil, fmt.Errorf("%w: empty image payload", common.ErrImageProcessing)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	batch := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(imageJPEG)},
				Features: features,
			},
		},
	}

	resp, err := c.svc.Images.Annotate(batch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRecognitionService, err)
	}
	if len(resp.Responses) == 0 {
		return &service.RecognitionResult{}, nil
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrRecognitionService, annotation.Error.Message)
	}

	result := &service.RecognitionResult{}
	for _, text := range annotation.TextAnnotations {
		result.TextAnnotations = append(result.TextAnnotations, text.Description)
	}
	for _, obj := range annotation.LocalizedObjectAnnotations {
		result.Objects = append(result.Objects, service.LocalizedObject{
			Name:  obj.Name,
			Score: obj.Score,
		})
	}
	if annotation.WebDetection != nil {
		for _, entity := range annotation.WebDetection.WebEntities {
			result.WebEntities = append(result.WebEntities, service.WebEntity{
				Description: entity.Description,
				Score:       entity.Score,
			})
		}
	}

	return result, nil
}
