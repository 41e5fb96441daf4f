package vision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"cardlens/internal/common"
)

// fakeVisionServer serves a canned images:annotate response and captures the
// request body.
func fakeVisionServer(t *testing.T, response string, captured *map[string]any) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client, err := NewClientWithOptions(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(context.Background(), "   ")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestAnnotate(t *testing.T) {
	t.Run("maps annotations into the result", func(t *testing.T) {
		var captured map[string]any
		client := fakeVisionServer(t, `{
			"responses": [{
				"textAnnotations": [
					{"description": "Black Lotus\nArtifact"},
					{"description": "Black"},
					{"description": "Lotus"}
				],
				"localizedObjectAnnotations": [
					{"name": "Rectangle", "score": 0.82}
				]
			}]
		}`, &captured)

		result, err := client.Annotate(context.Background(), []byte("jpeg-bytes"))
		require.NoError(t, err)

		assert.Equal(t, []string{"Black Lotus\nArtifact", "Black", "Lotus"}, result.TextAnnotations)
		require.Len(t, result.Objects, 1)
		assert.Equal(t, "Rectangle", result.Objects[0].Name)
		assert.InDelta(t, 0.82, result.Objects[0].Score, 0.001)

		// The request must carry the image inline and ask for text plus
		// object detection.
		requests := captured["requests"].([]any)
		require.Len(t, requests, 1)
		request := requests[0].(map[string]any)
		assert.NotEmpty(t, request["image"].(map[string]any)["content"])

		features := request["features"].([]any)
		types := make([]string, 0, len(features))
		for _, f := range features {
			types = append(types, f.(map[string]any)["type"].(string))
		}
		assert.ElementsMatch(t, []string{"TEXT_DETECTION", "OBJECT_LOCALIZATION"}, types)
	})

	t.Run("empty payload rejected before the call", func(t *testing.T) {
		client := fakeVisionServer(t, `{}`, nil)

		_, err := client.Annotate(context.Background(), nil)
		assert.ErrorIs(t, err, common.ErrImageProcessing)
	})

	t.Run("empty responses mean nothing recognized", func(t *testing.T) {
		client := fakeVisionServer(t, `{"responses": []}`, nil)

		result, err := client.Annotate(context.Background(), []byte("jpeg-bytes"))
		require.NoError(t, err)
		assert.Empty(t, result.TextAnnotations)
		assert.Empty(t, result.Objects)
	})

	t.Run("per-image error surfaces as a service failure", func(t *testing.T) {
		client := fakeVisionServer(t, `{
			"responses": [{"error": {"code": 7, "message": "quota exceeded"}}]
		}`, nil)

		_, err := client.Annotate(context.Background(), []byte("jpeg-bytes"))
		assert.ErrorIs(t, err, common.ErrRecognitionService)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}

func TestAnnotateWeb(t *testing.T) {
	var captured map[string]any
	client := fakeVisionServer(t, `{
		"responses": [{
			"textAnnotations": [{"description": "Charizard"}],
			"webDetection": {
				"webEntities": [
					{"description": "Charizard", "score": 0.93}
				]
			}
		}]
	}`, &captured)

	result, err := client.AnnotateWeb(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)

	require.Len(t, result.WebEntities, 1)
	assert.Equal(t, "Charizard", result.WebEntities[0].Description)
	assert.InDelta(t, 0.93, result.WebEntities[0].Score, 0.001)

	requests := captured["requests"].([]any)
	features := requests[0].(map[string]any)["features"].([]any)
	types := make([]string, 0, len(features))
	for _, f := range features {
		types = append(types, f.(map[string]any)["type"].(string))
	}
	assert.ElementsMatch(t, []string{"WEB_DETECTION", "TEXT_DETECTION"}, types)
}
