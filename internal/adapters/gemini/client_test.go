package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purushottamk3112/MoodVibe/internal/config"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.GeminiConfig{
		APIKey:             "test-key",
		BaseURL:            baseURL,
		HTTPTimeoutSeconds: 1,
	}, quietLogger())
}

func modelResponse(genresJSON string) string {
	body := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": genresJSON}},
				},
			},
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func TestAnalyzeMood(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		wantGenres   []string
	}{
		{
			name:         "success",
			status:       http.StatusOK,
			responseBody: modelResponse(`{"genres":["jazz","soul","funk","blues","r&b"]}`),
			wantGenres:   []string{"jazz", "soul", "funk", "blues", "r&b"},
		},
		{
			name:         "malformed genre payload falls back",
			status:       http.StatusOK,
			responseBody: modelResponse(`not json at all`),
			wantGenres:   fallbackGenres,
		},
		{
			name:         "wrong genre count falls back",
			status:       http.StatusOK,
			responseBody: modelResponse(`{"genres":["jazz","soul"]}`),
			wantGenres:   fallbackGenres,
		},
		{
			name:         "empty candidates falls back",
			status:       http.StatusOK,
			responseBody: `{"candidates":[]}`,
			wantGenres:   fallbackGenres,
		},
		{
			name:         "client error falls back",
			status:       http.StatusBadRequest,
			responseBody: `{"error":{"code":400,"message":"bad request"}}`,
			wantGenres:   fallbackGenres,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest generateRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, fmt.Sprintf("/v1beta/models/%s:generateContent", model), r.URL.Path)
				require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := newTestClient(srv.URL)
			analysis, err := client.AnalyzeMood(context.Background(), "feeling groovy")

			require.NoError(t, err)
			assert.Equal(t, tt.wantGenres, analysis.Genres)

			require.Len(t, gotRequest.Contents, 1)
			assert.Equal(t, "feeling groovy", gotRequest.Contents[0].Parts[0].Text)
			assert.Equal(t, systemPrompt, gotRequest.SystemInstruction.Parts[0].Text)
			assert.Equal(t, "application/json", gotRequest.GenerationConfig.ResponseMimeType)
		})
	}
}

func TestAnalyzeMoodRetriesTransientFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(modelResponse(`{"genres":["jazz","soul","funk","blues","r&b"]}`)))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	analysis, err := client.AnalyzeMood(context.Background(), "mellow evening")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"jazz", "soul", "funk", "blues", "r&b"}, analysis.Genres)
}

func TestAnalyzeMoodFallsBackAfterRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	analysis, err := client.AnalyzeMood(context.Background(), "stormy")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, fallbackGenres, analysis.Genres)
}

func TestAnalyzeMoodDoesNotRetryParseFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(modelResponse(`{"genres":["only one"]}`)))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	analysis, err := client.AnalyzeMood(context.Background(), "stormy")

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, fallbackGenres, analysis.Genres)
}
