package findings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostprocessCaption(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"capitalized and terminated", "clear lung fields", "Clear lung fields."},
		{"already clean", "Heart size is normal.", "Heart size is normal."},
		{"whitespace trimmed", "  bilateral infiltrates  ", "Bilateral infiltrates."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostprocessCaption(tt.in))
		})
	}
}

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"fraction kept", 0.83, 0.83},
		{"percentage rescaled", 87, 0.87},
		{"negative clamped", -0.2, 0},
		{"overscaled clamped", 250, 1},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeConfidence(tt.in), 1e-9)
		})
	}
}

func TestExtractEntities(t *testing.T) {
	entities := ExtractEntities("Right lower lobe consolidation with a small pleural effusion.")

	labels := map[string]string{}
	for _, e := range entities {
		labels[e.Label] = e.CUI
	}
	assert.Equal(t, "C0521530", labels["consolidation"])
	assert.Equal(t, "C0032227", labels["pleural effusion"])
}

func TestExtractEntitiesNegation(t *testing.T) {
	entities := ExtractEntities("No evidence of pneumonia or pleural effusion. Cardiomegaly is present.")

	labels := map[string]bool{}
	for _, e := range entities {
		labels[e.Label] = true
	}
	assert.False(t, labels["pneumonia"], "negated mention must be skipped")
	assert.True(t, labels["cardiomegaly"])
}

func TestOfflineClientDeterministic(t *testing.T) {
	client := NewOfflineClient()
	image := []byte("fake-png-bytes")

	first, err := client.Describe(context.Background(), image, "chest.png")
	require.NoError(t, err)
	second, err := client.Describe(context.Background(), image, "chest.png")
	require.NoError(t, err)

	assert.Equal(t, first.Caption, second.Caption, "same upload must yield the same caption")
	assert.Equal(t, "offline", first.Source)
	assert.NotEmpty(t, first.Caption)
}

func TestHTTPClientDescribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze", r.URL.Path)

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "chest.png", req.Filename)

		json.NewEncoder(w).Encode(analyzeResponse{
			Caption:    "right lower lobe consolidation",
			Confidence: 92,
			Impression: "Findings suggestive of an infectious process.",
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	analysis, err := client.Describe(context.Background(), []byte("img"), "chest.png")
	require.NoError(t, err)

	assert.Equal(t, "Right lower lobe consolidation.", analysis.Caption)
	assert.InDelta(t, 0.92, analysis.Confidence, 1e-9)
	assert.Equal(t, "medblip", analysis.Source)
	require.NotEmpty(t, analysis.Entities, "keyword entities derived from the caption")
	assert.Equal(t, "consolidation", analysis.Entities[0].Label)
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	_, err := client.Describe(context.Background(), []byte("img"), "chest.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
