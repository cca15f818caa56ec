// Package findings wraps the medical image captioning collaborator. A
// sidecar service produces the caption when one is reachable; the offline
// client keeps the product usable without it.
package findings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Entity is a clinical concept recognized in the caption, tagged with its
// UMLS concept identifier when known.
type Entity struct {
	Label      string  `json:"label"`
	CUI        string  `json:"cui,omitempty"`
	Confidence float64 `json:"confidence"`
	Location   string  `json:"location,omitempty"`
}

// Analysis is the captioning result handed to the deliberation layer.
type Analysis struct {
	Caption    string   `json:"caption"`
	Confidence float64  `json:"confidence"`
	Entities   []Entity `json:"entities"`
	Impression string   `json:"impression,omitempty"`
	Source     string   `json:"source"`
}

// Client produces an analysis for one uploaded image.
type Client interface {
	Describe(ctx context.Context, image []byte, filename string) (Analysis, error)
}

// HTTPClient calls the captioning sidecar over its JSON API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = &HTTPClient{}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type analyzeRequest struct {
	Filename string `json:"filename"`
	Image    []byte `json:"image"` // base64 via encoding/json
}

type analyzeResponse struct {
	Caption    string   `json:"caption"`
	Confidence float64  `json:"confidence"`
	Entities   []Entity `json:"entities"`
	Impression string   `json:"impression"`
	Error      string   `json:"error,omitempty"`
}

func (c *HTTPClient) Describe(ctx context.Context, image []byte, filename string) (Analysis, error) {
	payload, err := json.Marshal(analyzeRequest{Filename: filename, Image: image})
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/analyze", bytes.NewBuffer(payload))
	if err != nil {
		return Analysis{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("captioning request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Analysis{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Analysis{}, fmt.Errorf("captioning error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var analyzeResp analyzeResponse
	if err := json.Unmarshal(bodyBytes, &analyzeResp); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if analyzeResp.Error != "" {
		return Analysis{}, fmt.Errorf("captioning service returned error: %s", analyzeResp.Error)
	}

	analysis := Analysis{
		Caption:    PostprocessCaption(analyzeResp.Caption),
		Confidence: NormalizeConfidence(analyzeResp.Confidence),
		Entities:   analyzeResp.Entities,
		Impression: strings.TrimSpace(analyzeResp.Impression),
		Source:     "medblip",
	}
	for i := range analysis.Entities {
		analysis.Entities[i].Confidence = NormalizeConfidence(analysis.Entities[i].Confidence)
	}
	if len(analysis.Entities) == 0 {
		analysis.Entities = ExtractEntities(analysis.Caption)
	}
	return analysis, nil
}

// PostprocessCaption tidies raw model output for clinical readers.
func PostprocessCaption(raw string) string {
	caption := strings.TrimSpace(raw)
	if caption == "" {
		return ""
	}
	if len(caption) > 1 {
		caption = strings.ToUpper(caption[:1]) + caption[1:]
	} else {
		caption = strings.ToUpper(caption)
	}
	if !strings.HasSuffix(caption, ".") {
		caption += "."
	}
	return caption
}

// NormalizeConfidence maps percentage-style scores onto [0,1].
func NormalizeConfidence(score float64) float64 {
	if score > 1 {
		score = score / 100
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
