// Package openai implements the vision engine on the OpenAI
// chat-completions API with an image part and strict JSON output.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"waste-scan/api/internal/util"
	"waste-scan/api/internal/vision"
	"waste-scan/api/internal/waste"
)

type Engine struct {
	APIKey string
	Model  string
	httpc  *http.Client
}

func New(key, model string) *Engine {
	return &Engine{
		APIKey: key,
		Model:  model,
		httpc:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *Engine) Name() string     { return "openai" }
func (e *Engine) GetModel() string { return e.Model }

const profileSystem = `You are a computer vision classifier for consumer waste items.
Analyze the primary item in the photo and return STRICT JSON, no text outside JSON:
{
  "material": "paper_cardboard" | "rigid_plastic" | "film_plastic" | "metal" | "glass" | "organic" | "textile" | "unknown",
  "form_factor": "bottle" | "can" | "box" | "bag_film" | "cup" | "tray" | "utensil" | "sheet" | "mixed" | "unknown",
  "contamination_risk": "low" | "medium" | "high" | "unknown",
  "special_handling": "battery" | "e_waste" | "hhw" | "sharps" | "none",
  "confidence": number between 0 and 1,
  "raw_labels": [{"label": string, "score": number between 0 and 1}, ...]  // 2-5 short concrete labels, best first
}
If unsure about a field, use "unknown" (or "none" for special_handling) rather than guessing.`

const labelsSystem = `You are a computer vision classifier for consumer waste items.
Return 2-5 short, concrete labels describing the primary item in the photo, with a confidence score
between 0 and 1 for each. Examples: "plastic bottle", "aluminum can", "paper box", "battery",
"glass bottle", "plastic bag", "food". If the photo is unclear, still return your best guesses.
Return STRICT JSON only: {"labels": [{"label": string, "score": number}, ...]}`

func (e *Engine) DetectItemProfile(ctx context.Context, img []byte, mime string) (waste.ItemProfile, error) {
	out, err := e.complete(ctx, img, mime, profileSystem)
	if err != nil {
		return waste.ItemProfile{}, err
	}
	var p waste.ItemProfile
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return waste.ItemProfile{}, fmt.Errorf("openai profile: bad JSON: %w", err)
	}
	return vision.Normalize(p), nil
}

func (e *Engine) DetectLabels(ctx context.Context, img []byte, mime string) ([]waste.LabelScore, error) {
	out, err := e.complete(ctx, img, mime, labelsSystem)
	if err != nil {
		return nil, err
	}
	var r struct {
		Labels []waste.LabelScore `json:"labels"`
	}
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		return nil, fmt.Errorf("openai labels: bad JSON: %w", err)
	}
	return vision.NormalizeLabels(r.Labels), nil
}

func (e *Engine) complete(ctx context.Context, img []byte, mime, system string) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is empty")
	}
	if mime == "" {
		mime = util.SniffMimeHTTP(img)
	}
	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img)

	body := map[string]any{
		"model": e.Model,
		"messages": []any{
			map[string]any{"role": "system", "content": system},
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": "Answer with strict JSON only."},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": dataURL, "detail": "high"}},
				},
			},
		},
		"temperature":     0,
		"response_format": map[string]any{"type": "json_object"},
	}
	payload, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return util.StripCodeFences(strings.TrimSpace(raw.Choices[0].Message.Content)), nil
}
