// Package gemini implements the vision engine on the Gemini SDK with JSON
// response forcing.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"waste-scan/api/internal/util"
	"waste-scan/api/internal/vision"
	"waste-scan/api/internal/waste"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

const profileSystem = `You are a computer vision classifier for consumer waste items.
Analyze the primary item in the photo and answer with STRICT JSON only:
{
  "material": "paper_cardboard" | "rigid_plastic" | "film_plastic" | "metal" | "glass" | "organic" | "textile" | "unknown",
  "form_factor": "bottle" | "can" | "box" | "bag_film" | "cup" | "tray" | "utensil" | "sheet" | "mixed" | "unknown",
  "contamination_risk": "low" | "medium" | "high" | "unknown",
  "special_handling": "battery" | "e_waste" | "hhw" | "sharps" | "none",
  "confidence": number between 0 and 1,
  "raw_labels": [{"label": string, "score": number between 0 and 1}, ...]
}
raw_labels holds 2-5 short concrete labels, best first. Use "unknown" (or "none"
for special_handling) instead of guessing.`

const labelsSystem = `You are a computer vision classifier for consumer waste items.
Return 2-5 short, concrete labels for the primary item in the photo, each with a
confidence score between 0 and 1. Answer with STRICT JSON only:
{"labels": [{"label": string, "score": number}, ...]}`

func (e *Engine) DetectItemProfile(ctx context.Context, img []byte, mime string) (waste.ItemProfile, error) {
	out, err := e.generate(ctx, img, mime, profileSystem)
	if err != nil {
		return waste.ItemProfile{}, err
	}
	var p waste.ItemProfile
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return waste.ItemProfile{}, fmt.Errorf("gemini profile: bad JSON: %w", err)
	}
	return vision.Normalize(p), nil
}

func (e *Engine) DetectLabels(ctx context.Context, img []byte, mime string) ([]waste.LabelScore, error) {
	out, err := e.generate(ctx, img, mime, labelsSystem)
	if err != nil {
		return nil, err
	}
	var r struct {
		Labels []waste.LabelScore `json:"labels"`
	}
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		return nil, fmt.Errorf("gemini labels: bad JSON: %w", err)
	}
	return vision.NormalizeLabels(r.Labels), nil
}

func (e *Engine) generate(ctx context.Context, img []byte, mime, system string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	if mime == "" {
		mime = util.SniffMimeHTTP(img)
	}
	parts := []genai.Part{
		genai.Text("Answer with strict JSON only."),
		&genai.Blob{MIMEType: mime, Data: img},
	}

	// Retries for 5xx/transient failures.
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return "", fmt.Errorf("gemini: empty response")
		}
		return util.StripCodeFences(strings.TrimSpace(txt)), nil
	}
	return "", lastErr
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
