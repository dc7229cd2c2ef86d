// Package vision defines the provider adapter boundary: engines turn image
// bytes into either a structured ItemProfile (preferred) or a ranked label
// list (legacy). Implementations live in the stub, openai and gemini
// subpackages.
package vision

import (
	"context"
	"sort"
	"strings"
	"sync"

	"waste-scan/api/internal/waste"
)

type Engine interface {
	Name() string
	GetModel() string
	DetectLabels(ctx context.Context, img []byte, mime string) ([]waste.LabelScore, error)
	DetectItemProfile(ctx context.Context, img []byte, mime string) (waste.ItemProfile, error)
}

// Manager keeps a per-chat engine override on top of a process-wide
// default. Used by the bot's /engine command; the HTTP server just uses
// the default.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}

func (m *Manager) Default() Engine { return m.def }

// Normalize enforces the producer-side contract before a profile is handed
// to the decision engine: confidence and label scores clamped into [0,1],
// labels trimmed/lowercased and sorted best-first, empty enums defaulted so
// the engine sees well-formed values.
func Normalize(p waste.ItemProfile) waste.ItemProfile {
	p.Confidence = clamp01(p.Confidence)
	if p.Material == "" {
		p.Material = waste.MaterialUnknown
	}
	if p.FormFactor == "" {
		p.FormFactor = waste.FormUnknown
	}
	if p.ContaminationRisk == "" {
		p.ContaminationRisk = waste.ContaminationUnknown
	}
	if p.SpecialHandling == "" {
		p.SpecialHandling = waste.SpecialNone
	}
	p.RawLabels = NormalizeLabels(p.RawLabels)
	return p
}

// NormalizeLabels cleans a raw label list: trims/lowercases, drops empties,
// clamps scores and sorts best-first.
func NormalizeLabels(in []waste.LabelScore) []waste.LabelScore {
	out := make([]waste.LabelScore, 0, len(in))
	for _, ls := range in {
		label := strings.ToLower(strings.TrimSpace(ls.Label))
		if label == "" {
			continue
		}
		out = append(out, waste.LabelScore{Label: label, Score: clamp01(ls.Score)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
