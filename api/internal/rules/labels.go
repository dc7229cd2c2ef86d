package rules

import (
	"fmt"

	"waste-scan/api/internal/waste"
)

// Label sets for the legacy engine. These are frozen: older clients depend
// on the exact membership, so do not "improve" them; new integrations use
// DecideProfile instead.
var (
	legacySpecial   = stringSet("battery")
	legacyOrganics  = stringSet("banana peel", "food")
	legacyRecycling = stringSet("plastic bottle", "aluminum can", "glass bottle")
	legacyFilm      = stringSet("plastic bag")
	legacyPaper     = stringSet("paper box")
)

func stringSet(ss ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		m[s] = struct{}{}
	}
	return m
}

// DecideLabels is the first-generation engine operating on the single best
// free-text label. Kept for backward compatibility; coarser than
// DecideProfile and intentionally conservative.
func DecideLabels(labels []waste.LabelScore, jurisdictionID string) Decision {
	_ = jurisdictionID

	if len(labels) == 0 {
		return Decision{
			Result: waste.Result{
				Bin:             waste.BinUnknown,
				BinLabel:        waste.BinUnknown.DisplayLabel(),
				Confidence:      waste.ConfidenceLow,
				ConfidenceScore: 0.0,
				Rationale: []waste.RationaleItem{
					{Type: waste.RationaleSystem, Text: "No labels returned"},
				},
				TopLabels: []waste.LabelScore{},
			},
			NeedsClarification: true,
			Clarification:      clarifyRetake(),
		}
	}

	best := labels[0]

	if _, ok := legacySpecial[best.Label]; ok {
		return Decision{
			Result: labelResult(best, labels, waste.BinSpecial, waste.RationaleItem{
				Type: waste.RationaleSafety,
				Text: "Batteries require special disposal",
			}),
			SpecialHandling: specialHandlingFor(waste.SpecialBattery),
		}
	}

	if _, ok := legacyOrganics[best.Label]; ok {
		return Decision{Result: labelResult(best, labels, waste.BinGreen, waste.RationaleItem{
			Type: waste.RationaleRule,
			Text: "Food and food scraps go in organics",
		})}
	}

	if _, ok := legacyRecycling[best.Label]; ok {
		return Decision{Result: labelResult(best, labels, waste.BinBlue, waste.RationaleItem{
			Type: waste.RationaleRule,
			Text: "Rigid containers like bottles/cans typically go in recycling",
		})}
	}

	if _, ok := legacyFilm[best.Label]; ok {
		return Decision{Result: labelResult(best, labels, waste.BinGray, waste.RationaleItem{
			Type: waste.RationaleRule,
			Text: "Plastic film/bags are usually not accepted in curbside recycling",
		})}
	}

	if _, ok := legacyPaper[best.Label]; ok {
		return Decision{
			Result: labelResult(best, labels, waste.BinUnknown, waste.RationaleItem{
				Type: waste.RationaleRule,
				Text: "Paper can be recycling if clean; organics/trash if food-soiled",
			}),
			NeedsClarification: true,
			Clarification:      clarifyFoodSoiled(),
		}
	}

	return Decision{
		Result: labelResult(best, labels, waste.BinUnknown, waste.RationaleItem{
			Type: waste.RationaleSystem,
			Text: "Falling back to clarification for safety",
		}),
		NeedsClarification: true,
		Clarification:      clarifyUnknown(),
	}
}

func labelResult(best waste.LabelScore, labels []waste.LabelScore, bin waste.Bin, verdict waste.RationaleItem) waste.Result {
	detected := waste.RationaleItem{
		Type: waste.RationaleDetectedItem,
		Text: fmt.Sprintf("Top match: %s", best.Label),
	}
	return waste.Result{
		Bin:             bin,
		BinLabel:        bin.DisplayLabel(),
		Confidence:      BucketConfidence(best.Score),
		ConfidenceScore: best.Score,
		Rationale:       []waste.RationaleItem{detected, verdict},
		TopLabels:       waste.TopN(labels, 5),
	}
}
