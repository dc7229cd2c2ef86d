package rules

import (
	"fmt"

	"waste-scan/api/internal/waste"
)

// ApplyClarification resolves a previously asked yes/no question into a
// final bin. Stateless: the caller echoes back the question id and the
// top labels it got from the classify step. Clarification is strictly one
// level deep, so this never asks a follow-up. An unrecognized question id
// is a defined terminal outcome, not an error.
func ApplyClarification(questionID string, answer bool, priorTopLabels []waste.LabelScore) waste.Result {
	answered := waste.RationaleItem{
		Type: waste.RationaleUserInput,
		Text: fmt.Sprintf("Answered %s = %t", questionID, answer),
	}
	top := waste.TopN(priorTopLabels, 5)

	switch questionID {
	case "q_food_soiled_01":
		if answer {
			return waste.Result{
				Bin:             waste.BinGreen,
				BinLabel:        waste.BinGreen.DisplayLabel(),
				Confidence:      waste.ConfidenceMedium,
				ConfidenceScore: 0.70,
				Rationale: []waste.RationaleItem{answered, {
					Type: waste.RationaleRule,
					Text: "Food-soiled paper goes in organics (where accepted)",
				}},
				TopLabels: top,
			}
		}
		return waste.Result{
			Bin:             waste.BinBlue,
			BinLabel:        waste.BinBlue.DisplayLabel(),
			Confidence:      waste.ConfidenceMedium,
			ConfidenceScore: 0.70,
			Rationale: []waste.RationaleItem{answered, {
				Type: waste.RationaleRule,
				Text: "Clean paper/cardboard typically goes in recycling",
			}},
			TopLabels: top,
		}

	case "q_unknown_01":
		bin := waste.BinGray
		if answer {
			bin = waste.BinGreen
		}
		return waste.Result{
			Bin:             bin,
			BinLabel:        bin.DisplayLabel(),
			Confidence:      waste.ConfidenceLow,
			ConfidenceScore: 0.55,
			Rationale: []waste.RationaleItem{answered, {
				Type: waste.RationaleRule,
				Text: "Heuristic decision based on your answer",
			}},
			TopLabels: top,
		}
	}

	return waste.Result{
		Bin:             waste.BinUnknown,
		BinLabel:        waste.BinUnknown.DisplayLabel(),
		Confidence:      waste.ConfidenceLow,
		ConfidenceScore: 0.0,
		Rationale: []waste.RationaleItem{answered, {
			Type: waste.RationaleSystem,
			Text: "Unknown clarification question",
		}},
		TopLabels: top,
	}
}
