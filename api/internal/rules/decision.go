// Package rules is the deterministic decision core: it maps vision output
// (an ItemProfile or a ranked label list) to a bin recommendation, and
// resolves clarification answers into a final bin. Every function here is
// pure and total: malformed-but-well-typed input falls through to an
// UNKNOWN outcome, never an error.
package rules

import "waste-scan/api/internal/waste"

// Decision is the full outcome of one engine evaluation. At most one of
// Clarification/SpecialHandling is set; Clarification set implies
// NeedsClarification.
type Decision struct {
	Result             waste.Result
	NeedsClarification bool
	Clarification      *waste.Clarification
	SpecialHandling    *waste.SpecialHandling
}

func yesNoOptions() []waste.ClarifyOption {
	return []waste.ClarifyOption{
		{Value: true, Label: "Yes"},
		{Value: false, Label: "No"},
	}
}

func clarifyFoodSoiled() *waste.Clarification {
	return &waste.Clarification{
		QuestionID:   "q_food_soiled_01",
		QuestionText: "Is it food-soiled (grease/food residue)?",
		AnswerType:   "BOOLEAN",
		Options:      yesNoOptions(),
	}
}

func clarifyUnknown() *waste.Clarification {
	return &waste.Clarification{
		QuestionID:   "q_unknown_01",
		QuestionText: "I'm not confident. Is the item mostly food/plant-based?",
		AnswerType:   "BOOLEAN",
		Options:      yesNoOptions(),
	}
}

func clarifyRetake() *waste.Clarification {
	return &waste.Clarification{
		QuestionID:   "q_try_again_01",
		QuestionText: "Could you retake the photo with one item and better lighting?",
		AnswerType:   "BOOLEAN",
		Options:      []waste.ClarifyOption{{Value: true, Label: "OK"}},
	}
}

// specialHandlingFor maps a provider special code to outward-facing
// category and instructions. Codes outside the known set get a generic
// check-local-guidelines fallback rather than failing.
func specialHandlingFor(code waste.SpecialCode) *waste.SpecialHandling {
	switch code {
	case waste.SpecialBattery:
		return &waste.SpecialHandling{
			Category:     waste.CategoryBattery,
			Instructions: "Do not place in curbside bins. Take to a household hazardous waste drop-off or a retailer collection point.",
			Links:        []string{},
		}
	case waste.SpecialEWaste:
		return &waste.SpecialHandling{
			Category:     waste.CategoryEWaste,
			Instructions: "Electronics do not go in curbside bins. Take to an e-waste collection site or a retailer take-back program.",
			Links:        []string{},
		}
	case waste.SpecialHHW:
		return &waste.SpecialHandling{
			Category:     waste.CategoryHHW,
			Instructions: "Household hazardous waste (paint, chemicals, solvents) must go to a hazardous waste facility, never a curbside bin.",
			Links:        []string{},
		}
	case waste.SpecialSharps:
		return &waste.SpecialHandling{
			Category:     waste.CategorySharps,
			Instructions: "Sharps must be sealed in an approved container and dropped off at a pharmacy or sharps collection site.",
			Links:        []string{},
		}
	default:
		return &waste.SpecialHandling{
			Category:     waste.CategoryUnknown,
			Instructions: "This item needs special disposal. Check local guidelines before binning it.",
			Links:        []string{},
		}
	}
}
