package rules

import (
	"fmt"

	"waste-scan/api/internal/waste"
)

// profileRule is one row of the ordered decision table. Rules are evaluated
// top to bottom, first match wins; the order encodes policy priority and
// must not be reshuffled.
type profileRule struct {
	name  string
	match func(p waste.ItemProfile) bool
	apply func(p waste.ItemProfile) Decision
}

// recyclableMaterial covers the curbside-recyclable materials. Film plastic
// is deliberately excluded: it jams sorting machinery and is policy-banned
// from curbside recycling.
func recyclableMaterial(m waste.Material) bool {
	switch m {
	case waste.MaterialPaperCardboard, waste.MaterialMetal, waste.MaterialGlass, waste.MaterialRigidPlastic:
		return true
	}
	return false
}

var profileTable = []profileRule{
	{
		// Safety first: special-handling items never reach a curbside rule
		// and are never deferred to the user.
		name:  "special_handling",
		match: func(p waste.ItemProfile) bool { return p.SpecialHandling != waste.SpecialNone && p.SpecialHandling != "" },
		apply: func(p waste.ItemProfile) Decision {
			sh := specialHandlingFor(p.SpecialHandling)
			return Decision{
				Result: profileResult(p, waste.BinSpecial, waste.RationaleItem{
					Type: waste.RationaleSafety,
					Text: fmt.Sprintf("Items flagged %q require special disposal", string(p.SpecialHandling)),
				}),
				SpecialHandling: sh,
			}
		},
	},
	{
		name:  "organic",
		match: func(p waste.ItemProfile) bool { return p.Material == waste.MaterialOrganic },
		apply: func(p waste.ItemProfile) Decision {
			return Decision{Result: profileResult(p, waste.BinGreen, waste.RationaleItem{
				Type: waste.RationaleRule,
				Text: "Food and food scraps go in organics",
			})}
		},
	},
	{
		name: "clean_recyclable",
		match: func(p waste.ItemProfile) bool {
			return recyclableMaterial(p.Material) && p.ContaminationRisk == waste.ContaminationLow
		},
		apply: func(p waste.ItemProfile) Decision {
			return Decision{Result: profileResult(p, waste.BinBlue, waste.RationaleItem{
				Type: waste.RationaleRule,
				Text: "Clean paper, metal, glass and rigid plastics go in recycling",
			})}
		},
	},
	{
		name:  "film_plastic",
		match: func(p waste.ItemProfile) bool { return p.Material == waste.MaterialFilmPlastic },
		apply: func(p waste.ItemProfile) Decision {
			return Decision{Result: profileResult(p, waste.BinGray, waste.RationaleItem{
				Type: waste.RationaleRule,
				Text: "Plastic film/bags are not accepted in curbside recycling",
			})}
		},
	},
	{
		name: "paper_contamination_unknown",
		match: func(p waste.ItemProfile) bool {
			return p.Material == waste.MaterialPaperCardboard && p.ContaminationRisk == waste.ContaminationUnknown
		},
		apply: func(p waste.ItemProfile) Decision {
			return Decision{
				Result: profileResult(p, waste.BinUnknown, waste.RationaleItem{
					Type: waste.RationaleRule,
					Text: "Paper can be recycling if clean; organics/trash if food-soiled",
				}),
				NeedsClarification: true,
				Clarification:      clarifyFoodSoiled(),
			}
		},
	},
	{
		// Paper has its own contamination policy: soiled paper composts,
		// so it must be intercepted before the generic contaminated rule.
		name: "paper_contamination_high",
		match: func(p waste.ItemProfile) bool {
			return p.Material == waste.MaterialPaperCardboard && p.ContaminationRisk == waste.ContaminationHigh
		},
		apply: func(p waste.ItemProfile) Decision {
			return Decision{Result: profileResult(p, waste.BinGreen, waste.RationaleItem{
				Type: waste.RationaleRule,
				Text: "Heavily food-soiled paper goes in organics (where accepted)",
			})}
		},
	},
	{
		name: "paper_contamination_medium",
		match: func(p waste.ItemProfile) bool {
			return p.Material == waste.MaterialPaperCardboard && p.ContaminationRisk == waste.ContaminationMedium
		},
		apply: func(p waste.ItemProfile) Decision {
			return Decision{Result: profileResult(p, waste.BinGreen, waste.RationaleItem{
				Type: waste.RationaleRule,
				Text: "Food-soiled paper goes in organics (where accepted)",
			})}
		},
	},
	{
		name: "contaminated_recyclable",
		match: func(p waste.ItemProfile) bool {
			return recyclableMaterial(p.Material) &&
				(p.ContaminationRisk == waste.ContaminationMedium || p.ContaminationRisk == waste.ContaminationHigh)
		},
		apply: func(p waste.ItemProfile) Decision {
			return Decision{Result: profileResult(p, waste.BinGray, waste.RationaleItem{
				Type: waste.RationaleRule,
				Text: "Contaminated recyclables go in the trash",
			})}
		},
	},
	{
		name: "unidentified",
		match: func(p waste.ItemProfile) bool {
			return p.Material == waste.MaterialUnknown || p.FormFactor == waste.FormUnknown
		},
		apply: func(p waste.ItemProfile) Decision {
			return Decision{
				Result: profileResult(p, waste.BinUnknown, waste.RationaleItem{
					Type: waste.RationaleRule,
					Text: "Could not identify the item with confidence",
				}),
				NeedsClarification: true,
				Clarification:      clarifyUnknown(),
			}
		},
	},
	{
		name:  "fallback",
		match: func(p waste.ItemProfile) bool { return true },
		apply: func(p waste.ItemProfile) Decision {
			return Decision{
				Result: profileResult(p, waste.BinUnknown, waste.RationaleItem{
					Type: waste.RationaleSystem,
					Text: "Unable to determine a bin; falling back to clarification",
				}),
				NeedsClarification: true,
				Clarification:      clarifyUnknown(),
			}
		},
	},
}

// DecideProfile runs the ordered decision table over a structured item
// profile. jurisdictionID is an opaque placeholder: a single default rule
// table applies everywhere today.
func DecideProfile(p waste.ItemProfile, jurisdictionID string) Decision {
	_ = jurisdictionID
	for _, r := range profileTable {
		if r.match(p) {
			return r.apply(p)
		}
	}
	// Unreachable: the fallback rule matches everything.
	return profileTable[len(profileTable)-1].apply(p)
}

// profileResult assembles the shared Result frame: bucketed confidence,
// truncated top labels, and a DETECTED_ITEM opening rationale entry
// followed by the rule-specific one.
func profileResult(p waste.ItemProfile, bin waste.Bin, verdict waste.RationaleItem) waste.Result {
	detected := waste.RationaleItem{
		Type: waste.RationaleDetectedItem,
		Text: fmt.Sprintf("Detected material=%s form=%s contamination=%s",
			string(p.Material), string(p.FormFactor), string(p.ContaminationRisk)),
	}
	return waste.Result{
		Bin:             bin,
		BinLabel:        bin.DisplayLabel(),
		Confidence:      BucketConfidence(p.Confidence),
		ConfidenceScore: p.Confidence,
		Rationale:       []waste.RationaleItem{detected, verdict},
		TopLabels:       waste.TopN(p.RawLabels, 5),
	}
}
