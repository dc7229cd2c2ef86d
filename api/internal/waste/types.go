// Package waste holds the data contracts shared by the vision providers
// and the decision engines. Pure data, no logic: every value is built per
// request and never mutated afterwards.
package waste

// Bin is the terminal disposal recommendation.
type Bin string

const (
	BinBlue    Bin = "BLUE"    // recycling
	BinGreen   Bin = "GREEN"   // organics
	BinGray    Bin = "GRAY"    // landfill
	BinSpecial Bin = "SPECIAL" // special handling required
	BinUnknown Bin = "UNKNOWN" // undetermined
)

// ConfidenceLevel is the qualitative bucket of a raw confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// Material is the inferred primary material of the item.
type Material string

const (
	MaterialPaperCardboard Material = "paper_cardboard"
	MaterialRigidPlastic   Material = "rigid_plastic"
	MaterialFilmPlastic    Material = "film_plastic"
	MaterialMetal          Material = "metal"
	MaterialGlass          Material = "glass"
	MaterialOrganic        Material = "organic"
	MaterialTextile        Material = "textile"
	MaterialUnknown        Material = "unknown"
)

// FormFactor is the inferred physical shape of the item.
type FormFactor string

const (
	FormBottle  FormFactor = "bottle"
	FormCan     FormFactor = "can"
	FormBox     FormFactor = "box"
	FormBagFilm FormFactor = "bag_film"
	FormCup     FormFactor = "cup"
	FormTray    FormFactor = "tray"
	FormUtensil FormFactor = "utensil"
	FormSheet   FormFactor = "sheet"
	FormMixed   FormFactor = "mixed"
	FormUnknown FormFactor = "unknown"
)

// ContaminationRisk is the inferred food/residue contamination level.
type ContaminationRisk string

const (
	ContaminationLow     ContaminationRisk = "low"
	ContaminationMedium  ContaminationRisk = "medium"
	ContaminationHigh    ContaminationRisk = "high"
	ContaminationUnknown ContaminationRisk = "unknown"
)

// SpecialCode marks items that must never go in a curbside bin.
type SpecialCode string

const (
	SpecialBattery SpecialCode = "battery"
	SpecialEWaste  SpecialCode = "e_waste"
	SpecialHHW     SpecialCode = "hhw"
	SpecialSharps  SpecialCode = "sharps"
	SpecialNone    SpecialCode = "none"
)

// LabelScore is one free-text guess from the vision provider. Providers
// hand lists over sorted best-first.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ItemProfile is the structured inference result consumed by the profile
// decision engine. Confidence arrival contract: the producer clamps it into
// [0,1] before handing off; the engine does not re-validate.
type ItemProfile struct {
	Material          Material          `json:"material"`
	FormFactor        FormFactor        `json:"form_factor"`
	ContaminationRisk ContaminationRisk `json:"contamination_risk"`
	SpecialHandling   SpecialCode       `json:"special_handling"`
	Confidence        float64           `json:"confidence"`
	RawLabels         []LabelScore      `json:"raw_labels"`
}

// RationaleType classifies one entry of the decision audit trail.
type RationaleType string

const (
	RationaleDetectedItem RationaleType = "DETECTED_ITEM"
	RationaleRule         RationaleType = "RULE"
	RationaleUserInput    RationaleType = "USER_INPUT"
	RationaleSafety       RationaleType = "SAFETY"
	RationaleSystem       RationaleType = "SYSTEM"
)

// RationaleItem is one ordered, append-only audit entry explaining how a
// decision was reached.
type RationaleItem struct {
	Type RationaleType `json:"type"`
	Text string        `json:"text"`
}

// SpecialCategory is the outward-facing special-handling class.
type SpecialCategory string

const (
	CategoryBattery SpecialCategory = "BATTERY"
	CategoryEWaste  SpecialCategory = "E_WASTE"
	CategoryHHW     SpecialCategory = "HHW"
	CategorySharps  SpecialCategory = "SHARPS"
	CategoryUnknown SpecialCategory = "UNKNOWN"
)

// SpecialHandling is present only when the bin is SPECIAL.
type SpecialHandling struct {
	Category     SpecialCategory `json:"category"`
	Instructions string          `json:"instructions"`
	Links        []string        `json:"links"`
}

// ClarifyOption is one answer button of a boolean clarification.
type ClarifyOption struct {
	Value bool   `json:"value"`
	Label string `json:"label"`
}

// Clarification is a follow-up yes/no question. Present only when the
// decision could not be made from the photo alone.
type Clarification struct {
	QuestionID   string          `json:"question_id"`
	QuestionText string          `json:"question_text"`
	AnswerType   string          `json:"answer_type"` // always "BOOLEAN"
	Options      []ClarifyOption `json:"options"`
}

// Result is the terminal decision handed back to the caller.
type Result struct {
	Bin             Bin             `json:"bin"`
	BinLabel        string          `json:"bin_label"`
	Confidence      ConfidenceLevel `json:"confidence"`
	ConfidenceScore float64         `json:"confidence_score"`
	Rationale       []RationaleItem `json:"rationale"`
	TopLabels       []LabelScore    `json:"top_labels"`
}

// DisplayLabel returns the human-readable display name for a bin.
func (b Bin) DisplayLabel() string {
	switch b {
	case BinBlue:
		return "Recycling"
	case BinGreen:
		return "Organics"
	case BinGray:
		return "Landfill (Trash)"
	case BinSpecial:
		return "Special handling"
	default:
		return "Not sure yet"
	}
}

// TopN returns at most n labels from the front of the list. The list is
// already best-first; nil in, empty out.
func TopN(labels []LabelScore, n int) []LabelScore {
	if len(labels) > n {
		labels = labels[:n]
	}
	out := make([]LabelScore, len(labels))
	copy(out, labels)
	return out
}
