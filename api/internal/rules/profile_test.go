package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waste-scan/api/internal/waste"
)

func profile(m waste.Material, f waste.FormFactor, c waste.ContaminationRisk, s waste.SpecialCode, conf float64) waste.ItemProfile {
	return waste.ItemProfile{
		Material:          m,
		FormFactor:        f,
		ContaminationRisk: c,
		SpecialHandling:   s,
		Confidence:        conf,
	}
}

func TestDecideProfileSpecialHandling(t *testing.T) {
	t.Parallel()

	codes := map[waste.SpecialCode]waste.SpecialCategory{
		waste.SpecialBattery: waste.CategoryBattery,
		waste.SpecialEWaste:  waste.CategoryEWaste,
		waste.SpecialHHW:     waste.CategoryHHW,
		waste.SpecialSharps:  waste.CategorySharps,
	}
	for code, category := range codes {
		t.Run(string(code), func(t *testing.T) {
			d := DecideProfile(profile(waste.MaterialMetal, waste.FormMixed, waste.ContaminationLow, code, 0.9), "CA_DEFAULT")

			assert.Equal(t, waste.BinSpecial, d.Result.Bin)
			assert.False(t, d.NeedsClarification, "safety outcomes are never deferred to the user")
			assert.Nil(t, d.Clarification)
			require.NotNil(t, d.SpecialHandling)
			assert.Equal(t, category, d.SpecialHandling.Category)
			assert.NotEmpty(t, d.SpecialHandling.Instructions)
		})
	}

	t.Run("unmapped code falls back to UNKNOWN category", func(t *testing.T) {
		d := DecideProfile(profile(waste.MaterialMetal, waste.FormMixed, waste.ContaminationLow, "asbestos", 0.9), "CA_DEFAULT")

		assert.Equal(t, waste.BinSpecial, d.Result.Bin)
		require.NotNil(t, d.SpecialHandling)
		assert.Equal(t, waste.CategoryUnknown, d.SpecialHandling.Category)
		assert.Contains(t, d.SpecialHandling.Instructions, "local guidelines")
	})

	t.Run("special beats organic", func(t *testing.T) {
		d := DecideProfile(profile(waste.MaterialOrganic, waste.FormMixed, waste.ContaminationHigh, waste.SpecialBattery, 0.9), "CA_DEFAULT")
		assert.Equal(t, waste.BinSpecial, d.Result.Bin)
	})
}

func TestDecideProfileOrganics(t *testing.T) {
	t.Parallel()

	for _, c := range []waste.ContaminationRisk{
		waste.ContaminationLow, waste.ContaminationMedium, waste.ContaminationHigh, waste.ContaminationUnknown,
	} {
		d := DecideProfile(profile(waste.MaterialOrganic, waste.FormMixed, c, waste.SpecialNone, 0.8), "CA_DEFAULT")
		assert.Equal(t, waste.BinGreen, d.Result.Bin, "contamination %s", c)
		assert.False(t, d.NeedsClarification)
	}
}

func TestDecideProfileCleanRecyclables(t *testing.T) {
	t.Parallel()

	d := DecideProfile(profile(waste.MaterialRigidPlastic, waste.FormBottle, waste.ContaminationLow, waste.SpecialNone, 0.9), "CA_DEFAULT")

	assert.Equal(t, waste.BinBlue, d.Result.Bin)
	assert.Equal(t, waste.ConfidenceHigh, d.Result.Confidence)
	assert.Equal(t, 0.9, d.Result.ConfidenceScore)
	assert.False(t, d.NeedsClarification)
	assert.Nil(t, d.SpecialHandling)

	for _, m := range []waste.Material{
		waste.MaterialPaperCardboard, waste.MaterialMetal, waste.MaterialGlass,
	} {
		d := DecideProfile(profile(m, waste.FormMixed, waste.ContaminationLow, waste.SpecialNone, 0.9), "CA_DEFAULT")
		assert.Equal(t, waste.BinBlue, d.Result.Bin, "material %s", m)
	}
}

func TestDecideProfileFilmPlastic(t *testing.T) {
	t.Parallel()

	// Film plastic is landfill no matter the contamination.
	for _, c := range []waste.ContaminationRisk{
		waste.ContaminationLow, waste.ContaminationMedium, waste.ContaminationHigh, waste.ContaminationUnknown,
	} {
		d := DecideProfile(profile(waste.MaterialFilmPlastic, waste.FormBagFilm, c, waste.SpecialNone, 0.8), "CA_DEFAULT")
		assert.Equal(t, waste.BinGray, d.Result.Bin, "contamination %s", c)
		assert.False(t, d.NeedsClarification)
	}
}

func TestDecideProfilePaperContamination(t *testing.T) {
	t.Parallel()

	t.Run("unknown contamination asks food-soiled question", func(t *testing.T) {
		d := DecideProfile(profile(waste.MaterialPaperCardboard, waste.FormBox, waste.ContaminationUnknown, waste.SpecialNone, 0.6), "CA_DEFAULT")

		assert.Equal(t, waste.BinUnknown, d.Result.Bin)
		assert.True(t, d.NeedsClarification)
		require.NotNil(t, d.Clarification)
		assert.Equal(t, "q_food_soiled_01", d.Clarification.QuestionID)
		assert.Equal(t, "BOOLEAN", d.Clarification.AnswerType)
		assert.Len(t, d.Clarification.Options, 2)
	})

	// Paper never reaches the generic contaminated-recyclable rule: its own
	// rows intercept medium and high first.
	t.Run("high goes to organics, not trash", func(t *testing.T) {
		d := DecideProfile(profile(waste.MaterialPaperCardboard, waste.FormBox, waste.ContaminationHigh, waste.SpecialNone, 0.8), "CA_DEFAULT")
		assert.Equal(t, waste.BinGreen, d.Result.Bin)
	})
	t.Run("medium goes to organics, not trash", func(t *testing.T) {
		d := DecideProfile(profile(waste.MaterialPaperCardboard, waste.FormBox, waste.ContaminationMedium, waste.SpecialNone, 0.8), "CA_DEFAULT")
		assert.Equal(t, waste.BinGreen, d.Result.Bin)
	})
}

func TestDecideProfileContaminatedRecyclables(t *testing.T) {
	t.Parallel()

	for _, m := range []waste.Material{
		waste.MaterialMetal, waste.MaterialGlass, waste.MaterialRigidPlastic,
	} {
		for _, c := range []waste.ContaminationRisk{waste.ContaminationMedium, waste.ContaminationHigh} {
			d := DecideProfile(profile(m, waste.FormMixed, c, waste.SpecialNone, 0.8), "CA_DEFAULT")
			assert.Equal(t, waste.BinGray, d.Result.Bin, "material %s contamination %s", m, c)
		}
	}
}

func TestDecideProfileUnidentified(t *testing.T) {
	t.Parallel()

	t.Run("unknown material and form", func(t *testing.T) {
		d := DecideProfile(profile(waste.MaterialUnknown, waste.FormUnknown, waste.ContaminationUnknown, waste.SpecialNone, 0.2), "CA_DEFAULT")

		assert.Equal(t, waste.BinUnknown, d.Result.Bin)
		assert.True(t, d.NeedsClarification)
		require.NotNil(t, d.Clarification)
		assert.Equal(t, "q_unknown_01", d.Clarification.QuestionID)
	})

	t.Run("textile falls through to the system fallback", func(t *testing.T) {
		d := DecideProfile(profile(waste.MaterialTextile, waste.FormSheet, waste.ContaminationLow, waste.SpecialNone, 0.5), "CA_DEFAULT")

		assert.Equal(t, waste.BinUnknown, d.Result.Bin)
		require.NotNil(t, d.Clarification)
		assert.Equal(t, "q_unknown_01", d.Clarification.QuestionID)
		require.Len(t, d.Result.Rationale, 2)
		assert.Equal(t, waste.RationaleSystem, d.Result.Rationale[1].Type)
	})
}

func TestDecideProfileResultFrame(t *testing.T) {
	t.Parallel()

	labels := []waste.LabelScore{
		{Label: "plastic bottle", Score: 0.9},
		{Label: "bottle", Score: 0.8},
		{Label: "water bottle", Score: 0.7},
		{Label: "cup", Score: 0.6},
		{Label: "container", Score: 0.5},
		{Label: "jar", Score: 0.4},
	}
	p := profile(waste.MaterialRigidPlastic, waste.FormBottle, waste.ContaminationLow, waste.SpecialNone, 0.9)
	p.RawLabels = labels

	d := DecideProfile(p, "CA_DEFAULT")

	assert.Len(t, d.Result.TopLabels, 5, "top labels truncate to 5")
	require.NotEmpty(t, d.Result.Rationale)
	assert.Equal(t, waste.RationaleDetectedItem, d.Result.Rationale[0].Type, "rationale opens with the detection summary")

	t.Run("idempotent", func(t *testing.T) {
		again := DecideProfile(p, "CA_DEFAULT")
		if diff := cmp.Diff(d.Result, again.Result); diff != "" {
			t.Errorf("repeated decide mismatch (-first +second):\n%s", diff)
		}
	})

	t.Run("jurisdiction does not alter the outcome", func(t *testing.T) {
		other := DecideProfile(p, "EU_TEST")
		assert.Equal(t, d.Result.Bin, other.Result.Bin)
	})
}
