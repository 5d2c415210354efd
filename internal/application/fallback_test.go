package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"argus-bot/internal/domain/catalog"
	"argus-bot/internal/domain/entity"
)

func knownCategories() []entity.Category {
	return append(entity.ModelLabels(), entity.CategoryFracture)
}

func TestFallbackGenerator_MatchesCatalog(t *testing.T) {
	gen := NewFallbackGenerator(NewRandom(42))

	for _, c := range knownCategories() {
		entry := catalog.Lookup(c)
		rec := gen.Generate(c.String())

		require.Equal(t, c, rec.Category, c.String())
		require.Equal(t, entry.Code, rec.Code)
		require.Equal(t, entry.Treatment, rec.Treatment)
		require.Equal(t, entry.FollowUp, rec.FollowUp)
		require.Equal(t, catalog.DefaultConfidence(), rec.Confidence)
		require.Equal(t, entity.SourceFallback, rec.Source)
		require.NotEmpty(t, rec.ID)
	}
}

func TestFallbackGenerator_SeverityWithinAllowedSet(t *testing.T) {
	gen := NewFallbackGenerator(NewRandom(7))

	for i := 0; i < 200; i++ {
		for _, c := range knownCategories() {
			rec := gen.Generate(c.DisplayName())
			require.True(t, catalog.Lookup(c).AllowsSeverity(rec.Severity), "%s: %s", c, rec.Severity)
			require.Contains(t, catalog.BodyParts(), rec.BodyPart)
		}
		rec := gen.Generate(entity.HintUploaded)
		require.True(t, catalog.Lookup(rec.Category).AllowsSeverity(rec.Severity))
	}
}

func TestFallbackGenerator_Sample(t *testing.T) {
	gen := NewFallbackGenerator(NewRandom(1))

	rec := gen.Generate("sample1.jpg")
	require.Equal(t, entity.CategoryLaceration, rec.Category)
	require.Equal(t, "S61.0", rec.Code)
	require.Contains(t, rec.Treatment, "pressure dressing")
	require.Equal(t, 0.89, rec.Confidence)
	require.Equal(t, entity.SeverityModerate, rec.Severity)
	require.Equal(t, "Hand", rec.BodyPart)

	sample, _ := catalog.LookupSample("sample1.jpg")
	require.Equal(t, sample.Guidance, rec.Guidance)
}

func TestFallbackGenerator_Uploaded(t *testing.T) {
	gen := NewFallbackGenerator(NewRandom(3))
	subset := catalog.FallbackSubset()

	for i := 0; i < 100; i++ {
		rec := gen.Generate(entity.HintUploaded)
		require.Contains(t, subset, rec.Category)
		require.GreaterOrEqual(t, rec.Confidence, 0.85)
		require.Less(t, rec.Confidence, 1.0)
	}
}

func TestFallbackGenerator_UnknownHint(t *testing.T) {
	gen := NewFallbackGenerator(newSequenceRandom(0))
	def := catalog.Default()

	for _, hint := range []string{"", "holiday.png", "Unknown"} {
		rec := gen.Generate(hint)
		require.Equal(t, entity.CategoryUnknown, rec.Category, hint)
		require.Equal(t, "Injury Detected", rec.Category.DisplayName())
		require.Equal(t, def.Code, rec.Code)
		require.Equal(t, entity.SeverityAssessmentRequired, rec.Severity)
		require.Equal(t, catalog.DefaultBodyPart(), rec.BodyPart)
	}
}
