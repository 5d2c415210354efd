package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"argus-bot/internal/domain/entity"
)

func TestStatsService_Empty(t *testing.T) {
	s := NewStatsService()
	require.Equal(t, entity.DemoStats{MostCommon: entity.CategoryUnknown}, s.Snapshot())
}

func TestStatsService_Averages(t *testing.T) {
	s := NewStatsService()
	s.Record(entity.InjuryRecord{Category: entity.CategoryBurn, Confidence: 0.9, Source: entity.SourceModel}, 2*time.Second)
	s.Record(entity.InjuryRecord{Category: entity.CategoryCut, Confidence: 0.8, Source: entity.SourceFallback}, 4*time.Second)
	s.Record(entity.InjuryRecord{Category: entity.CategoryBurn, Confidence: 0.7, Source: entity.SourceFallback}, 3*time.Second)
	s.RecordTimeout()

	got := s.Snapshot()
	require.Equal(t, 3, got.ImagesAnalyzed)
	require.Equal(t, 1, got.ModelRuns)
	require.Equal(t, 2, got.FallbackRuns)
	require.Equal(t, 1, got.Timeouts)
	require.InDelta(t, 0.8, got.AverageConfidence, 1e-9)
	require.Equal(t, 3*time.Second, got.AverageDuration)
	require.Equal(t, entity.CategoryBurn, got.MostCommon)
}

func TestStatsService_TieBreak(t *testing.T) {
	s := NewStatsService()
	s.Record(entity.InjuryRecord{Category: entity.CategoryLaceration}, 0)
	s.Record(entity.InjuryRecord{Category: entity.CategoryBruise}, 0)

	require.Equal(t, entity.CategoryBruise, s.Snapshot().MostCommon)
}
