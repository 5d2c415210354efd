package app

import (
	"sync"
	"time"

	"argus-bot/internal/domain/entity"
)

// StatsService копит сводку по выполненным анализам.
type StatsService struct {
	mu         sync.Mutex
	analyzed   int
	modelRuns  int
	fallback   int
	timeouts   int
	confidence float64
	elapsed    time.Duration
	counts     map[entity.Category]int
}

func NewStatsService() *StatsService {
	return &StatsService{counts: make(map[entity.Category]int)}
}

// Record учитывает завершённый анализ.
func (s *StatsService) Record(rec entity.InjuryRecord, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyzed++
	if rec.Source == entity.SourceModel {
		s.modelRuns++
	} else {
		s.fallback++
	}
	s.confidence += rec.Confidence
	s.elapsed += elapsed
	s.counts[rec.Category]++
}

// RecordTimeout учитывает анализ, прерванный по таймауту.
func (s *StatsService) RecordTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts++
}

// Snapshot возвращает копию текущей сводки.
func (s *StatsService) Snapshot() entity.DemoStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := entity.DemoStats{
		ImagesAnalyzed: s.analyzed,
		ModelRuns:      s.modelRuns,
		FallbackRuns:   s.fallback,
		Timeouts:       s.timeouts,
		MostCommon:     entity.CategoryUnknown,
	}
	if s.analyzed == 0 {
		return out
	}

	out.AverageConfidence = s.confidence / float64(s.analyzed)
	out.AverageDuration = s.elapsed / time.Duration(s.analyzed)

	best := 0
	for category, n := range s.counts {
		// при равенстве побеждает меньший номер категории
		if n > best || (n == best && category < out.MostCommon) {
			best = n
			out.MostCommon = category
		}
	}
	return out
}
