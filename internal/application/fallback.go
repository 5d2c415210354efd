package app

import (
	"time"

	"github.com/google/uuid"

	"argus-bot/internal/domain/catalog"
	"argus-bot/internal/domain/entity"
)

// FallbackGenerator собирает результат из справочных таблиц, когда модель недоступна.
type FallbackGenerator struct {
	rng   Random
	now   func() time.Time
	newID func() string
}

// NewFallbackGenerator создаёт генератор с заданным источником случайности.
func NewFallbackGenerator(rng Random) *FallbackGenerator {
	if rng == nil {
		rng = NewRandom(0)
	}
	return &FallbackGenerator{
		rng:   rng,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Generate возвращает запись по подсказке: идентификатор образца, HintUploaded,
// метка класса или что угодно другое (тогда общий шаблон). Ошибок не бывает.
func (g *FallbackGenerator) Generate(hint string) entity.InjuryRecord {
	if sample, ok := catalog.LookupSample(hint); ok {
		entry := catalog.Lookup(sample.Category)
		entry.Guidance = sample.Guidance
		return g.record(entry, sample.Confidence, sample.Severity, sample.BodyPart)
	}

	if hint == entity.HintUploaded {
		subset := catalog.FallbackSubset()
		category := subset[g.rng.Intn(len(subset))]
		// 85..99 целых процентов, на экране всегда меньше 100%
		confidence := float64(85+g.rng.Intn(15)) / 100
		return g.fromCategory(category, confidence)
	}

	if category, ok := entity.ParseCategory(hint); ok {
		return g.fromCategory(category, catalog.DefaultConfidence())
	}

	entry := catalog.Default()
	return g.record(entry, catalog.DefaultConfidence(), entry.Severities[0], catalog.DefaultBodyPart())
}

func (g *FallbackGenerator) fromCategory(category entity.Category, confidence float64) entity.InjuryRecord {
	entry := catalog.Lookup(category)
	return g.record(entry, confidence, pickSeverity(g.rng, entry), pickBodyPart(g.rng))
}

func (g *FallbackGenerator) record(entry catalog.Entry, confidence float64, severity entity.Severity, bodyPart string) entity.InjuryRecord {
	return buildRecord(g.newID(), g.now(), entry, confidence, severity, bodyPart, entity.SourceFallback)
}

func pickSeverity(rng Random, entry catalog.Entry) entity.Severity {
	if len(entry.Severities) == 0 {
		return entity.SeverityAssessmentRequired
	}
	return entry.Severities[rng.Intn(len(entry.Severities))]
}

func pickBodyPart(rng Random) string {
	parts := catalog.BodyParts()
	return parts[rng.Intn(len(parts))]
}

func buildRecord(id string, at time.Time, entry catalog.Entry, confidence float64, severity entity.Severity, bodyPart string, source entity.Source) entity.InjuryRecord {
	return entity.InjuryRecord{
		ID:         id,
		Category:   entry.Category,
		Confidence: confidence,
		Severity:   severity,
		Code:       entry.Code,
		Guidance:   entry.Guidance,
		Treatment:  entry.Treatment,
		FollowUp:   entry.FollowUp,
		BodyPart:   bodyPart,
		Source:     source,
		CreatedAt:  at,
	}
}
