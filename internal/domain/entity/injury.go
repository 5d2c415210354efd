package entity

import (
	"fmt"
	"time"
)

// Source показывает, откуда взят результат анализа.
type Source string

const (
	SourceModel    Source = "model"    // ответ нейросети
	SourceFallback Source = "fallback" // справочные таблицы
)

// Prediction — оценка модели для одного класса.
type Prediction struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// InjuryRecord — итог одного анализа изображения.
// Создаётся заново на каждый анализ и после создания не меняется.
type InjuryRecord struct {
	ID          string       `json:"id"`
	Category    Category     `json:"category"`
	Confidence  float64      `json:"confidence"` // в диапазоне [0,1]
	Severity    Severity     `json:"severity"`
	Code        string       `json:"code"` // код в стиле МКБ-10
	Guidance    string       `json:"guidance"`
	Treatment   string       `json:"treatment"`
	FollowUp    string       `json:"follow_up"`
	BodyPart    string       `json:"body_part"`
	Source      Source       `json:"source"`
	Predictions []Prediction `json:"predictions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ConfidenceLabel форматирует уверенность в процентах.
func (r InjuryRecord) ConfidenceLabel() string {
	return fmt.Sprintf("%.1f%%", r.Confidence*100)
}

// IsZero сообщает, что запись пустая.
func (r InjuryRecord) IsZero() bool {
	return r.Code == "" && r.Treatment == "" && r.Category == CategoryUnknown && r.Severity == ""
}
