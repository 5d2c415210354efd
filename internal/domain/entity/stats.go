package entity

import "time"

// DemoStats — сводка по анализам за время работы.
type DemoStats struct {
	ImagesAnalyzed    int
	ModelRuns         int
	FallbackRuns      int
	Timeouts          int
	AverageConfidence float64
	AverageDuration   time.Duration
	MostCommon        Category
}
