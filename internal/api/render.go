package telegram

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"argus-bot/internal/domain/catalog"
	"argus-bot/internal/domain/entity"
)

const topPredictions = 3

func escape(s string) string { return html.EscapeString(s) }

// RenderRecord оформляет результат анализа для Telegram (HTML).
func RenderRecord(rec entity.InjuryRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🩺 <b>%s</b>\n", escape(rec.Category.DisplayName()))
	fmt.Fprintf(&sb, "Confidence: <b>%s</b>\n", rec.ConfidenceLabel())
	fmt.Fprintf(&sb, "Severity: %s\n", escape(string(rec.Severity)))
	fmt.Fprintf(&sb, "ICD-10: <code>%s</code>\n", escape(rec.Code))
	fmt.Fprintf(&sb, "Body part: %s\n", escape(rec.BodyPart))

	if rec.Guidance != "" {
		sb.WriteString("\n<b>First aid</b>\n")
		for _, line := range strings.Split(rec.Guidance, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(&sb, "• %s\n", escape(line))
			}
		}
	}

	fmt.Fprintf(&sb, "\n<b>Treatment:</b> %s\n", escape(rec.Treatment))
	fmt.Fprintf(&sb, "<b>Follow-up:</b> %s\n", escape(rec.FollowUp))

	if preds := top(rec.Predictions, topPredictions); len(preds) > 0 {
		sb.WriteString("\n<b>Model scores</b>\n")
		for _, p := range preds {
			fmt.Fprintf(&sb, "%s — %.1f%%\n", escape(p.Category.DisplayName()), p.Score*100)
		}
	}

	source := "reference tables"
	if rec.Source == entity.SourceModel {
		source = "AI model"
	}
	fmt.Fprintf(&sb, "\n<i>Source: %s</i>", source)
	return sb.String()
}

func top(preds []entity.Prediction, n int) []entity.Prediction {
	out := append([]entity.Prediction(nil), preds...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RenderSamples перечисляет подготовленные образцы.
func RenderSamples() string {
	var sb strings.Builder
	sb.WriteString("🖼 <b>Sample images</b>\n\n")
	for _, s := range catalog.Samples() {
		fmt.Fprintf(&sb, "<code>%s</code> — %s, %s\n", escape(s.ID), escape(s.Category.DisplayName()), escape(s.BodyPart))
	}
	sb.WriteString("\nSelect one with /sample &lt;id&gt;")
	return sb.String()
}

// Status — снимок состояния для /status.
type Status struct {
	State     entity.ClassifierState
	LoadError error
	Busy      bool
	Analyzing bool
	Selected  bool
	Image     entity.ImageRef
}

// RenderStatus показывает состояние модели и текущий выбор.
func RenderStatus(s Status) string {
	var sb strings.Builder

	switch s.State {
	case entity.ClassifierReady:
		sb.WriteString("🟢 AI model loaded\n")
	case entity.ClassifierLoading:
		sb.WriteString("🟡 AI model is loading\n")
	case entity.ClassifierLoadFailed:
		sb.WriteString("🔴 Fallback analysis mode\n")
		if s.LoadError != nil {
			fmt.Fprintf(&sb, "Reason: %s\n", escape(s.LoadError.Error()))
		}
	default:
		sb.WriteString("⚪ AI model not loaded\n")
	}
	if s.Busy {
		sb.WriteString("Model is busy\n")
	}

	switch {
	case !s.Selected:
		sb.WriteString("No image selected")
	case s.Image.Hint == entity.HintUploaded:
		fmt.Fprintf(&sb, "Selected: uploaded image %s", escape(s.Image.Name))
	default:
		fmt.Fprintf(&sb, "Selected: sample %s", escape(s.Image.Hint))
	}
	if s.Analyzing {
		sb.WriteString("\n⏳ Analysis in progress")
	}
	return sb.String()
}

// RenderStats показывает сводку по анализам.
func RenderStats(st entity.DemoStats, users int) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Statistics</b>\n\n")
	fmt.Fprintf(&sb, "Users: %d\n", users)
	fmt.Fprintf(&sb, "Images analyzed: %d\n", st.ImagesAnalyzed)
	fmt.Fprintf(&sb, "AI model: %d, fallback: %d, timeouts: %d\n", st.ModelRuns, st.FallbackRuns, st.Timeouts)
	if st.ImagesAnalyzed > 0 {
		fmt.Fprintf(&sb, "Average confidence: %.1f%%\n", st.AverageConfidence*100)
		fmt.Fprintf(&sb, "Average time: %s\n", st.AverageDuration.Round(10*time.Millisecond))
		fmt.Fprintf(&sb, "Most common: %s", escape(st.MostCommon.DisplayName()))
	}
	return strings.TrimRight(sb.String(), "\n")
}
