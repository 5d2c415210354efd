// Package terminal оформляет результаты анализа для вывода в консоль.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"argus-bot/internal/domain/catalog"
	"argus-bot/internal/domain/entity"
)

var (
	danger  = lipgloss.Color("#e53935")
	warning = lipgloss.Color("#FFC107")
	success = lipgloss.Color("#8BC34A")
	info    = lipgloss.Color("#2196F3")
	muted   = lipgloss.Color("#8a94a6")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(info).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(muted).Width(11)
	noteStyle  = lipgloss.NewStyle().Foreground(muted).Italic(true)
)

func severityColor(s entity.Severity) lipgloss.Color {
	switch s {
	case entity.SeverityCritical, entity.SeveritySevere:
		return danger
	case entity.SeverityModerateToSevere, entity.SeverityModerate, entity.SeverityAssessmentRequired:
		return warning
	default:
		return success
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// Card рисует карточку результата.
func Card(rec entity.InjuryRecord) string {
	severity := lipgloss.NewStyle().Foreground(severityColor(rec.Severity)).Bold(true)

	lines := []string{
		titleStyle.Render(rec.Category.DisplayName()),
		"",
		row("Confidence", rec.ConfidenceLabel()),
		row("Severity", severity.Render(string(rec.Severity))),
		row("ICD-10", rec.Code),
		row("Body part", rec.BodyPart),
	}

	if rec.Guidance != "" {
		lines = append(lines, "", titleStyle.Render("First aid"))
		for _, step := range strings.Split(rec.Guidance, "\n") {
			if step = strings.TrimSpace(step); step != "" {
				lines = append(lines, "• "+step)
			}
		}
	}

	lines = append(lines, "",
		row("Treatment", rec.Treatment),
		row("Follow-up", rec.FollowUp),
	)

	source := "reference tables"
	if rec.Source == entity.SourceModel {
		source = "AI model"
	}
	lines = append(lines, "", noteStyle.Render("Source: "+source))

	return cardStyle.BorderForeground(severityColor(rec.Severity)).Render(strings.Join(lines, "\n"))
}

// SampleTable перечисляет подготовленные образцы.
func SampleTable(samples []catalog.Sample) string {
	id := lipgloss.NewStyle().Bold(true).Width(14)
	var sb strings.Builder
	for _, s := range samples {
		fmt.Fprintf(&sb, "%s%s, %s\n", id.Render(s.ID), s.Category.DisplayName(), s.BodyPart)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Notification оформляет уведомление для stderr.
func Notification(message string, level entity.Level) string {
	color := info
	switch level {
	case entity.LevelSuccess:
		color = success
	case entity.LevelWarning:
		color = warning
	case entity.LevelError:
		color = danger
	}
	tag := lipgloss.NewStyle().Foreground(color).Bold(true).Render(strings.ToUpper(string(level)))
	return tag + " " + message
}
