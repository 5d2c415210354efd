package entity

// Severity — степень тяжести травмы.
type Severity string

const (
	SeverityNormal             Severity = "Normal"
	SeverityMild               Severity = "Mild"
	SeverityModerate           Severity = "Moderate"
	SeverityModerateToSevere   Severity = "Moderate to Severe"
	SeveritySevere             Severity = "Severe"
	SeverityCritical           Severity = "Critical"
	SeverityAssessmentRequired Severity = "Assessment Required"
)
