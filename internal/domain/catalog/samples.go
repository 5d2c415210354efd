package catalog

import (
	"sort"

	"argus-bot/internal/domain/entity"
)

// Sample — подготовленный образец с фиксированным результатом.
type Sample struct {
	ID         string
	Category   entity.Category
	Confidence float64
	Severity   entity.Severity
	BodyPart   string
	Guidance   string
}

var samples = map[string]Sample{
	"sample1.jpg": {
		ID:         "sample1.jpg",
		Category:   entity.CategoryLaceration,
		Confidence: 0.89,
		Severity:   entity.SeverityModerate,
		BodyPart:   "Hand",
		Guidance: "Clean the wound with sterile saline or clean water. Apply direct pressure to stop bleeding. " +
			"Cover with sterile gauze and secure with medical tape. Monitor for signs of infection and seek medical " +
			"attention if bleeding persists or wound shows signs of infection.",
	},
	"sample2.jpg": {
		ID:         "sample2.jpg",
		Category:   entity.CategoryBurn,
		Confidence: 0.92,
		Severity:   entity.SeverityModerateToSevere,
		BodyPart:   "Forearm",
		Guidance: "Cool the burn with cool (not cold) water for 10-20 minutes. Do not apply ice. Cover with sterile, " +
			"non-stick dressing. Do not pop blisters. Administer pain relief as needed. Seek immediate medical attention " +
			"for burns larger than 3 inches or on face, hands, feet, or genitals.",
	},
	"sample5.jpg": {
		ID:         "sample5.jpg",
		Category:   entity.CategoryCut,
		Confidence: 0.91,
		Severity:   entity.SeverityModerate,
		BodyPart:   "Finger",
		Guidance: "Clean the wound gently with soap and water or sterile saline. Apply antibiotic ointment if available. " +
			"Cover with sterile bandage or gauze. Change dressing daily or when it becomes wet or dirty. " +
			"Watch for signs of infection.",
	},
}

// LookupSample ищет образец по идентификатору (имени файла).
func LookupSample(id string) (Sample, bool) {
	s, ok := samples[id]
	return s, ok
}

// Samples возвращает все образцы, отсортированные по идентификатору.
func Samples() []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
