// Package catalog содержит справочные таблицы по травмам: тяжесть, коды,
// рекомендации по первой помощи, лечение и наблюдение.
package catalog

import (
	"strings"

	"argus-bot/internal/domain/entity"
)

// Entry — справочные поля одного класса травмы.
type Entry struct {
	Category   entity.Category
	Severities []entity.Severity
	Code       string
	Guidance   string
	Treatment  string
	FollowUp   string
}

// AllowsSeverity проверяет, что тяжесть допустима для класса.
func (e Entry) AllowsSeverity(s entity.Severity) bool {
	for _, allowed := range e.Severities {
		if allowed == s {
			return true
		}
	}
	return false
}

const (
	defaultConfidence = 0.85
	defaultBodyPart   = "Multiple"
)

// DefaultConfidence — уверенность шаблонной записи.
func DefaultConfidence() float64 { return defaultConfidence }

// DefaultBodyPart — часть тела шаблонной записи.
func DefaultBodyPart() string { return defaultBodyPart }

var bodyParts = [...]string{"Hand", "Finger", "Forearm", "Face", "Leg", "Chest", "Back", "Shoulder"}

// BodyParts возвращает список частей тела для случайного выбора.
func BodyParts() []string {
	out := make([]string, len(bodyParts))
	copy(out, bodyParts[:])
	return out
}

var fallbackSubset = [...]entity.Category{
	entity.CategoryLaceration,
	entity.CategoryBruise,
	entity.CategoryCut,
	entity.CategoryBurn,
	entity.CategoryFracture,
}

// FallbackSubset — классы, из которых выбирается результат для загруженного фото без модели.
func FallbackSubset() []entity.Category {
	out := make([]entity.Category, len(fallbackSubset))
	copy(out, fallbackSubset[:])
	return out
}

// Lookup возвращает справочную запись класса. Неизвестный класс даёт общий шаблон.
func Lookup(c entity.Category) Entry {
	switch c {
	case entity.CategoryAbrasion:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityMild, entity.SeverityModerate),
			Code:       "S30.0",
			Guidance: steps(
				"1. Clean the wound with soap and water",
				"2. Remove any debris with sterile tweezers",
				"3. Apply antiseptic solution",
				"4. Cover with sterile dressing",
				"5. Monitor for signs of infection",
				"6. Change dressing daily",
			),
			Treatment: "Wound cleaning, antibiotic ointment, bandaging",
			FollowUp:  "Daily dressing changes for 3-5 days",
		}
	case entity.CategoryAmputation:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityCritical, entity.SeveritySevere),
			Code:       "S68.0",
			Guidance: steps(
				"IMMEDIATE EMERGENCY RESPONSE REQUIRED",
				"1. Call 911 immediately",
				"2. Apply direct pressure to stop bleeding",
				"3. Preserve the amputated part if possible",
				"4. Keep the amputated part cool but not frozen",
				"5. Transport to hospital immediately",
			),
			Treatment: "Emergency response, bleeding control, immediate transport",
			FollowUp:  "Immediate emergency medical care required",
		}
	case entity.CategoryBleeding:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityMild, entity.SeverityModerate, entity.SeveritySevere),
			Code:       "R58.0",
			Guidance: steps(
				"1. Apply direct pressure to stop bleeding",
				"2. Use sterile gauze or clean cloth",
				"3. Elevate the affected area if possible",
				"4. Apply pressure bandage if needed",
				"5. Seek medical attention if bleeding persists",
				"6. Monitor for signs of shock",
			),
			Treatment: "Direct pressure, elevation, pressure dressing",
			FollowUp:  "Monitor for 24-48 hours, seek care if persistent",
		}
	case entity.CategoryBruise:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityMild, entity.SeverityModerate),
			Code:       "S00.0",
			Guidance: steps(
				"1. Apply ice pack for 15-20 minutes",
				"2. Elevate the affected area if possible",
				"3. Apply compression if swelling present",
				"4. Rest the injured area",
				"5. Monitor for signs of severe bruising",
				"6. Seek medical attention if severe pain persists",
			),
			Treatment: "Ice therapy, rest, elevation",
			FollowUp:  "Monitor for 48-72 hours",
		}
	case entity.CategoryBurn:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityModerate, entity.SeverityModerateToSevere),
			Code:       "T23.1",
			Guidance: steps(
				"DO's:",
				"• Stop the burning process: cool with running cool (not cold) water for at least 5 minutes",
				"• Remove jewelry, watches, rings around burned area",
				"• Administer pain reliever (ibuprofen or acetaminophen)",
				"• Cover with sterile gauze bandage or clean cloth",
				"• Apply aloe vera lotion for small area burns",
				"",
				"DO NOT:",
				"• Do not apply ice – may cause further damage",
				"• Do not use butter, ointments or home remedies",
				"• Do not break blisters",
				"• Seek medical attention if burn is larger than victim's palm",
			),
			Treatment: "Cooling, sterile dressing, pain management",
			FollowUp:  "Immediate medical evaluation recommended",
		}
	case entity.CategoryCut:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityMild, entity.SeverityModerate),
			Code:       "S60.0",
			Guidance: steps(
				"1. Stop the Bleeding:",
				"• Apply direct pressure using clean cloth or gauze",
				"• Elevate wound above heart if possible",
				"• Add more cloth if bleeding continues",
				"",
				"2. Clean the Wound:",
				"• Wash with cool or warm water",
				"• Use gentle soap if needed",
				"• Avoid alcohol or hydrogen peroxide",
				"",
				"3. Protect the Wound:",
				"• Apply sterile bandage",
				"• Change bandage daily or when wet",
				"• Monitor for signs of infection",
			),
			Treatment: "Wound cleaning, antibiotic ointment, bandaging",
			FollowUp:  "Daily dressing changes for 3-5 days",
		}
	case entity.CategoryGunShot:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityCritical, entity.SeveritySevere),
			Code:       "X93",
			Guidance: steps(
				"Control the Bleeding:",
				"1. Locate the wound(s) - check for entrance and exit wounds",
				"2. Apply direct pressure with clean cloth or gauze",
				"3. Maintain pressure until medical personnel arrive",
				"4. Do not remove embedded objects",
				"5. Do not elevate legs for chest/abdominal gunshot wounds",
				"",
				"Monitor and Treat for Shock:",
				"6. Keep victim calm and encourage steady breathing",
				"7. Maintain body temperature with blankets",
				"8. Do not give anything to eat or drink",
				"9. Watch for signs of shock (pale skin, rapid breathing, confusion)",
			),
			Treatment: "Emergency response, bleeding control, immediate transport",
			FollowUp:  "Immediate emergency medical care required",
		}
	case entity.CategoryLaceration:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityMild, entity.SeverityModerate, entity.SeveritySevere),
			Code:       "S61.0",
			Guidance: steps(
				"1. Stop the Bleeding:",
				"• Apply direct pressure using clean cloth or gauze",
				"• Elevate wound above heart if possible",
				"• Add more cloth if bleeding continues",
				"• Do not tie tourniquet unless absolutely necessary",
				"",
				"2. Clean the Wound:",
				"• Wash with cool or warm water",
				"• Use gentle soap if needed",
				"• Avoid alcohol or hydrogen peroxide",
				"",
				"3. Protect the Wound:",
				"• Apply sterile bandage",
				"• Change bandage daily or when wet",
				"• Monitor for signs of infection",
				"",
				"Seek Medical Attention if:",
				"• Wound is deep or jagged",
				"• Bleeding doesn't stop with pressure",
				"• Signs of infection appear",
				"• Major artery or nerve involved",
			),
			Treatment: "Wound cleaning, pressure dressing, tetanus prophylaxis if needed",
			FollowUp:  "24-48 hours for wound assessment",
		}
	case entity.CategoryPunctureWound:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityModerate, entity.SeveritySevere),
			Code:       "S61.1",
			Guidance: steps(
				"1. Stop the Bleeding:",
				"• Apply direct pressure to stop bleeding",
				"• Use clean cloth or gauze",
				"• Elevate if possible",
				"",
				"2. Clean the Wound:",
				"• Wash thoroughly with soap and water",
				"• Do not remove embedded objects",
				"• Apply antiseptic if available",
				"",
				"3. Protect the Wound:",
				"• Cover with sterile bandage",
				"• Change dressing daily",
				"• Monitor for signs of infection",
				"",
				"Seek Medical Attention:",
				"• If object is deeply embedded",
				"• If signs of infection develop",
				"• If wound is in foot or hand",
			),
			Treatment: "Wound cleaning, antibiotic treatment, monitoring",
			FollowUp:  "24-48 hours for infection monitoring",
		}
	case entity.CategoryHealthy:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeverityNormal),
			Code:       "Z00.0",
			Guidance:   "No injury detected. The area appears to be healthy and normal.",
			Treatment:  "No treatment required",
			FollowUp:   "No follow-up required",
		}
	case entity.CategoryFracture:
		return Entry{
			Category:   c,
			Severities: severities(entity.SeveritySevere, entity.SeverityCritical),
			Code:       "S52.5",
			Guidance: steps(
				"1. Immobilize the injured area",
				"2. Apply ice pack to reduce swelling",
				"3. Keep the person still and comfortable",
				"4. Do not try to realign the bone",
				"5. Support the injury with padding",
				"6. Seek immediate medical attention",
			),
			Treatment: "Immobilization, ice therapy, elevation",
			FollowUp:  "Immediate medical evaluation required",
		}
	default:
		return Default()
	}
}

// Default — общий шаблон «требуется осмотр».
func Default() Entry {
	return Entry{
		Category:   entity.CategoryUnknown,
		Severities: severities(entity.SeverityAssessmentRequired),
		Code:       "T07",
		Guidance: "An injury has been detected. Please ensure the patient is in a safe environment. " +
			"Assess consciousness and breathing. If life-threatening conditions exist, call emergency services immediately. " +
			"Document the injury and seek appropriate medical attention.",
		Treatment: "Initial assessment, stabilization",
		FollowUp:  "Medical evaluation recommended",
	}
}

func severities(s ...entity.Severity) []entity.Severity {
	return s
}

func steps(lines ...string) string {
	return strings.Join(lines, "\n")
}
