package entity

import (
	"fmt"
	"strings"
)

// Category — класс травмы, который умеет различать система.
type Category int

const (
	CategoryUnknown Category = iota // нераспознанная метка, общий шаблон
	CategoryAbrasion
	CategoryAmputation
	CategoryBleeding
	CategoryBruise
	CategoryBurn
	CategoryCut
	CategoryGunShot
	CategoryLaceration
	CategoryPunctureWound
	CategoryHealthy
	CategoryFracture // только в резервном режиме, модель этот класс не выдаёт
)

// modelLabels — порядок классов на выходе модели.
var modelLabels = [...]Category{
	CategoryAbrasion,
	CategoryAmputation,
	CategoryBleeding,
	CategoryBruise,
	CategoryBurn,
	CategoryCut,
	CategoryGunShot,
	CategoryLaceration,
	CategoryPunctureWound,
	CategoryHealthy,
}

// ModelLabels возвращает классы в порядке выхода модели.
func ModelLabels() []Category {
	out := make([]Category, len(modelLabels))
	copy(out, modelLabels[:])
	return out
}

// String возвращает метку класса в том виде, в каком её выдаёт модель.
func (c Category) String() string {
	switch c {
	case CategoryAbrasion:
		return "Abrasion"
	case CategoryAmputation:
		return "Amputation"
	case CategoryBleeding:
		return "Bleeding"
	case CategoryBruise:
		return "Bruise"
	case CategoryBurn:
		return "Burn"
	case CategoryCut:
		return "Cut"
	case CategoryGunShot:
		return "GunShot"
	case CategoryLaceration:
		return "Laceration"
	case CategoryPunctureWound:
		return "PunctureWound"
	case CategoryHealthy:
		return "HealthyPerson"
	case CategoryFracture:
		return "Fracture"
	default:
		return "Unknown"
	}
}

// DisplayName возвращает название для показа пользователю.
func (c Category) DisplayName() string {
	switch c {
	case CategoryAbrasion:
		return "Abrasion"
	case CategoryAmputation:
		return "Amputation"
	case CategoryBleeding:
		return "Bleeding"
	case CategoryBruise:
		return "Bruise (Contusion)"
	case CategoryBurn:
		return "Burn (Second Degree)"
	case CategoryCut:
		return "Cut (Abrasion)"
	case CategoryGunShot:
		return "Gunshot Wound"
	case CategoryLaceration:
		return "Laceration"
	case CategoryPunctureWound:
		return "Puncture Wound"
	case CategoryHealthy:
		return "No Injury"
	case CategoryFracture:
		return "Fracture (Suspected)"
	default:
		return "Injury Detected"
	}
}

// Known сообщает, что класс не является общим шаблоном.
func (c Category) Known() bool {
	return c > CategoryUnknown && c <= CategoryFracture
}

// ParseCategory ищет класс по метке модели или по отображаемому названию.
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return CategoryUnknown, false
	}
	for c := CategoryAbrasion; c <= CategoryFracture; c++ {
		if strings.EqualFold(label, c.String()) || strings.EqualFold(label, c.DisplayName()) {
			return c, true
		}
	}
	return CategoryUnknown, false
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok && !strings.EqualFold(string(text), CategoryUnknown.String()) {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = parsed
	return nil
}
