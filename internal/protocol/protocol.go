package protocol

import "strings"

// Answer keys read by the rule engine.
const (
	KeyGender       = "F1_Q1_gender"
	KeyAllergy      = "F2_Q15_allergy"
	KeyIntervention = "F2_Q16_intervention"
	KeyPets         = "F2_Q18_pets"
	KeyPriority     = "F2_Q19_priority"
)

// Answers maps a question id to a scalar or comma-joined multi-value answer.
type Answers map[string]string

// ProductItem is one entry of a treatment protocol.
type ProductItem struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	SubLabel    string `json:"sub_label" yaml:"sub_label"`
	Image       string `json:"image" yaml:"image"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	PriceMinor  int64  `json:"price,omitempty" yaml:"price,omitempty"`
}

// Calculate maps a questionnaire answer map to the ordered product bundle
// [oral, topical, shampoo, biotin]. It returns nil when answers is nil.
func Calculate(answers Answers) []ProductItem {
	if answers == nil {
		return nil
	}

	candidates := []*ProductItem{
		oralFor(answers),
		topicalFor(answers),
		product(ShampooSawPalmetto),
		product(Biotin),
	}

	items := make([]ProductItem, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			items = append(items, *c)
		}
	}
	return items
}

func oralFor(a Answers) *ProductItem {
	switch a.get(KeyGender) {
	case "feminino":
		if a.allergicTo("minoxidil") {
			return product(ConsultSpecialist)
		}
		return product(OralMinoxidil)
	case "masculino":
		wantsDutasteride := a.get(KeyPriority) == "efetividade" || a.get(KeyIntervention) == "dutasterida"
		switch {
		case wantsDutasteride && !a.allergicTo("dutasterida"):
			return product(OralDutasteride)
		case !a.allergicTo("finasterida"):
			return product(OralFinasteride)
		case !a.allergicTo("minoxidil"):
			return product(OralMinoxidil)
		default:
			return product(OralSawPalmetto)
		}
	}
	return nil
}

func topicalFor(a Answers) *ProductItem {
	// finasteride lotion is the pet-safe option
	if a.get(KeyPets) == "sim" || a.allergicTo("minoxidil") {
		return product(LotionFinasteride)
	}
	return product(LotionMinoxidil)
}

func (a Answers) get(key string) string {
	return strings.ToLower(strings.TrimSpace(a[key]))
}

func (a Answers) allergicTo(substance string) bool {
	for _, token := range strings.Split(a.get(KeyAllergy), ",") {
		if strings.TrimSpace(token) == substance {
			return true
		}
	}
	return false
}
