package protocol

import (
	"fmt"
	"strings"
)

// Product ids of the fixed catalog.
const (
	OralMinoxidil      = "oral-minoxidil-2-5"
	OralDutasteride    = "oral-dutasterida-0-5"
	OralFinasteride    = "oral-finasterida-1"
	OralSawPalmetto    = "oral-saw-palmetto-320"
	ConsultSpecialist  = "consultar-especialista"
	LotionMinoxidil    = "locao-minoxidil-5"
	LotionFinasteride  = "locao-finasterida-0-1"
	ShampooSawPalmetto = "shampoo-saw-palmetto"
	Biotin             = "biotina-45"
)

var catalog = map[string]ProductItem{
	OralMinoxidil: {
		ID: OralMinoxidil, Name: "Minoxidil 2.5mg", SubLabel: "Cápsula oral",
		Image: "/images/products/minoxidil-oral.png", PriceMinor: 8990,
		Description: "Vasodilatador que estimula a fase de crescimento dos fios.",
	},
	OralDutasteride: {
		ID: OralDutasteride, Name: "Dutasterida 0.5mg", SubLabel: "Cápsula oral",
		Image: "/images/products/dutasterida.png", PriceMinor: 11990,
		Description: "Bloqueia as duas isoenzimas da 5-alfa-redutase.",
	},
	OralFinasteride: {
		ID: OralFinasteride, Name: "Finasterida 1mg", SubLabel: "Comprimido oral",
		Image: "/images/products/finasterida.png", PriceMinor: 7990,
		Description: "Reduz o DHT e interrompe a miniaturização dos folículos.",
	},
	OralSawPalmetto: {
		ID: OralSawPalmetto, Name: "Saw Palmetto 320mg", SubLabel: "Cápsula oral",
		Image: "/images/products/saw-palmetto.png", PriceMinor: 6990,
	},
	ConsultSpecialist: {
		ID: ConsultSpecialist, Name: "Consultar especialista", SubLabel: "Avaliação médica",
		Image:       "/images/products/consulta.png",
		Description: "O tratamento oral será definido pelo médico na consulta.",
	},
	LotionMinoxidil: {
		ID: LotionMinoxidil, Name: "Loção Minoxidil 5%", SubLabel: "Uso tópico",
		Image: "/images/products/locao-minoxidil.png", PriceMinor: 9490,
	},
	LotionFinasteride: {
		ID: LotionFinasteride, Name: "Loção Finasterida 0.1%", SubLabel: "Uso tópico",
		Image: "/images/products/locao-finasterida.png", PriceMinor: 10490,
		Description: "Alternativa tópica segura para quem convive com animais.",
	},
	ShampooSawPalmetto: {
		ID: ShampooSawPalmetto, Name: "Shampoo Saw Palmetto", SubLabel: "Higienização",
		Image: "/images/products/shampoo.png", PriceMinor: 4990,
	},
	Biotin: {
		ID: Biotin, Name: "Biotina 45ug", SubLabel: "Suplemento",
		Image: "/images/products/biotina.png", PriceMinor: 3990,
	},
}

func product(id string) *ProductItem {
	p, ok := catalog[id]
	if !ok {
		return nil
	}
	return &p
}

// Subtotal sums catalog prices of the given product ids.
func Subtotal(ids []string) (int64, error) {
	var total int64
	for _, id := range ids {
		p, ok := catalog[id]
		if !ok {
			return 0, fmt.Errorf("unknown product %q", id)
		}
		total += p.PriceMinor
	}
	return total, nil
}

// IDs returns the product ids of items, preserving order.
func IDs(items []ProductItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

// Summary is the local equivalent of the backend recommendation response.
type Summary struct {
	RedFlag     bool          `json:"red_flag" yaml:"red_flag"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Products    []ProductItem `json:"products" yaml:"products"`
	TotalMinor  int64         `json:"total_price" yaml:"total_price"`
}

// Summarize computes the protocol for answers and wraps it with display text.
func Summarize(answers Answers) Summary {
	items := Calculate(answers)
	var total int64
	names := make([]string, 0, len(items))
	for _, it := range items {
		total += it.PriceMinor
		names = append(names, it.Name)
	}
	return Summary{
		Title:       "Seu protocolo personalizado",
		Description: strings.Join(names, " + "),
		Products:    items,
		TotalMinor:  total,
	}
}
