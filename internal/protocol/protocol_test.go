package protocol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(items []ProductItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestCalculate_NilAnswers(t *testing.T) {
	assert.Nil(t, Calculate(nil))
}

func TestCalculate_WorkedExample(t *testing.T) {
	answers := Answers{
		KeyGender:       "masculino",
		KeyPriority:     "praticidade",
		KeyIntervention: "finasterida",
		KeyPets:         "nao",
		KeyAllergy:      "",
	}

	got := Calculate(answers)

	require.Len(t, got, 4)
	assert.Equal(t, []string{
		"Finasterida 1mg",
		"Loção Minoxidil 5%",
		"Shampoo Saw Palmetto",
		"Biotina 45ug",
	}, names(got))
}

func TestCalculate_Oral(t *testing.T) {
	tests := []struct {
		name    string
		answers Answers
		want    string
	}{
		{"female", Answers{KeyGender: "feminino"}, "Minoxidil 2.5mg"},
		{"female allergic", Answers{KeyGender: "feminino", KeyAllergy: "minoxidil"}, "Consultar especialista"},
		{"male effectiveness", Answers{KeyGender: "masculino", KeyPriority: "efetividade"}, "Dutasterida 0.5mg"},
		{"male asked dutasteride", Answers{KeyGender: "masculino", KeyIntervention: "dutasterida"}, "Dutasterida 0.5mg"},
		{"male effectiveness allergic dutasteride", Answers{KeyGender: "masculino", KeyPriority: "efetividade", KeyAllergy: "dutasterida"}, "Finasterida 1mg"},
		{"male allergic finasteride", Answers{KeyGender: "masculino", KeyAllergy: "finasterida"}, "Minoxidil 2.5mg"},
		{"male allergic to all", Answers{KeyGender: "masculino", KeyAllergy: "finasterida, Minoxidil"}, "Saw Palmetto 320mg"},
		{"case insensitive", Answers{KeyGender: " Masculino ", KeyPriority: "EFETIVIDADE"}, "Dutasterida 0.5mg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.answers)
			require.Len(t, got, 4)
			assert.Equal(t, tt.want, got[0].Name)
		})
	}
}

func TestCalculate_UnknownGenderHasNoOral(t *testing.T) {
	got := Calculate(Answers{})
	assert.Equal(t, []string{"Loção Minoxidil 5%", "Shampoo Saw Palmetto", "Biotina 45ug"}, names(got))
}

func TestCalculate_Topical(t *testing.T) {
	withPets := Calculate(Answers{KeyGender: "feminino", KeyPets: "sim"})
	assert.Equal(t, "Loção Finasterida 0.1%", withPets[1].Name)

	allergic := Calculate(Answers{KeyGender: "masculino", KeyAllergy: "minoxidil"})
	assert.Equal(t, "Loção Finasterida 0.1%", allergic[1].Name)

	plain := Calculate(Answers{KeyGender: "masculino", KeyPets: "nao"})
	assert.Equal(t, "Loção Minoxidil 5%", plain[1].Name)
}

func TestCalculate_FixedAdjunctsLast(t *testing.T) {
	inputs := []Answers{
		{},
		{KeyGender: "feminino", KeyAllergy: "minoxidil", KeyPets: "sim"},
		{KeyGender: "masculino", KeyPriority: "efetividade"},
		{KeyGender: "other", KeyAllergy: "garbage,,"},
	}
	for _, in := range inputs {
		got := names(Calculate(in))
		require.GreaterOrEqual(t, len(got), 2)
		assert.Equal(t, []string{"Shampoo Saw Palmetto", "Biotina 45ug"}, got[len(got)-2:])
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	answers := Answers{KeyGender: "masculino", KeyPriority: "efetividade", KeyPets: "sim"}
	first := Calculate(answers)
	second := Calculate(answers)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Calculate not deterministic (-first +second):\n%s", diff)
	}
}

func TestSubtotal(t *testing.T) {
	total, err := Subtotal([]string{ShampooSawPalmetto, Biotin})
	require.NoError(t, err)
	assert.EqualValues(t, 4990+3990, total)

	_, err = Subtotal([]string{"nope"})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize(Answers{KeyGender: "feminino"})
	assert.False(t, s.RedFlag)
	assert.Len(t, s.Products, 4)
	assert.EqualValues(t, 8990+9490+4990+3990, s.TotalMinor)
	assert.Contains(t, s.Description, "Minoxidil 2.5mg")
}
