package questionnaire

import "hairline/internal/protocol"

var yesNo = []Option{{Value: "sim", Label: "Sim"}, {Value: "nao", Label: "Não"}}

// DefaultQuestions is the hair-loss intake questionnaire.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID: protocol.KeyGender, Prompt: "Qual é o seu sexo biológico?", Type: SingleChoice,
			Options: []Option{{Value: "masculino", Label: "Masculino"}, {Value: "feminino", Label: "Feminino"}},
		},
		{
			ID: "F1_Q2_age", Prompt: "Qual é a sua idade?", Type: SingleChoice,
			Options: []Option{
				{Value: "menor_18", Label: "Menos de 18 anos", StopFlag: true},
				{Value: "18_29", Label: "18 a 29 anos"},
				{Value: "30_44", Label: "30 a 44 anos"},
				{Value: "45_mais", Label: "45 anos ou mais"},
			},
		},
		{
			ID: "F1_Q3_pattern", Prompt: "Onde você percebe a queda ou o afinamento?", Type: MultipleChoice,
			Options: []Option{
				{Value: "entradas", Label: "Entradas"},
				{Value: "coroa", Label: "Coroa"},
				{Value: "difusa", Label: "Difusa em todo o couro cabeludo"},
				{Value: "falhas", Label: "Falhas circulares repentinas", StopFlag: true},
			},
		},
		{
			ID: "F1_Q4_duration", Prompt: "Há quanto tempo você percebe a queda?", Type: SingleChoice,
			Options: []Option{
				{Value: "menos_6m", Label: "Menos de 6 meses"},
				{Value: "6m_2a", Label: "Entre 6 meses e 2 anos"},
				{Value: "mais_2a", Label: "Mais de 2 anos"},
			},
		},
		{
			ID: "F1_Q5_irritation", Prompt: "Você teve irritação no couro cabeludo recentemente?", Type: SingleChoice,
			Options: yesNo,
		},
		{
			ID: "F1_Q6_symptoms", Prompt: "Quais sintomas você teve?", Type: MultipleChoice,
			SkipIf: []SkipRule{{QuestionID: "F1_Q5_irritation", Values: []string{"nao"}}},
			Options: []Option{
				{Value: "coceira", Label: "Coceira"},
				{Value: "descamacao", Label: "Descamação"},
				{Value: "feridas", Label: "Feridas ou secreção", StopFlag: true},
				{Value: "dor", Label: "Dor ou ardência", StopFlag: true},
			},
		},
		{
			ID: "F2_Q10_pregnancy", Prompt: "Você está grávida, amamentando ou planejando engravidar?", Type: SingleChoice,
			SkipIf: []SkipRule{{QuestionID: protocol.KeyGender, Values: []string{"masculino"}}},
			Options: []Option{
				{Value: "sim", Label: "Sim", StopFlag: true},
				{Value: "nao", Label: "Não"},
			},
		},
		{
			ID: "F2_Q11_conditions", Prompt: "Você tem alguma destas condições?", Type: MultipleChoice,
			Options: []Option{
				{Value: "nenhuma", Label: "Nenhuma", Exclusive: true},
				{Value: "hipertensao", Label: "Hipertensão controlada"},
				{Value: "cardiaca", Label: "Doença cardíaca", StopFlag: true},
				{Value: "hepatica", Label: "Doença hepática", StopFlag: true},
				{Value: "cancer", Label: "Câncer de mama ou próstata", StopFlag: true},
			},
		},
		{
			ID: protocol.KeyAllergy, Prompt: "Você tem alergia a algum destes ativos?", Type: MultipleChoice,
			Options: []Option{
				{Value: "nenhuma", Label: "Nenhuma", Exclusive: true},
				{Value: "minoxidil", Label: "Minoxidil"},
				{Value: "finasterida", Label: "Finasterida"},
				{Value: "dutasterida", Label: "Dutasterida"},
			},
		},
		{
			ID: protocol.KeyIntervention, Prompt: "Você já usou ou tem preferência por algum tratamento?", Type: SingleChoice,
			Options: []Option{
				{Value: "nenhum", Label: "Nenhum"},
				{Value: "minoxidil", Label: "Minoxidil"},
				{Value: "finasterida", Label: "Finasterida"},
				{Value: "dutasterida", Label: "Dutasterida"},
			},
		},
		{
			ID: protocol.KeyPets, Prompt: "Você convive com cães ou gatos?", Type: SingleChoice,
			Options: yesNo,
		},
		{
			ID: protocol.KeyPriority, Prompt: "O que é mais importante para você no tratamento?", Type: SingleChoice,
			Options: []Option{
				{Value: "efetividade", Label: "Máxima efetividade"},
				{Value: "praticidade", Label: "Praticidade"},
				{Value: "custo", Label: "Menor custo"},
			},
		},
	}
}
