package questionnaire

import (
	"strings"

	"hairline/internal/protocol"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
)

type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
	// StopFlag marks an answer that disqualifies the patient from online treatment.
	StopFlag bool `json:"stopFlag,omitempty" yaml:"stop_flag,omitempty"`
	// Exclusive options ("none of the above") cannot be combined with others.
	Exclusive bool `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
}

// SkipRule hides a question when a prior answer contains one of Values.
type SkipRule struct {
	QuestionID string   `json:"question_id" yaml:"question_id"`
	Values     []string `json:"values" yaml:"values"`
}

type Question struct {
	ID      string       `json:"id" yaml:"id"`
	Prompt  string       `json:"prompt" yaml:"prompt"`
	Type    QuestionType `json:"type" yaml:"type"`
	Options []Option     `json:"options" yaml:"options"`
	SkipIf  []SkipRule   `json:"skip_if,omitempty" yaml:"skip_if,omitempty"`
}

func (q Question) option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// stopped reports whether the recorded answer selects a StopFlag option.
func (q Question) stopped(answer string) bool {
	for _, v := range splitValues(answer) {
		if o, ok := q.option(v); ok && o.StopFlag {
			return true
		}
	}
	return false
}

func (q Question) skipped(answers protocol.Answers) bool {
	for _, rule := range q.SkipIf {
		given, ok := answers[rule.QuestionID]
		if !ok {
			continue
		}
		for _, v := range splitValues(given) {
			for _, want := range rule.Values {
				if v == want {
					return true
				}
			}
		}
	}
	return false
}

// Visible walks questions in order and returns those not skipped, with the
// answers restricted to them. Skip rules only see answers of questions that
// are themselves visible, so an answer left behind by a question that a later
// change hid cannot keep affecting the list.
func Visible(questions []Question, answers protocol.Answers) ([]Question, protocol.Answers) {
	shown := make([]Question, 0, len(questions))
	kept := make(protocol.Answers, len(answers))
	for _, q := range questions {
		if q.skipped(kept) {
			continue
		}
		shown = append(shown, q)
		if v, ok := answers[q.ID]; ok {
			kept[q.ID] = v
		}
	}
	return shown, kept
}

func splitValues(answer string) []string {
	if answer == "" {
		return nil
	}
	parts := strings.Split(answer, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
