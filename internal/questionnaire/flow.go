package questionnaire

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hairline/internal/protocol"
	"hairline/pkg/utils"
)

type State string

const (
	StateAnswering  State = "answering"
	StateRedFlag    State = "red_flag"
	StateSubmitting State = "submitting"
	StateResults    State = "results"
	StateExited     State = "exited"
)

// Red flag origins.
const (
	RedFlagAnswer  = "answer"
	RedFlagBackend = "backend"
)

const snapshotKey = "questionnaire"

// Storage is session-scoped transient storage.
type Storage interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

// Recommender turns a completed answer map into a protocol and a red-flag
// determination.
type Recommender interface {
	Recommend(ctx context.Context, answers protocol.Answers) (protocol.Summary, error)
}

type RecommenderFunc func(ctx context.Context, answers protocol.Answers) (protocol.Summary, error)

func (f RecommenderFunc) Recommend(ctx context.Context, answers protocol.Answers) (protocol.Summary, error) {
	return f(ctx, answers)
}

// LocalRecommender computes the protocol in-process. It never raises a red flag.
var LocalRecommender = RecommenderFunc(func(_ context.Context, answers protocol.Answers) (protocol.Summary, error) {
	return protocol.Summarize(answers), nil
})

// Snapshot is what gets persisted after every transition.
type Snapshot struct {
	State         State             `json:"state"`
	Index         int               `json:"index"`
	Answers       protocol.Answers  `json:"answers,omitempty"`
	Result        *protocol.Summary `json:"result,omitempty"`
	RedFlagReason string            `json:"red_flag_reason,omitempty"`
	RedFlagOn     string            `json:"red_flag_question,omitempty"`
}

// Flow walks the filtered question list for one session.
type Flow struct {
	sessionID string
	questions []Question
	store     Storage
	snap      Snapshot
}

func Start(sessionID string, questions []Question, store Storage) *Flow {
	return &Flow{
		sessionID: sessionID,
		questions: questions,
		store:     store,
		snap:      Snapshot{State: StateAnswering, Answers: protocol.Answers{}},
	}
}

// Restore rebuilds the flow from storage, or starts a fresh one.
func Restore(ctx context.Context, sessionID string, questions []Question, store Storage) (*Flow, error) {
	f := Start(sessionID, questions, store)
	raw, ok, err := store.Get(ctx, sessionID, snapshotKey)
	if err != nil {
		return nil, fmt.Errorf("load questionnaire snapshot: %w", err)
	}
	if !ok {
		return f, nil
	}
	if err := json.Unmarshal([]byte(raw), &f.snap); err != nil {
		// a corrupt snapshot is not worth failing the page over
		return Start(sessionID, questions, store), nil
	}
	if f.snap.Answers == nil {
		f.snap.Answers = protocol.Answers{}
	}
	return f, nil
}

func (f *Flow) State() State       { return f.snap.State }
func (f *Flow) Snapshot() Snapshot { return f.snap }

// Filtered returns the questions visible for the current answers.
func (f *Flow) Filtered() []Question {
	visible, _ := Visible(f.questions, f.snap.Answers)
	return visible
}

// Answers returns a copy of the answers to visible questions. Answers given
// to questions hidden by a later change are kept in the snapshot, in case the
// change is undone, but are never reported.
func (f *Flow) Answers() protocol.Answers {
	_, answers := Visible(f.questions, f.snap.Answers)
	return answers
}

// Current returns the question at the cursor while answering.
func (f *Flow) Current() (Question, bool) {
	if f.snap.State != StateAnswering {
		return Question{}, false
	}
	visible := f.Filtered()
	if f.snap.Index < 0 || f.snap.Index >= len(visible) {
		return Question{}, false
	}
	return visible[f.snap.Index], true
}

// Progress returns the 1-based position and the number of visible questions.
func (f *Flow) Progress() (int, int) {
	total := len(f.Filtered())
	pos := f.snap.Index + 1
	if pos > total {
		pos = total
	}
	return pos, total
}

// Answer records the value(s) for the current question and persists the snapshot.
func (f *Flow) Answer(ctx context.Context, values ...string) error {
	q, ok := f.Current()
	if !ok {
		return fmt.Errorf("%w: cannot answer in state %s", utils.ErrInvalidTransition, f.snap.State)
	}
	answer, err := normalize(q, values)
	if err != nil {
		return err
	}
	f.snap.Answers[q.ID] = answer
	return f.save(ctx)
}

func normalize(q Question, values []string) (string, error) {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		clean = append(clean, splitValues(v)...)
	}
	if len(clean) == 0 {
		return "", utils.Invalid(q.ID, "an answer is required")
	}
	if q.Type == SingleChoice && len(clean) > 1 {
		return "", utils.Invalid(q.ID, "only one option may be selected")
	}

	seen := make(map[string]bool, len(clean))
	exclusive := false
	for _, v := range clean {
		o, ok := q.option(v)
		if !ok {
			return "", utils.Invalid(q.ID, fmt.Sprintf("unknown option %q", v))
		}
		if seen[v] {
			return "", utils.Invalid(q.ID, fmt.Sprintf("option %q selected twice", v))
		}
		seen[v] = true
		exclusive = exclusive || o.Exclusive
	}
	if exclusive && len(clean) > 1 {
		return "", utils.Invalid(q.ID, "this option cannot be combined with others")
	}
	return strings.Join(clean, ","), nil
}

// Next leaves the current question. A StopFlag answer ends the flow in the
// red-flag state; running past the last visible question moves to submitting.
func (f *Flow) Next(ctx context.Context) (State, error) {
	q, ok := f.Current()
	if !ok {
		return f.snap.State, fmt.Errorf("%w: cannot advance in state %s", utils.ErrInvalidTransition, f.snap.State)
	}
	answer, answered := f.snap.Answers[q.ID]
	if !answered {
		return f.snap.State, utils.Invalid(q.ID, "an answer is required")
	}

	if q.stopped(answer) {
		f.snap.State = StateRedFlag
		f.snap.RedFlagReason = RedFlagAnswer
		f.snap.RedFlagOn = q.ID
		return f.snap.State, f.save(ctx)
	}

	visible := f.Filtered()
	f.snap.Index = indexOf(visible, q.ID) + 1
	if f.snap.Index >= len(visible) {
		f.snap.Index = len(visible)
		f.snap.State = StateSubmitting
	}
	return f.snap.State, f.save(ctx)
}

// Back steps to the previous visible question, or exits from the first one.
func (f *Flow) Back(ctx context.Context) (State, error) {
	switch f.snap.State {
	case StateSubmitting:
		visible := f.Filtered()
		f.snap.State = StateAnswering
		f.snap.Index = len(visible) - 1
	case StateAnswering:
		q, _ := f.Current()
		pos := indexOf(f.Filtered(), q.ID)
		if pos <= 0 {
			f.snap.State = StateExited
			f.snap.Index = 0
		} else {
			f.snap.Index = pos - 1
		}
	default:
		return f.snap.State, fmt.Errorf("%w: cannot go back from %s", utils.ErrInvalidTransition, f.snap.State)
	}
	return f.snap.State, f.save(ctx)
}

// Submit sends the completed answers to rec. On failure the flow stays in
// submitting with its answers intact so the user can trigger it again.
func (f *Flow) Submit(ctx context.Context, rec Recommender) (*protocol.Summary, error) {
	if f.snap.State != StateSubmitting {
		return nil, fmt.Errorf("%w: cannot submit in state %s", utils.ErrInvalidTransition, f.snap.State)
	}

	summary, err := rec.Recommend(ctx, f.Answers())
	if err != nil {
		return nil, fmt.Errorf("submit questionnaire: %w", err)
	}

	f.snap.Result = &summary
	if summary.RedFlag {
		f.snap.State = StateRedFlag
		f.snap.RedFlagReason = RedFlagBackend
	} else {
		f.snap.State = StateResults
	}
	// the answer map is discarded once submitted; the result stays until Reset
	f.snap.Answers = protocol.Answers{}
	return &summary, f.save(ctx)
}

// Result is set once submission succeeded.
func (f *Flow) Result() *protocol.Summary { return f.snap.Result }

// Reset discards everything stored for this flow.
func (f *Flow) Reset(ctx context.Context) error {
	f.snap = Snapshot{State: StateAnswering, Answers: protocol.Answers{}}
	return f.store.Delete(ctx, f.sessionID, snapshotKey)
}

func (f *Flow) save(ctx context.Context) error {
	raw, err := json.Marshal(f.snap)
	if err != nil {
		return err
	}
	if err := f.store.Set(ctx, f.sessionID, snapshotKey, string(raw)); err != nil {
		return fmt.Errorf("save questionnaire snapshot: %w", err)
	}
	return nil
}

func indexOf(questions []Question, id string) int {
	for i, q := range questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}
