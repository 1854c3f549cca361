package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form/question"

	"github.com/google/uuid"
)

type State int

const (
	StateAnswering State = iota
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateAnswering:
		return "answering"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// SubmitFunc stores the collected answers. It is called at most once per
// session.
type SubmitFunc func(ctx context.Context, answers []question.Response) error

// Session walks a respondent through a form one question at a time. It is
// safe for concurrent use.
type Session struct {
	mu sync.Mutex

	formID    uuid.UUID
	questions []question.Question
	index     int
	answers   map[string]question.Answer

	submitting bool
	submitted  bool
}

func NewSession(formID uuid.UUID, questions []question.Question) *Session {
	return &Session{
		formID:    formID,
		questions: append([]question.Question(nil), questions...),
		answers:   make(map[string]question.Answer),
	}
}

func (s *Session) FormID() uuid.UUID {
	return s.formID
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return StateSubmitted
	}
	return StateAnswering
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.index
}

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.questions) > 0 && s.index == len(s.questions)-1
}

func (s *Session) Current() (question.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return question.Question{}, err
	}
	return s.questions[s.index], nil
}

// Answers returns a copy of every captured answer keyed by question id.
func (s *Session) Answers() map[string]question.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]question.Answer, len(s.answers))
	for id, a := range s.answers {
		result[id] = a
	}
	return result
}

// SetAnswer captures raw input for the current question. Input that decodes to
// the absent answer clears any stored value.
func (s *Session) SetAnswer(raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	q := s.questions[s.index]
	a, err := question.Capture(q, raw)
	if err != nil {
		return err
	}

	s.store(q, a)
	return nil
}

// SelectOption replaces the selection of a multiple choice question.
func (s *Session) SelectOption(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.currentOfType(question.TypeMultipleChoice)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(option)
	if err != nil {
		return err
	}
	a, err := question.NewMultipleChoice().Capture(q, raw)
	if err != nil {
		return err
	}

	s.store(q, a)
	return nil
}

// ToggleOption adds or removes one option of a checkbox question.
func (s *Session) ToggleOption(option string, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.currentOfType(question.TypeCheckbox)
	if err != nil {
		return err
	}

	a, err := question.NewCheckbox().Toggle(q, s.answers[q.ID], option, checked)
	if err != nil {
		return err
	}

	s.store(q, a)
	return nil
}

// SelectRating sets the rating of a rating question. Selecting the current
// value again keeps it.
func (s *Session) SelectRating(value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.currentOfType(question.TypeRating)
	if err != nil {
		return err
	}

	a, err := question.NewRating().Select(q, float64(value))
	if err != nil {
		return err
	}

	s.store(q, a)
	return nil
}

func (s *Session) CanGoNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkOpen() != nil {
		return false
	}
	return s.canGoNext()
}

func (s *Session) GoToNext() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.index == len(s.questions)-1 {
		return internal.ErrNoNextQuestion
	}
	if !s.canGoNext() {
		return fmt.Errorf("%w: %s", internal.ErrQuestionRequired, s.questions[s.index].Title)
	}

	s.index++
	return nil
}

func (s *Session) GoToPrevious() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.index == 0 {
		return internal.ErrNoPreviousQuestion
	}

	s.index--
	return nil
}

// Submit hands the answers to submit in schema order, skipping unanswered
// questions. It is only allowed on the last question once that question may be
// left. A failed submit keeps the session on the last question so it can be
// retried.
func (s *Session) Submit(ctx context.Context, submit SubmitFunc) error {
	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.index != len(s.questions)-1 {
		s.mu.Unlock()
		return internal.ErrNotLastQuestion
	}
	if !s.canGoNext() {
		title := s.questions[s.index].Title
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", internal.ErrQuestionRequired, title)
	}

	responses := make([]question.Response, 0, len(s.answers))
	for _, q := range s.questions {
		a, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		responses = append(responses, question.Response{QuestionID: q.ID, Answer: a})
	}
	s.submitting = true
	s.mu.Unlock()

	err := submit(ctx, responses)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	if err != nil {
		return err
	}

	s.submitted = true
	return nil
}

func (s *Session) checkOpen() error {
	if s.submitted {
		return internal.ErrAlreadySubmitted
	}
	if s.submitting {
		return internal.ErrSubmitInProgress
	}
	if len(s.questions) == 0 {
		return internal.ErrFormHasNoQuestions
	}
	return nil
}

func (s *Session) canGoNext() bool {
	q := s.questions[s.index]
	return question.HasValue(q, s.answers[q.ID])
}

func (s *Session) currentOfType(t question.Type) (question.Question, error) {
	if err := s.checkOpen(); err != nil {
		return question.Question{}, err
	}

	q := s.questions[s.index]
	if q.Type != t {
		return question.Question{}, question.ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       q.Type,
			Message:    fmt.Sprintf("question does not take %s input", t),
		}
	}
	return q, nil
}

func (s *Session) store(q question.Question, a question.Answer) {
	if a.IsAbsent() {
		delete(s.answers, q.ID)
		return
	}
	s.answers[q.ID] = a
}
