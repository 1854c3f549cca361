package builder

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/question"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultOption = "Option 1"
	NewOption     = "New Option"
)

// Store persists drafts. form.Service satisfies it.
type Store interface {
	Create(ctx context.Context, doc form.Document) (form.Document, error)
	Update(ctx context.Context, doc form.Document) (form.Document, error)
}

// QuestionPatch carries the fields to change on one question. Nil fields stay
// as they are.
type QuestionPatch struct {
	Type        *question.Type
	Title       *string
	Description *string
	Required    *bool
	Validation  *question.Validation
}

// Editor holds a form draft while an administrator edits it. An Editor
// belongs to one editing session and is not safe for concurrent use.
type Editor struct {
	logger *zap.Logger
	tracer trace.Tracer

	draft form.Document
}

func NewEditor(logger *zap.Logger) *Editor {
	return &Editor{
		logger: logger,
		tracer: otel.Tracer("builder/editor"),
		draft:  form.Document{Questions: []question.Question{}},
	}
}

// FromDocument opens an existing form for editing. The document is copied, so
// edits never leak into the caller's value.
func FromDocument(logger *zap.Logger, doc form.Document) *Editor {
	e := NewEditor(logger)
	e.draft = copyDocument(doc)
	return e
}

// Open checks a schema written outside the editor and opens it for saving.
// Questions without an id get one, as they would when added in the editor.
func Open(logger *zap.Logger, doc form.Document) (*Editor, error) {
	editor := FromDocument(logger, doc)
	for i := range editor.draft.Questions {
		if editor.draft.Questions[i].ID == "" {
			editor.draft.Questions[i].ID = question.NewID()
		}
	}

	err := question.ValidateSchema(editor.draft.Questions)
	if err != nil {
		return nil, err
	}
	return editor, nil
}

// Document returns a copy of the current draft.
func (e *Editor) Document() form.Document {
	return copyDocument(e.draft)
}

func (e *Editor) Questions() []question.Question {
	return copyDocument(e.draft).Questions
}

func (e *Editor) SetTitle(title string) {
	e.draft.Title = title
}

func (e *Editor) SetDescription(description string) {
	e.draft.Description = description
}

// AddQuestion appends an empty short text question and returns its index.
func (e *Editor) AddQuestion() int {
	e.draft.Questions = append(e.draft.Questions, question.Question{
		ID:       question.NewID(),
		Type:     question.TypeShortText,
		Title:    "",
		Required: false,
	})
	return len(e.draft.Questions) - 1
}

func (e *Editor) UpdateQuestion(index int, patch QuestionPatch) error {
	q, err := e.question(index)
	if err != nil {
		return err
	}

	if patch.Type != nil && *patch.Type != q.Type {
		err = changeType(q, *patch.Type)
		if err != nil {
			return err
		}
	}
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.Description != nil {
		q.Description = *patch.Description
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.Validation != nil && q.Type == question.TypeNumber {
		validation := *patch.Validation
		q.Validation = &validation
	}

	return nil
}

// changeType switches q to t. Choice types keep the options they already
// have and start with a default option otherwise; other types drop options.
func changeType(q *question.Question, t question.Type) error {
	if _, ok := question.Lookup(t); !ok {
		return question.ErrUnsupportedQuestionType{QuestionType: string(t)}
	}

	if question.HasOptions(t) {
		if len(q.Options) == 0 {
			q.Options = []string{DefaultOption}
		}
	} else {
		q.Options = nil
	}
	if t != question.TypeNumber {
		q.Validation = nil
	}

	q.Type = t
	return nil
}

func (e *Editor) DeleteQuestion(index int) error {
	if _, err := e.question(index); err != nil {
		return err
	}

	e.draft.Questions = slices.Delete(e.draft.Questions, index, index+1)
	return nil
}

// MoveQuestion moves the question at from so that it ends up at index to.
func (e *Editor) MoveQuestion(from, to int) error {
	q, err := e.question(from)
	if err != nil {
		return err
	}
	if to < 0 || to >= len(e.draft.Questions) {
		return fmt.Errorf("%w: %d", internal.ErrQuestionIndexInvalid, to)
	}

	moved := *q
	e.draft.Questions = slices.Delete(e.draft.Questions, from, from+1)
	e.draft.Questions = slices.Insert(e.draft.Questions, to, moved)
	return nil
}

func (e *Editor) AddOption(questionIndex int) (int, error) {
	q, err := e.choiceQuestion(questionIndex)
	if err != nil {
		return 0, err
	}

	q.Options = append(q.Options, NewOption)
	return len(q.Options) - 1, nil
}

func (e *Editor) UpdateOption(questionIndex, optionIndex int, value string) error {
	q, err := e.choiceQuestion(questionIndex)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("%w: %d", internal.ErrOptionIndexInvalid, optionIndex)
	}

	q.Options[optionIndex] = value
	return nil
}

// DeleteOption removes one option. The last option of a choice question can
// not be removed.
func (e *Editor) DeleteOption(questionIndex, optionIndex int) error {
	q, err := e.choiceQuestion(questionIndex)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("%w: %d", internal.ErrOptionIndexInvalid, optionIndex)
	}
	if len(q.Options) == 1 {
		return internal.ErrLastOption
	}

	q.Options = slices.Delete(q.Options, optionIndex, optionIndex+1)
	return nil
}

// Validate applies the save rules in order and returns the first one broken.
func (e *Editor) Validate() error {
	if strings.TrimSpace(e.draft.Title) == "" {
		return ValidationError{Rule: RuleTitleRequired, Message: "Please add a form title."}
	}
	if len(e.draft.Questions) == 0 {
		return ValidationError{Rule: RuleQuestionsRequired, Message: "Please add at least one question."}
	}
	for _, q := range e.draft.Questions {
		if strings.TrimSpace(q.Title) == "" {
			return ValidationError{
				Rule:    RuleQuestionTitlesRequired,
				Message: "Please add titles to all questions and make sure they are not empty.",
			}
		}
	}
	return nil
}

// Save validates the draft and writes it. A draft without an id is inserted,
// any other draft replaces the stored form at the draft's version. Saving
// publishes the form. On failure the draft is left as it was.
func (e *Editor) Save(ctx context.Context, store Store) (form.Document, error) {
	ctx, span := e.tracer.Start(ctx, "Save")
	defer span.End()
	logger := logutil.WithContext(ctx, e.logger)

	err := e.Validate()
	if err != nil {
		span.RecordError(err)
		return form.Document{}, err
	}

	doc := copyDocument(e.draft)
	doc.Title = strings.TrimSpace(doc.Title)
	doc.Description = strings.TrimSpace(doc.Description)
	doc.IsActive = true
	for i := range doc.Questions {
		doc.Questions[i].Title = strings.TrimSpace(doc.Questions[i].Title)
	}
	doc.Questions = question.Normalize(doc.Questions)

	var saved form.Document
	if doc.IsNew() {
		saved, err = store.Create(ctx, doc)
	} else {
		saved, err = store.Update(ctx, doc)
	}
	if err != nil {
		logger.Error("Failed to save form", zap.String("form_id", doc.ID.String()), zap.Error(err))
		span.RecordError(err)
		return form.Document{}, fmt.Errorf("failed to save form: %w", err)
	}

	logger.Info("Saved form", zap.String("form_id", saved.ID.String()), zap.Int32("version", saved.Version), zap.Int("question_count", len(saved.Questions)))

	e.draft = copyDocument(saved)
	return copyDocument(saved), nil
}

func (e *Editor) question(index int) (*question.Question, error) {
	if index < 0 || index >= len(e.draft.Questions) {
		return nil, fmt.Errorf("%w: %d", internal.ErrQuestionIndexInvalid, index)
	}
	return &e.draft.Questions[index], nil
}

func (e *Editor) choiceQuestion(index int) (*question.Question, error) {
	q, err := e.question(index)
	if err != nil {
		return nil, err
	}
	if !question.HasOptions(q.Type) {
		return nil, fmt.Errorf("%w: %s", internal.ErrQuestionHasNoOptions, q.Type)
	}
	return q, nil
}

func copyDocument(doc form.Document) form.Document {
	questions := make([]question.Question, len(doc.Questions))
	for i, q := range doc.Questions {
		q.Options = slices.Clone(q.Options)
		if q.Validation != nil {
			validation := *q.Validation
			q.Validation = &validation
		}
		questions[i] = q
	}
	doc.Questions = questions
	return doc
}
