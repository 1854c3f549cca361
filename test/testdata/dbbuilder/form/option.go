package formbuilder

import (
	"CSS-Society/site-backend/internal/form/question"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	Title       string
	Description string
	Questions   []question.Question
	IsActive    bool
}

func WithTitle(title string) Option {
	return func(p *FactoryParams) { p.Title = title }
}

func WithDescription(description string) Option {
	return func(p *FactoryParams) { p.Description = description }
}

func WithQuestions(questions ...question.Question) Option {
	return func(p *FactoryParams) { p.Questions = questions }
}

func WithInactive() Option {
	return func(p *FactoryParams) { p.IsActive = false }
}
