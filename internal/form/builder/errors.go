package builder

import "CSS-Society/site-backend/internal"

type Rule string

const (
	RuleTitleRequired          Rule = "title_required"
	RuleQuestionsRequired      Rule = "questions_required"
	RuleQuestionTitlesRequired Rule = "question_titles_required"
)

// ValidationError reports the first save rule a draft breaks. Message is shown
// to the administrator as is.
type ValidationError struct {
	Rule    Rule
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func (e ValidationError) Unwrap() error {
	return internal.ErrValidationFailed
}
