package testdata

import (
	"fmt"
	"strings"

	"CSS-Society/site-backend/internal/form/question"

	"github.com/brianvoe/gofakeit/v7"
)

func RandomName() string {
	return strings.TrimSuffix(gofakeit.Sentence(3), ".")
}

func RandomDescription() string {
	return gofakeit.Sentence(12)
}

func RandomEmail() string {
	return gofakeit.Email()
}

func RandomIP() string {
	return gofakeit.IPv4Address()
}

// RandomQuestion returns a valid question of type t with a random title.
func RandomQuestion(t question.Type) question.Question {
	q := question.Question{
		ID:       question.NewID(),
		Type:     t,
		Title:    gofakeit.Question(),
		Required: gofakeit.Bool(),
	}
	if question.HasOptions(t) {
		count := gofakeit.Number(2, 5)
		for i := 0; i < count; i++ {
			q.Options = append(q.Options, fmt.Sprintf("%s %d", gofakeit.Word(), i+1))
		}
	}
	return q
}

// RandomQuestions returns one question of every supported type.
func RandomQuestions() []question.Question {
	types := question.Types()
	questions := make([]question.Question, 0, len(types))
	for _, t := range types {
		questions = append(questions, RandomQuestion(t))
	}
	return questions
}
