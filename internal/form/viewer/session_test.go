package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form/question"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func hackathonQuestions() []question.Question {
	return []question.Question{
		{ID: "q_name", Type: question.TypeShortText, Title: "Name", Required: true},
		{ID: "q_track", Type: question.TypeMultipleChoice, Title: "Track", Required: true, Options: []string{"A", "B"}},
		{ID: "q_tools", Type: question.TypeCheckbox, Title: "Tools", Required: true, Options: []string{"Go", "Rust", "TS"}},
	}
}

func TestSession_RequiredMultipleChoice(t *testing.T) {
	t.Parallel()

	for _, option := range []string{"A", "B"} {
		option := option
		t.Run("Should allow next after selecting "+option, func(t *testing.T) {
			t.Parallel()

			s := NewSession(uuid.New(), []question.Question{
				{ID: "q1", Type: question.TypeMultipleChoice, Title: "Pick", Required: true, Options: []string{"A", "B"}},
				{ID: "q2", Type: question.TypeShortText, Title: "Why"},
			})
			require.False(t, s.CanGoNext())
			require.ErrorIs(t, s.GoToNext(), internal.ErrQuestionRequired)

			require.NoError(t, s.SelectOption(option))
			require.True(t, s.CanGoNext())
			require.NoError(t, s.GoToNext())
			require.Equal(t, 1, s.Index())
		})
	}
}

func TestSession_SelectOptionReplaces(t *testing.T) {
	t.Parallel()

	s := NewSession(uuid.New(), []question.Question{
		{ID: "q1", Type: question.TypeMultipleChoice, Title: "Pick", Options: []string{"A", "B"}},
	})
	require.NoError(t, s.SelectOption("A"))
	require.NoError(t, s.SelectOption("B"))
	require.Equal(t, question.Text("B"), s.Answers()["q1"])

	require.ErrorIs(t, s.SelectOption("C"), internal.ErrValidationFailed)
	require.ErrorIs(t, s.ToggleOption("A", true), internal.ErrValidationFailed)
}

func TestSession_RequiredCheckbox(t *testing.T) {
	t.Parallel()

	subsets := [][]string{{"Go"}, {"Rust", "TS"}, {"Go", "Rust", "TS"}}
	for _, subset := range subsets {
		s := NewSession(uuid.New(), []question.Question{
			{ID: "q1", Type: question.TypeCheckbox, Title: "Tools", Required: true, Options: []string{"Go", "Rust", "TS"}},
		})
		require.False(t, s.CanGoNext())

		for _, option := range subset {
			require.NoError(t, s.ToggleOption(option, true))
		}
		require.True(t, s.CanGoNext(), "subset %v", subset)

		for _, option := range subset {
			require.NoError(t, s.ToggleOption(option, false))
		}
		require.False(t, s.CanGoNext(), "subset %v cleared", subset)
	}
}

func TestSession_BackAndForthKeepsAnswers(t *testing.T) {
	t.Parallel()

	s := NewSession(uuid.New(), hackathonQuestions())
	require.NoError(t, s.SetAnswer(json.RawMessage(`"Ada"`)))
	require.NoError(t, s.GoToNext())
	require.NoError(t, s.SelectOption("B"))

	require.NoError(t, s.GoToPrevious())
	require.Equal(t, 0, s.Index())
	require.ErrorIs(t, s.GoToPrevious(), internal.ErrNoPreviousQuestion)
	require.True(t, s.CanGoNext())

	require.NoError(t, s.GoToNext())
	require.True(t, s.CanGoNext())

	answers := s.Answers()
	require.Equal(t, question.Text("Ada"), answers["q_name"])
	require.Equal(t, question.Text("B"), answers["q_track"])
}

func TestSession_OptionalQuestionAlwaysPasses(t *testing.T) {
	t.Parallel()

	s := NewSession(uuid.New(), []question.Question{
		{ID: "q1", Type: question.TypeLongText, Title: "Anything else?"},
		{ID: "q2", Type: question.TypeEmail, Title: "Email"},
	})
	require.True(t, s.CanGoNext())
	require.NoError(t, s.GoToNext())
	require.ErrorIs(t, s.GoToNext(), internal.ErrNoNextQuestion)
}

func TestSession_Submit(t *testing.T) {
	t.Parallel()

	t.Run("Should submit once in schema order and lock the session", func(t *testing.T) {
		t.Parallel()

		s := NewSession(uuid.New(), hackathonQuestions())
		require.NoError(t, s.SetAnswer(json.RawMessage(`"Ada"`)))
		require.ErrorIs(t, s.Submit(context.Background(), nil), internal.ErrNotLastQuestion)
		require.NoError(t, s.GoToNext())
		require.NoError(t, s.SelectOption("A"))
		require.NoError(t, s.GoToNext())
		require.NoError(t, s.ToggleOption("TS", true))
		require.NoError(t, s.ToggleOption("Go", true))

		calls := 0
		var got []question.Response
		err := s.Submit(context.Background(), func(ctx context.Context, answers []question.Response) error {
			calls++
			got = answers
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, calls)
		require.Equal(t, StateSubmitted, s.State())
		require.Equal(t, []string{"q_name", "q_track", "q_tools"}, []string{got[0].QuestionID, got[1].QuestionID, got[2].QuestionID})
		require.Equal(t, []string{"TS", "Go"}, got[2].Answer.List())

		require.ErrorIs(t, s.GoToPrevious(), internal.ErrAlreadySubmitted)
		require.ErrorIs(t, s.GoToNext(), internal.ErrAlreadySubmitted)
		require.ErrorIs(t, s.SetAnswer(json.RawMessage(`"x"`)), internal.ErrAlreadySubmitted)
		require.ErrorIs(t, s.Submit(context.Background(), nil), internal.ErrAlreadySubmitted)
		require.Equal(t, 1, calls)
	})

	t.Run("Should stay on the last question when storing fails", func(t *testing.T) {
		t.Parallel()

		s := NewSession(uuid.New(), []question.Question{{ID: "q1", Type: question.TypeShortText, Title: "Name"}})
		cause := errors.New("database unavailable")
		err := s.Submit(context.Background(), func(context.Context, []question.Response) error { return cause })
		require.ErrorIs(t, err, cause)
		require.Equal(t, StateAnswering, s.State())
		require.Equal(t, 0, s.Index())

		require.NoError(t, s.Submit(context.Background(), func(context.Context, []question.Response) error { return nil }))
		require.Equal(t, StateSubmitted, s.State())
	})

	t.Run("Should reject a second submit while the first is running", func(t *testing.T) {
		t.Parallel()

		s := NewSession(uuid.New(), []question.Question{{ID: "q1", Type: question.TypeShortText, Title: "Name"}})
		started := make(chan struct{})
		release := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)
		var firstErr error
		go func() {
			defer wg.Done()
			firstErr = s.Submit(context.Background(), func(context.Context, []question.Response) error {
				close(started)
				<-release
				return nil
			})
		}()

		<-started
		require.ErrorIs(t, s.Submit(context.Background(), nil), internal.ErrSubmitInProgress)
		close(release)
		wg.Wait()

		require.NoError(t, firstErr)
		require.Equal(t, StateSubmitted, s.State())
	})

	t.Run("Should block submit while the last required question is empty", func(t *testing.T) {
		t.Parallel()

		s := NewSession(uuid.New(), []question.Question{{ID: "q1", Type: question.TypeRating, Title: "Rate", Required: true}})
		require.ErrorIs(t, s.Submit(context.Background(), nil), internal.ErrQuestionRequired)
	})
}

func TestSession_RatingFeedback(t *testing.T) {
	t.Parallel()

	s := NewSession(uuid.New(), []question.Question{
		{ID: "q1", Type: question.TypeRating, Title: "How was the workshop?", Required: true},
	})
	require.NoError(t, s.SelectRating(4))
	require.NoError(t, s.SelectRating(4))
	require.ErrorIs(t, s.SelectRating(6), internal.ErrValidationFailed)

	var payload []byte
	err := s.Submit(context.Background(), func(ctx context.Context, answers []question.Response) error {
		var err error
		payload, err = json.Marshal(map[string]any{"responses": answers})
		return err
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"responses":[{"question_id":"q1","answer":4}]}`, string(payload))
}

func TestSession_NoQuestions(t *testing.T) {
	t.Parallel()

	s := NewSession(uuid.New(), nil)
	_, err := s.Current()
	require.ErrorIs(t, err, internal.ErrFormHasNoQuestions)
	require.False(t, s.CanGoNext())
	require.ErrorIs(t, s.GoToNext(), internal.ErrFormHasNoQuestions)
	require.ErrorIs(t, s.Submit(context.Background(), nil), internal.ErrFormHasNoQuestions)
}

func TestReplay(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name        string
		answers     map[string]json.RawMessage
		expectedErr error
		expectedIDs []string
	}

	testCases := []testCase{
		{
			name: "Should submit a complete answer map",
			answers: map[string]json.RawMessage{
				"q_name":  json.RawMessage(`"Ada"`),
				"q_track": json.RawMessage(`"A"`),
				"q_tools": json.RawMessage(`["Go","Go"]`),
				"q_gone":  json.RawMessage(`"ignored"`),
			},
			expectedIDs: []string{"q_name", "q_track", "q_tools"},
		},
		{
			name: "Should stop at the first unanswered required question",
			answers: map[string]json.RawMessage{
				"q_name":  json.RawMessage(`"Ada"`),
				"q_tools": json.RawMessage(`["Go"]`),
			},
			expectedErr: internal.ErrQuestionRequired,
		},
		{
			name: "Should reject an option outside the question",
			answers: map[string]json.RawMessage{
				"q_name":  json.RawMessage(`"Ada"`),
				"q_track": json.RawMessage(`"C"`),
			},
			expectedErr: internal.ErrValidationFailed,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got []question.Response
			err := Replay(context.Background(), uuid.New(), hackathonQuestions(), tc.answers, func(ctx context.Context, answers []question.Response) error {
				got = answers
				return nil
			})

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.Nil(t, got)
				return
			}

			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.QuestionID)
			}
			require.Equal(t, tc.expectedIDs, ids)
			require.Equal(t, []string{"Go"}, got[2].Answer.List())
		})
	}
}
