package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/export"
	"CSS-Society/site-backend/internal/form/question"
	"CSS-Society/site-backend/internal/form/response"
	"CSS-Society/site-backend/internal/health"
	"CSS-Society/site-backend/test/testdata"
	formbuilder "CSS-Society/site-backend/test/testdata/dbbuilder/form"
	responsebuilder "CSS-Society/site-backend/test/testdata/dbbuilder/response"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExportPipeline_Postgres(t *testing.T) {
	db := testdata.SetupPostgres(t)
	ctx := context.Background()
	logger := zap.NewNop()

	nameQuestion := testdata.RandomQuestion(question.TypeShortText)
	nameQuestion.Title = "Name"
	topicQuestion := testdata.RandomQuestion(question.TypeCheckbox)
	topicQuestion.Title = "Topics"
	doc := formbuilder.New(t, db).Create(formbuilder.WithQuestions(nameQuestion, topicQuestion))

	formService := form.NewService(logger, db, form.NopCache{})
	responseService := response.NewService(logger, db)

	first, err := responseService.Submit(ctx, response.SubmitRequest{
		FormID:          doc.ID,
		Answers:         []question.Response{{QuestionID: nameQuestion.ID, Answer: question.Text("Ada")}},
		IPAddress:       testdata.RandomIP(),
		SubmissionToken: "attempt-1",
	})
	require.NoError(t, err)

	retried, err := responseService.Submit(ctx, response.SubmitRequest{
		FormID:          doc.ID,
		Answers:         []question.Response{{QuestionID: nameQuestion.ID, Answer: question.Text("Ada")}},
		SubmissionToken: "attempt-1",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, retried.ID, "a repeated token should return the stored response")

	responsebuilder.New(t, db).Create(doc.ID,
		question.Response{QuestionID: nameQuestion.ID, Answer: question.Text("Grace")},
		question.Response{QuestionID: topicQuestion.ID, Answer: question.List([]string{topicQuestion.Options[0]})},
	)

	summaries, err := formService.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, int64(2), summaries[0].ResponseCount)

	result := export.NewService(logger, formService, responseService).Load(ctx, doc.ID)
	require.Equal(t, export.StateLoaded, result.State)
	require.Len(t, result.Responses, 2)

	raw, err := export.CSV(result.Form, result.Responses)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{export.DateHeader, "Name", "Topics"}, rows[0])

	require.NoError(t, formService.Delete(ctx, doc.ID))
	remaining, err := responseService.ListByFormID(ctx, doc.ID)
	require.NoError(t, err)
	require.Empty(t, remaining, "responses should be removed with their form")
	_, err = formService.GetByID(ctx, doc.ID)
	require.ErrorIs(t, err, internal.ErrFormNotFound)

	found, err := health.NewPoolChecker(db).Check(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, found)
}
