package export

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/question"
	"CSS-Society/site-backend/internal/form/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type mockFormStore struct {
	mock.Mock
}

func (m *mockFormStore) GetByID(ctx context.Context, id uuid.UUID) (form.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(form.Document)
	return doc, args.Error(1)
}

type mockResponseStore struct {
	mock.Mock
}

func (m *mockResponseStore) ListByFormID(ctx context.Context, formID uuid.UUID) ([]response.Record, error) {
	args := m.Called(ctx, formID)
	records, _ := args.Get(0).([]response.Record)
	return records, args.Error(1)
}

func signupForm() form.Document {
	return form.Document{
		ID:    uuid.New(),
		Title: `Spring "Hack" Night`,
		Questions: []question.Question{
			{ID: "q_name", Type: question.TypeShortText, Title: "Name"},
			{ID: "q_tools", Type: question.TypeCheckbox, Title: "Tools", Options: []string{"Go", "Rust"}},
			{ID: "q_age", Type: question.TypeNumber, Title: `Age "years"`},
		},
	}
}

func signupRecords() []response.Record {
	return []response.Record{
		{
			ID:          uuid.New(),
			SubmittedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			Responses: []question.Response{
				{QuestionID: "q_name", Answer: question.Text(`Ada "the first"`)},
				{QuestionID: "q_tools", Answer: question.List([]string{"Go", "Rust"})},
				{QuestionID: "q_age", Answer: question.Number(0)},
			},
		},
		{
			ID:          uuid.New(),
			SubmittedAt: time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC),
			Responses: []question.Response{
				{QuestionID: "q_name", Answer: question.Text("")},
				{QuestionID: "q_tools", Answer: question.List(nil)},
			},
		},
	}
}

func TestAnswerDisplay(t *testing.T) {
	t.Parallel()

	record := signupRecords()[0]
	blank := signupRecords()[1]

	type testCase struct {
		name       string
		questionID string
		record     response.Record
		expected   string
	}

	testCases := []testCase{
		{name: "Should join list answers with a comma", questionID: "q_tools", record: record, expected: "Go, Rust"},
		{name: "Should show zero as a number", questionID: "q_age", record: record, expected: "0"},
		{name: "Should show a dash for an empty string", questionID: "q_name", record: blank, expected: "-"},
		{name: "Should show a dash for an empty list", questionID: "q_tools", record: blank, expected: "-"},
		{name: "Should show a dash for a missing answer", questionID: "q_age", record: blank, expected: "-"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, AnswerDisplay(tc.questionID, tc.record))
		})
	}
}

func TestCSV(t *testing.T) {
	t.Parallel()

	data, err := CSV(signupForm(), signupRecords())
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, `"Submission Date","Name","Tools","Age ""years"""`, lines[0])
	require.Equal(t, `"2025-03-02T08:30:00Z","-","-","-"`, lines[1])
	require.Equal(t, `"2025-03-01T10:00:00Z","Ada ""the first""","Go, Rust","0"`, lines[2])
}

func TestCSV_Shape(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 4; n++ {
		for m := 0; m <= 3; m++ {
			doc := form.Document{Title: "Shape"}
			for j := 0; j < m; j++ {
				doc.Questions = append(doc.Questions, question.Question{ID: string(rune('a' + j)), Type: question.TypeShortText, Title: "Q"})
			}
			records := make([]response.Record, n)
			for i := range records {
				records[i] = response.Record{ID: uuid.New(), SubmittedAt: time.Unix(int64(i), 0)}
			}

			data, err := CSV(doc, records)
			require.NoError(t, err)

			lines := strings.Split(string(data), "\n")
			require.Len(t, lines, n+1)
			for _, line := range lines {
				require.Equal(t, m+1, strings.Count(line, `","`)+1, line)
			}
		}
	}
}

func TestCSV_NoResponses(t *testing.T) {
	t.Parallel()

	_, err := CSV(signupForm(), nil)
	require.ErrorIs(t, err, internal.ErrNoResponsesToExport)
	require.Equal(t, "no responses to export", err.Error())
}

func TestXLSX(t *testing.T) {
	t.Parallel()

	data, err := XLSX(signupForm(), signupRecords())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{DateHeader, "Name", "Tools", `Age "years"`}, rows[0])
	require.Equal(t, "Go, Rust", rows[2][2])
}

func TestFilename(t *testing.T) {
	t.Parallel()

	require.Equal(t, "spring__hack__night_responses.csv", Filename(`Spring "Hack" Night`, "csv"))
	require.Equal(t, "________responses.xlsx", Filename("活動報名表!!", "xlsx"))
}

func TestService_Load(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		setup    func(forms *mockFormStore, responses *mockResponseStore, doc form.Document)
		expected State
	}

	testCases := []testCase{
		{
			name: "Should be loaded newest first",
			setup: func(forms *mockFormStore, responses *mockResponseStore, doc form.Document) {
				forms.On("GetByID", mock.Anything, doc.ID).Return(doc, nil).Once()
				responses.On("ListByFormID", mock.Anything, doc.ID).Return(signupRecords(), nil).Once()
			},
			expected: StateLoaded,
		},
		{
			name: "Should be empty when nobody answered",
			setup: func(forms *mockFormStore, responses *mockResponseStore, doc form.Document) {
				forms.On("GetByID", mock.Anything, doc.ID).Return(doc, nil).Once()
				responses.On("ListByFormID", mock.Anything, doc.ID).Return([]response.Record{}, nil).Once()
			},
			expected: StateEmpty,
		},
		{
			name: "Should fail when the responses can not be read",
			setup: func(forms *mockFormStore, responses *mockResponseStore, doc form.Document) {
				forms.On("GetByID", mock.Anything, doc.ID).Return(doc, nil).Once()
				responses.On("ListByFormID", mock.Anything, doc.ID).Return(nil, errors.New("timeout")).Once()
			},
			expected: StateFailed,
		},
		{
			name: "Should fail when the form is missing",
			setup: func(forms *mockFormStore, responses *mockResponseStore, doc form.Document) {
				forms.On("GetByID", mock.Anything, doc.ID).Return(form.Document{}, internal.ErrFormNotFound).Once()
			},
			expected: StateFailed,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			forms := &mockFormStore{}
			responses := &mockResponseStore{}
			doc := signupForm()
			tc.setup(forms, responses, doc)

			result := NewService(zap.NewNop(), forms, responses).Load(context.Background(), doc.ID)
			require.Equal(t, tc.expected, result.State)

			switch tc.expected {
			case StateLoaded:
				require.Len(t, result.Responses, 2)
				require.True(t, result.Responses[0].SubmittedAt.After(result.Responses[1].SubmittedAt))
				require.NoError(t, result.Err)
			case StateEmpty:
				require.Empty(t, result.Responses)
				require.NoError(t, result.Err)
			case StateFailed:
				require.Error(t, result.Err)
			}
		})
	}
}

type stubLoader struct {
	result Result
}

func (s stubLoader) Load(context.Context, uuid.UUID) Result {
	return s.result
}

func TestHandler_ExportHandler(t *testing.T) {
	t.Parallel()

	doc := signupForm()

	type testCase struct {
		name           string
		format         string
		result         Result
		expectedStatus int
		expectedType   string
	}

	testCases := []testCase{
		{name: "Should download csv by default", result: Result{State: StateLoaded, Form: doc, Responses: signupRecords()}, expectedStatus: http.StatusOK, expectedType: contentTypes[FormatCSV]},
		{name: "Should download xlsx on request", format: "xlsx", result: Result{State: StateLoaded, Form: doc, Responses: signupRecords()}, expectedStatus: http.StatusOK, expectedType: contentTypes[FormatXLSX]},
		{name: "Should answer not found when there is nothing to export", result: Result{State: StateEmpty, Form: doc}, expectedStatus: http.StatusNotFound},
		{name: "Should reject an unknown format", format: "pdf", expectedStatus: http.StatusBadRequest},
		{name: "Should report a missing form", result: Result{State: StateFailed, Err: internal.ErrFormNotFound}, expectedStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(zap.NewNop(), internal.NewProblemWriter(), stubLoader{result: tc.result})

			target := "/api/admin/forms/" + doc.ID.String() + "/responses/export"
			if tc.format != "" {
				target += "?format=" + tc.format
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			req.SetPathValue("formId", doc.ID.String())
			rec := httptest.NewRecorder()

			h.ExportHandler(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			if tc.expectedType != "" {
				require.Equal(t, tc.expectedType, rec.Header().Get("Content-Type"))
				require.Contains(t, rec.Header().Get("Content-Disposition"), "spring__hack__night_responses.")
			}
		})
	}
}
