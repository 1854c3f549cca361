package form

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form/question"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(Document)
	return doc, args.Error(1)
}

func (m *mockStore) GetActive(ctx context.Context, id uuid.UUID) (Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(Document)
	return doc, args.Error(1)
}

func (m *mockStore) List(ctx context.Context) ([]Summary, error) {
	args := m.Called(ctx)
	summaries, _ := args.Get(0).([]Summary)
	return summaries, args.Error(1)
}

func (m *mockStore) SetActive(ctx context.Context, id uuid.UUID, active bool) (Document, error) {
	args := m.Called(ctx, id, active)
	doc, _ := args.Get(0).(Document)
	return doc, args.Error(1)
}

func newTestHandler(store Store) *Handler {
	return NewHandler(zap.NewNop(), internal.NewValidator(), internal.NewProblemWriter(), store, "https://css.example.org")
}

func TestHandler_PublicGetHandler(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name           string
		pathID         string
		setup          func(store *mockStore, id uuid.UUID)
		expectedStatus int
	}

	testCases := []testCase{
		{
			name: "Should return the questions of a published form",
			setup: func(store *mockStore, id uuid.UUID) {
				store.On("GetActive", mock.Anything, id).Return(Document{
					ID:        id,
					Title:     "Spring Hackathon Signup",
					IsActive:  true,
					Questions: sampleQuestions(),
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Should answer not found for an inactive form",
			setup: func(store *mockStore, id uuid.UUID) {
				store.On("GetActive", mock.Anything, id).Return(Document{}, internal.ErrFormNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Should reject a malformed form id",
			pathID:         "not-a-uuid",
			setup:          func(store *mockStore, id uuid.UUID) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &mockStore{}
			id := uuid.New()
			tc.setup(store, id)
			pathID := tc.pathID
			if pathID == "" {
				pathID = id.String()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/public/forms/"+pathID, nil)
			req.SetPathValue("formId", pathID)
			rec := httptest.NewRecorder()

			newTestHandler(store).PublicGetHandler(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			store.AssertExpectations(t)

			if tc.expectedStatus == http.StatusNotFound {
				require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
			}
			if tc.expectedStatus == http.StatusOK {
				var body PublicResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, id.String(), body.ID)
				require.Len(t, body.Questions, 2)
				require.Equal(t, question.TypeMultipleChoice, body.Questions[1].Type)
			}
		})
	}
}

func TestHandler_GetHandler_ShareURL(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	id := uuid.New()
	store.On("GetByID", mock.Anything, id).Return(Document{ID: id, Title: "Draft", Questions: sampleQuestions(), Version: 3}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/forms/"+id.String(), nil)
	req.SetPathValue("formId", id.String())
	rec := httptest.NewRecorder()

	newTestHandler(store).GetHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, ShareURL("https://css.example.org", id), body.ShareURL)
	require.Equal(t, int32(3), body.Version)
}
