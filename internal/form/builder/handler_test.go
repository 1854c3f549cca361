package builder

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form"

	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(store Store) *Handler {
	return NewHandler(zap.NewNop(), internal.NewValidator(), internal.NewProblemWriter(), store, "https://css.example.org")
}

const validBody = `{"title":" Spring Hackathon Signup ","questions":[{"id":"q_name","type":"short_text","title":"Name","required":true}],"version":2}`

func TestHandler_CreateHandler(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name           string
		body           string
		setup          func(store *mockStore)
		expectedStatus int
		expectedDetail string
	}

	testCases := []testCase{
		{
			name: "Should create and publish a valid form",
			body: validBody,
			setup: func(store *mockStore) {
				store.On("Create", mock.Anything, mock.MatchedBy(func(doc form.Document) bool {
					return doc.IsNew() && doc.Title == "Spring Hackathon Signup" && doc.IsActive
				})).Return(form.Document{ID: uuid.New(), Title: "Spring Hackathon Signup", IsActive: true, Version: 1, CreatedAt: time.Now()}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Should reject a form without a title",
			body:           `{"title":"   ","questions":[{"id":"q_name","type":"short_text","title":"Name"}]}`,
			setup:          func(store *mockStore) {},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Please add a form title.",
		},
		{
			name:           "Should reject a form without questions",
			body:           `{"title":"Signup","questions":[]}`,
			setup:          func(store *mockStore) {},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Please add at least one question.",
		},
		{
			name:           "Should reject a choice question without options",
			body:           `{"title":"Signup","questions":[{"id":"q_track","type":"multiple_choice","title":"Track"}]}`,
			setup:          func(store *mockStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Should reject an unknown question type",
			body:           `{"title":"Signup","questions":[{"id":"q_when","type":"date","title":"When"}]}`,
			setup:          func(store *mockStore) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &mockStore{}
			tc.setup(store)

			req := httptest.NewRequest(http.MethodPost, "/api/forms", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			newTestHandler(store).CreateHandler(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			store.AssertExpectations(t)
			if tc.expectedStatus != http.StatusCreated {
				store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			if tc.expectedDetail != "" {
				var body problem.Problem
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Contains(t, body.Detail, tc.expectedDetail)
			}
		})
	}
}

func TestHandler_UpdateHandler(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name           string
		setup          func(store *mockStore, id uuid.UUID)
		expectedStatus int
	}

	testCases := []testCase{
		{
			name: "Should save with the version the editor loaded",
			setup: func(store *mockStore, id uuid.UUID) {
				store.On("Update", mock.Anything, mock.MatchedBy(func(doc form.Document) bool {
					return doc.ID == id && doc.Version == 2
				})).Return(form.Document{ID: id, Title: "Spring Hackathon Signup", IsActive: true, Version: 3}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Should reject a save over a newer version",
			setup: func(store *mockStore, id uuid.UUID) {
				store.On("Update", mock.Anything, mock.Anything).Return(form.Document{}, internal.ErrFormVersionConflict).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Should answer not found for a deleted form",
			setup: func(store *mockStore, id uuid.UUID) {
				store.On("Update", mock.Anything, mock.Anything).Return(form.Document{}, internal.ErrFormNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &mockStore{}
			id := uuid.New()
			tc.setup(store, id)

			req := httptest.NewRequest(http.MethodPut, "/api/forms/"+id.String(), strings.NewReader(validBody))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("formId", id.String())
			rec := httptest.NewRecorder()

			newTestHandler(store).UpdateHandler(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			store.AssertExpectations(t)

			if tc.expectedStatus == http.StatusOK {
				var body form.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, int32(3), body.Version)
			}
		})
	}
}
