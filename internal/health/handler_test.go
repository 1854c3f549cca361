package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type stubChecker struct {
	found int
	err   error
}

func (s stubChecker) Check(ctx context.Context) (int, error) {
	return s.found, s.err
}

func TestHandler_KeepAliveHandler(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	zero := 0
	one := 1

	type testCase struct {
		name           string
		method         string
		checker         stubChecker
		expectedStatus int
		expectedBody   KeepAliveResponse
	}

	testCases := []testCase{
		{
			name:           "Should report a reachable database on GET",
			method:         http.MethodGet,
			checker:         stubChecker{found: 1},
			expectedStatus: http.StatusOK,
			expectedBody:   KeepAliveResponse{Success: true, Message: KeepAliveMessage, Timestamp: "2026-01-02T03:04:05Z", RecordsFound: &one},
		},
		{
			name:           "Should succeed on POST with an empty forms table",
			method:         http.MethodPost,
			checker:         stubChecker{},
			expectedStatus: http.StatusOK,
			expectedBody:   KeepAliveResponse{Success: true, Message: KeepAliveMessage, Timestamp: "2026-01-02T03:04:05Z", RecordsFound: &zero},
		},
		{
			name:           "Should report the failure with status 500",
			method:         http.MethodGet,
			checker:         stubChecker{err: errors.New("connection refused")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   KeepAliveResponse{Success: false, Error: "connection refused", Timestamp: "2026-01-02T03:04:05Z"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := &Handler{
				logger: zap.NewNop(),
				tracer: noop.NewTracerProvider().Tracer("test"),
				checker: tc.checker,
				now:    func() time.Time { return fixed },
			}

			req := httptest.NewRequest(tc.method, "/api/keep-alive", nil)
			rec := httptest.NewRecorder()
			h.KeepAliveHandler(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code)

			var body KeepAliveResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.expectedBody, body)
		})
	}
}

func TestHandler_HealthzHandler(t *testing.T) {
	t.Parallel()

	h := NewHandler(zap.NewNop(), stubChecker{})
	rec := httptest.NewRecorder()
	h.HealthzHandler(rec, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}
