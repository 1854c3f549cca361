package feature

import (
	"context"
	"testing"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/content"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (Feature, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(Feature)
	return row, args.Error(1)
}

func (m *mockQuerier) Update(ctx context.Context, arg UpdateParams) (Feature, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(Feature)
	return row, args.Error(1)
}

func (m *mockQuerier) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	affected, _ := args.Get(0).(int64)
	return affected, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (Feature, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(Feature)
	return row, args.Error(1)
}

func (m *mockQuerier) List(ctx context.Context, arg ListParams) ([]Feature, error) {
	args := m.Called(ctx, arg)
	rows, _ := args.Get(0).([]Feature)
	return rows, args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockQuerier) {
	t.Helper()

	q := &mockQuerier{}
	return &Service{
		logger:    zap.NewNop(),
		queries:   q,
		tracer:    noop.NewTracerProvider().Tracer("test"),
		sanitizer: content.NewSanitizer(),
	}, q
}

func TestService_Create_SanitizesInput(t *testing.T) {
	t.Parallel()

	s, q := newTestService(t)
	q.On("Create", mock.Anything, mock.MatchedBy(func(arg CreateParams) bool {
		return arg.Title == "Campus Map" &&
			arg.Description.String == "Find any classroom" &&
			arg.Content == "<p>Built in a weekend</p>" &&
			arg.DemoUrl.String == "https://map.example.org" &&
			!arg.GithubUrl.Valid &&
			arg.Featured &&
			len(arg.Technologies) == 2 && arg.Technologies[0] == "Go" && arg.Technologies[1] == "Svelte"
	})).Return(Feature{ID: uuid.New(), Title: "Campus Map"}, nil).Once()

	_, err := s.Create(context.Background(), Input{
		Title:        "<b>Campus Map</b>",
		Description:  "<i>Find</i> any classroom",
		Content:      `<p>Built in a weekend</p><script>steal()</script>`,
		DemoURL:      "https://map.example.org",
		Category:     "web",
		Technologies: []string{" Go ", "<b>Svelte</b>", "go", ""},
		Featured:     true,
	})
	require.NoError(t, err)
	q.AssertExpectations(t)
}

func TestService_GetByID(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name          string
		stored        Feature
		storedErr     error
		publishedOnly bool
		expectedErr   error
	}

	testCases := []testCase{
		{name: "Should return a published feature to the public", stored: Feature{IsPublished: true}, publishedOnly: true},
		{name: "Should hide an unpublished feature from the public", stored: Feature{IsPublished: false}, publishedOnly: true, expectedErr: internal.ErrFeatureNotFound},
		{name: "Should return an unpublished feature to administrators", stored: Feature{IsPublished: false}},
		{name: "Should translate a missing row", storedErr: pgx.ErrNoRows, expectedErr: internal.ErrFeatureNotFound},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, q := newTestService(t)
			id := uuid.New()
			tc.stored.ID = id
			q.On("GetByID", mock.Anything, id).Return(tc.stored, tc.storedErr).Once()

			got, err := s.GetByID(context.Background(), id, tc.publishedOnly)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, id, got.ID)
		})
	}
}

func TestService_UpdateAndDelete_NotFound(t *testing.T) {
	t.Parallel()

	s, q := newTestService(t)
	id := uuid.New()
	q.On("Update", mock.Anything, mock.MatchedBy(func(arg UpdateParams) bool {
		return arg.ID == id && arg.Technologies != nil
	})).Return(Feature{}, pgx.ErrNoRows).Once()
	q.On("Delete", mock.Anything, id).Return(int64(0), nil).Once()

	_, err := s.Update(context.Background(), id, Input{Title: "x", Content: "y", Category: "general"})
	require.ErrorIs(t, err, internal.ErrFeatureNotFound)
	require.ErrorIs(t, s.Delete(context.Background(), id), internal.ErrFeatureNotFound)
	q.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	t.Parallel()

	s, q := newTestService(t)
	q.On("List", mock.Anything, ListParams{PublishedOnly: true, Category: "web", FeaturedOnly: true}).Return(nil, nil).Once()

	got, err := s.List(context.Background(), ListFilter{PublishedOnly: true, Category: "web", FeaturedOnly: true})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}
