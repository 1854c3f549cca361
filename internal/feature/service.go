package feature

import (
	"context"
	"errors"
	"strings"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/content"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Feature, error)
	Update(ctx context.Context, arg UpdateParams) (Feature, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Feature, error)
	List(ctx context.Context, arg ListParams) ([]Feature, error)
}

// Input is a project showcase as written in the admin dashboard.
type Input struct {
	Title        string
	Description  string
	Content      string
	ThumbnailURL string
	DemoURL      string
	GithubURL    string
	Category     string
	Author       string
	Technologies []string
	IsPublished  bool
	Featured     bool
}

type ListFilter struct {
	PublishedOnly bool
	Category      string
	FeaturedOnly  bool
}

func (f ListFilter) params() ListParams {
	return ListParams{
		PublishedOnly: f.PublishedOnly,
		Category:      f.Category,
		FeaturedOnly:  f.FeaturedOnly,
	}
}

type Service struct {
	logger    *zap.Logger
	queries   Querier
	tracer    trace.Tracer
	sanitizer *content.Sanitizer
}

func NewService(logger *zap.Logger, db DBTX, sanitizer *content.Sanitizer) *Service {
	return &Service{
		logger:    logger,
		queries:   New(db),
		tracer:    otel.Tracer("feature/service"),
		sanitizer: sanitizer,
	}
}

func (s *Service) Create(ctx context.Context, input Input) (Feature, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	clean := s.clean(input)
	feature, err := s.queries.Create(ctx, CreateParams{
		Title:        clean.Title,
		Description:  toText(clean.Description),
		Content:      clean.Content,
		ThumbnailUrl: toText(clean.ThumbnailURL),
		DemoUrl:      toText(clean.DemoURL),
		GithubUrl:    toText(clean.GithubURL),
		Category:     clean.Category,
		Author:       toText(clean.Author),
		Technologies: clean.Technologies,
		IsPublished:  clean.IsPublished,
		Featured:     clean.Featured,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create feature")
		span.RecordError(err)
		return Feature{}, err
	}

	return feature, nil
}

// Update replaces a showcase. published_at is stamped by the first publish
// and survives later edits and unpublishing.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) (Feature, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	clean := s.clean(input)
	feature, err := s.queries.Update(ctx, UpdateParams{
		ID:           id,
		Title:        clean.Title,
		Description:  toText(clean.Description),
		Content:      clean.Content,
		ThumbnailUrl: toText(clean.ThumbnailURL),
		DemoUrl:      toText(clean.DemoURL),
		GithubUrl:    toText(clean.GithubURL),
		Category:     clean.Category,
		Author:       toText(clean.Author),
		Technologies: clean.Technologies,
		IsPublished:  clean.IsPublished,
		Featured:     clean.Featured,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrFeatureNotFound)
			return Feature{}, internal.ErrFeatureNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "features", "id", id.String(), logger, "update feature")
		span.RecordError(err)
		return Feature{}, err
	}

	return feature, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	affected, err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "features", "id", id.String(), logger, "delete feature")
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.RecordError(internal.ErrFeatureNotFound)
		return internal.ErrFeatureNotFound
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (Feature, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	feature, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrFeatureNotFound)
			return Feature{}, internal.ErrFeatureNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "features", "id", id.String(), logger, "get feature by id")
		span.RecordError(err)
		return Feature{}, err
	}
	if publishedOnly && !feature.IsPublished {
		return Feature{}, internal.ErrFeatureNotFound
	}

	return feature, nil
}

// List returns featured showcases first, newest publication first within
// each group.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Feature, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	features, err := s.queries.List(ctx, filter.params())
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list features")
		span.RecordError(err)
		return []Feature{}, err
	}
	if features == nil {
		features = []Feature{}
	}

	return features, nil
}

func (s *Service) clean(input Input) Input {
	input.Title = s.sanitizer.Text(input.Title)
	input.Description = s.sanitizer.Text(input.Description)
	input.Content = s.sanitizer.HTML(input.Content)
	input.Author = s.sanitizer.Text(input.Author)

	technologies := make([]string, 0, len(input.Technologies))
	seen := make(map[string]bool, len(input.Technologies))
	for _, tech := range input.Technologies {
		tech = s.sanitizer.Text(tech)
		if tech == "" || seen[strings.ToLower(tech)] {
			continue
		}
		seen[strings.ToLower(tech)] = true
		technologies = append(technologies, tech)
	}
	input.Technologies = technologies

	return input
}

func toText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
