package news

import (
	"context"
	"errors"

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
	Create(ctx context.Context, arg CreateParams) (NewsArticle, error)
	Update(ctx context.Context, arg UpdateParams) (NewsArticle, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (NewsArticle, error)
	List(ctx context.Context, arg ListParams) ([]NewsArticle, error)
}

// Input is an article as written in the admin dashboard.
type Input struct {
	Title        string
	Content      string
	Excerpt      string
	ThumbnailURL string
	Category     string
	IsPublished  bool
	Author       string
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
		tracer:    otel.Tracer("news/service"),
		sanitizer: sanitizer,
	}
}

func (s *Service) Create(ctx context.Context, input Input) (NewsArticle, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	clean := s.clean(input)
	article, err := s.queries.Create(ctx, CreateParams{
		Title:        clean.Title,
		Content:      clean.Content,
		Excerpt:      toText(clean.Excerpt),
		ThumbnailUrl: toText(clean.ThumbnailURL),
		Category:     clean.Category,
		IsPublished:  clean.IsPublished,
		Author:       toText(clean.Author),
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create news article")
		span.RecordError(err)
		return NewsArticle{}, err
	}

	return article, nil
}

// Update replaces an article. The first publication stamps published_at; later
// edits keep the original date.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) (NewsArticle, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	clean := s.clean(input)
	article, err := s.queries.Update(ctx, UpdateParams{
		ID:           id,
		Title:        clean.Title,
		Content:      clean.Content,
		Excerpt:      toText(clean.Excerpt),
		ThumbnailUrl: toText(clean.ThumbnailURL),
		Category:     clean.Category,
		IsPublished:  clean.IsPublished,
		Author:       toText(clean.Author),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrNewsNotFound)
			return NewsArticle{}, internal.ErrNewsNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "news_articles", "id", id.String(), logger, "update news article")
		span.RecordError(err)
		return NewsArticle{}, err
	}

	return article, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	affected, err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "news_articles", "id", id.String(), logger, "delete news article")
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.RecordError(internal.ErrNewsNotFound)
		return internal.ErrNewsNotFound
	}

	return nil
}

// GetByID returns an article. With publishedOnly a draft is reported as
// missing.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (NewsArticle, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	article, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrNewsNotFound)
			return NewsArticle{}, internal.ErrNewsNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "news_articles", "id", id.String(), logger, "get news article by id")
		span.RecordError(err)
		return NewsArticle{}, err
	}
	if publishedOnly && !article.IsPublished {
		return NewsArticle{}, internal.ErrNewsNotFound
	}

	return article, nil
}

func (s *Service) List(ctx context.Context, publishedOnly bool, category string) ([]NewsArticle, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	articles, err := s.queries.List(ctx, ListParams{PublishedOnly: publishedOnly, Category: category})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list news articles")
		span.RecordError(err)
		return []NewsArticle{}, err
	}
	if articles == nil {
		articles = []NewsArticle{}
	}

	return articles, nil
}

func (s *Service) clean(input Input) Input {
	input.Title = s.sanitizer.Text(input.Title)
	input.Content = s.sanitizer.HTML(input.Content)
	input.Excerpt = s.sanitizer.Text(input.Excerpt)
	input.Author = s.sanitizer.Text(input.Author)
	return input
}

func toText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
