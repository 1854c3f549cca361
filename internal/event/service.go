package event

import (
	"context"
	"errors"
	"time"

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
	Create(ctx context.Context, arg CreateParams) (Event, error)
	Update(ctx context.Context, arg UpdateParams) (Event, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Event, error)
	List(ctx context.Context, arg ListParams) ([]Event, error)
}

type Input struct {
	Title            string
	Description      string
	Content          string
	ThumbnailURL     string
	Date             time.Time
	Time             string
	Location         string
	Category         string
	MaxAttendees     *int32
	CurrentAttendees int32
	RegistrationURL  string
	IsPublished      bool
	Featured         bool
}

type ListFilter struct {
	PublishedOnly bool
	Category      string
	FeaturedOnly  bool
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
		tracer:    otel.Tracer("event/service"),
		sanitizer: sanitizer,
	}
}

func (s *Service) Create(ctx context.Context, input Input) (Event, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	clean := s.clean(input)
	created, err := s.queries.Create(ctx, CreateParams{
		Title:            clean.Title,
		Description:      toText(clean.Description),
		Content:          clean.Content,
		ThumbnailUrl:     toText(clean.ThumbnailURL),
		Date:             pgtype.Date{Time: clean.Date, Valid: true},
		Time:             clean.Time,
		Location:         clean.Location,
		Category:         clean.Category,
		MaxAttendees:     toInt4(clean.MaxAttendees),
		CurrentAttendees: clean.CurrentAttendees,
		RegistrationUrl:  toText(clean.RegistrationURL),
		IsPublished:      clean.IsPublished,
		Featured:         clean.Featured,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create event")
		span.RecordError(err)
		return Event{}, err
	}

	return created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) (Event, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	clean := s.clean(input)
	updated, err := s.queries.Update(ctx, UpdateParams{
		ID:               id,
		Title:            clean.Title,
		Description:      toText(clean.Description),
		Content:          clean.Content,
		ThumbnailUrl:     toText(clean.ThumbnailURL),
		Date:             pgtype.Date{Time: clean.Date, Valid: true},
		Time:             clean.Time,
		Location:         clean.Location,
		Category:         clean.Category,
		MaxAttendees:     toInt4(clean.MaxAttendees),
		CurrentAttendees: clean.CurrentAttendees,
		RegistrationUrl:  toText(clean.RegistrationURL),
		IsPublished:      clean.IsPublished,
		Featured:         clean.Featured,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrEventNotFound)
			return Event{}, internal.ErrEventNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "events", "id", id.String(), logger, "update event")
		span.RecordError(err)
		return Event{}, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	affected, err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "events", "id", id.String(), logger, "delete event")
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.RecordError(internal.ErrEventNotFound)
		return internal.ErrEventNotFound
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (Event, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	found, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrEventNotFound)
			return Event{}, internal.ErrEventNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "events", "id", id.String(), logger, "get event by id")
		span.RecordError(err)
		return Event{}, err
	}
	if publishedOnly && !found.IsPublished {
		return Event{}, internal.ErrEventNotFound
	}

	return found, nil
}

// List returns events in calendar order.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	events, err := s.queries.List(ctx, ListParams(filter))
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list events")
		span.RecordError(err)
		return []Event{}, err
	}
	if events == nil {
		events = []Event{}
	}

	return events, nil
}

func (s *Service) clean(input Input) Input {
	input.Title = s.sanitizer.Text(input.Title)
	input.Description = s.sanitizer.HTML(input.Description)
	input.Content = s.sanitizer.HTML(input.Content)
	input.Location = s.sanitizer.Text(input.Location)
	return input
}

func toText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func toInt4(v *int32) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *v, Valid: true}
}
