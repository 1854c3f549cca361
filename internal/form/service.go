package form

import (
	"context"
	"errors"

	"CSS-Society/site-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Form, error)
	Update(ctx context.Context, arg UpdateParams) (Form, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Form, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (Form, error)
	List(ctx context.Context) ([]ListRow, error)
	SetActive(ctx context.Context, arg SetActiveParams) (Form, error)
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
	cache   Cache
}

func NewService(logger *zap.Logger, db DBTX, cache Cache) *Service {
	if cache == nil {
		cache = NopCache{}
	}

	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("form/service"),
		cache:   cache,
	}
}

func (s *Service) Create(ctx context.Context, doc Document) (Document, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	questions, err := encodeQuestions(doc.Questions)
	if err != nil {
		span.RecordError(err)
		return Document{}, err
	}

	dbParams := map[string]interface{}{
		"title":          doc.Title,
		"question_count": len(doc.Questions),
		"is_active":      doc.IsActive,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Create", dbParams)

	newForm, err := s.queries.Create(ctx, CreateParams{
		Title:       doc.Title,
		Description: toText(doc.Description),
		Questions:   questions,
		IsActive:    doc.IsActive,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create form")
		span.RecordError(err)
		return Document{}, err
	}

	tracker.SuccessWrite(newForm.ID.String())

	return FromModel(newForm)
}

// Update replaces the whole form document. The write only happens when the
// stored version still equals doc.Version; otherwise another editor saved in
// between and ErrFormVersionConflict is returned.
func (s *Service) Update(ctx context.Context, doc Document) (Document, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	questions, err := encodeQuestions(doc.Questions)
	if err != nil {
		span.RecordError(err)
		return Document{}, err
	}

	dbParams := map[string]interface{}{
		"id":             doc.ID.String(),
		"title":          doc.Title,
		"question_count": len(doc.Questions),
		"version":        doc.Version,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Update", dbParams)

	updatedForm, err := s.queries.Update(ctx, UpdateParams{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: toText(doc.Description),
		Questions:   questions,
		IsActive:    doc.IsActive,
		Version:     doc.Version,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = s.conflictOrNotFound(ctx, doc.ID)
			span.RecordError(err)
			return Document{}, err
		}
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "update form")
		span.RecordError(err)
		return Document{}, err
	}

	tracker.SuccessWrite(doc.ID.String())
	s.cache.Invalidate(ctx, doc.ID)

	return FromModel(updatedForm)
}

func (s *Service) conflictOrNotFound(ctx context.Context, id uuid.UUID) error {
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.Exists(ctx, id)
	if err != nil {
		return databaseutil.WrapDBErrorWithKeyValue(err, "forms", "id", id.String(), logger, "check form existence")
	}
	if !exists {
		return internal.ErrFormNotFound
	}

	logger.Warn("Rejected form update with stale version", zap.String("form_id", id.String()))
	return internal.ErrFormVersionConflict
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	dbParams := map[string]interface{}{
		"id": id.String(),
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Delete", dbParams)

	affected, err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "delete form")
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.RecordError(internal.ErrFormNotFound)
		return internal.ErrFormNotFound
	}

	tracker.SuccessWrite(id.String())
	s.cache.Invalidate(ctx, id)

	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	dbParams := map[string]interface{}{
		"id": id.String(),
	}
	tracker := logutil.StartDBOperation(ctx, logger, "GetByID", dbParams)

	currentForm, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrFormNotFound)
			return Document{}, internal.ErrFormNotFound
		}
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "get form by id")
		span.RecordError(err)
		return Document{}, err
	}

	tracker.SuccessRead(1, id.String())

	return FromModel(currentForm)
}

// GetActive returns a form only when it is published. Missing and inactive
// forms are both reported as ErrFormNotFound.
func (s *Service) GetActive(ctx context.Context, id uuid.UUID) (Document, error) {
	ctx, span := s.tracer.Start(ctx, "GetActive")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	cached, ticket, ok := s.cache.Get(ctx, id)
	if ok {
		return cached, nil
	}

	dbParams := map[string]interface{}{
		"id": id.String(),
	}
	tracker := logutil.StartDBOperation(ctx, logger, "GetActiveByID", dbParams)

	activeForm, err := s.queries.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrFormNotFound)
			return Document{}, internal.ErrFormNotFound
		}
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "get active form by id")
		span.RecordError(err)
		return Document{}, err
	}

	tracker.SuccessRead(1, id.String())

	doc, err := FromModel(activeForm)
	if err != nil {
		span.RecordError(err)
		return Document{}, err
	}

	s.cache.Set(ctx, doc, ticket)

	return doc, nil
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "List", nil)

	rows, err := s.queries.List(ctx)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list forms")
		span.RecordError(err)
		return []Summary{}, err
	}

	tracker.SuccessRead(len(rows), "")

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summary, err := fromListRow(row)
		if err != nil {
			span.RecordError(err)
			return []Summary{}, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (Document, error) {
	ctx, span := s.tracer.Start(ctx, "SetActive")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	dbParams := map[string]interface{}{
		"id":        id.String(),
		"is_active": active,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "SetActive", dbParams)

	updatedForm, err := s.queries.SetActive(ctx, SetActiveParams{
		ID:       id,
		IsActive: active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrFormNotFound)
			return Document{}, internal.ErrFormNotFound
		}
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "set form active flag")
		span.RecordError(err)
		return Document{}, err
	}

	tracker.SuccessWrite(id.String())
	s.cache.Invalidate(ctx, id)

	return FromModel(updatedForm)
}
