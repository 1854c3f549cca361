package response

import (
	"context"
	"encoding/json"
	"errors"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form/question"

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
	Create(ctx context.Context, arg CreateParams) (FormResponse, error)
	GetByToken(ctx context.Context, arg GetByTokenParams) (FormResponse, error)
	Get(ctx context.Context, arg GetParams) (FormResponse, error)
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]FormResponse, error)
	CountByFormID(ctx context.Context, formID uuid.UUID) (int64, error)
	Delete(ctx context.Context, arg DeleteParams) (int64, error)
}

type SubmitRequest struct {
	FormID    uuid.UUID
	Answers   []question.Response
	IPAddress string
	// SubmissionToken identifies one respondent attempt. Retries with the same
	// token return the first stored record.
	SubmissionToken string
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("response/service"),
	}
}

// Submit stores one response. Without a token every call inserts a new record.
func (s Service) Submit(ctx context.Context, req SubmitRequest) (Record, error) {
	traceCtx, span := s.tracer.Start(ctx, "Submit")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	answers := req.Answers
	if answers == nil {
		answers = []question.Response{}
	}
	payload, err := json.Marshal(answers)
	if err != nil {
		span.RecordError(err)
		return Record{}, err
	}

	dbParams := map[string]interface{}{
		"form_id":      req.FormID.String(),
		"answer_count": len(answers),
		"has_token":    req.SubmissionToken != "",
	}
	tracker := logutil.StartDBOperation(traceCtx, logger, "Submit", dbParams)

	token := pgtype.Text{String: req.SubmissionToken, Valid: req.SubmissionToken != ""}
	created, err := s.queries.Create(traceCtx, CreateParams{
		FormID:          req.FormID,
		Responses:       payload,
		IpAddress:       pgtype.Text{String: req.IPAddress, Valid: req.IPAddress != ""},
		SubmissionToken: token,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) && token.Valid {
			return s.existing(traceCtx, req.FormID, token)
		}
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create form response")
		span.RecordError(err)
		return Record{}, err
	}

	tracker.SuccessWrite(created.ID.String())

	return FromModel(created)
}

func (s Service) existing(ctx context.Context, formID uuid.UUID, token pgtype.Text) (Record, error) {
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByToken(ctx, GetByTokenParams{FormID: formID, SubmissionToken: token})
	if err != nil {
		return Record{}, databaseutil.WrapDBErrorWithKeyValue(err, "form_responses", "form_id", formID.String(), logger, "get response by submission token")
	}

	logger.Info("Returned existing response for repeated submission", zap.String("form_id", formID.String()), zap.String("response_id", row.ID.String()))

	return FromModel(row)
}

// ListByFormID returns every response of a form, newest first.
func (s Service) ListByFormID(ctx context.Context, formID uuid.UUID) ([]Record, error) {
	traceCtx, span := s.tracer.Start(ctx, "ListByFormID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	rows, err := s.queries.ListByFormID(traceCtx, formID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "form_responses", "form_id", formID.String(), logger, "list responses by form id")
		span.RecordError(err)
		return []Record{}, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record, err := FromModel(row)
		if err != nil {
			span.RecordError(err)
			return []Record{}, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (s Service) Get(ctx context.Context, formID, id uuid.UUID) (Record, error) {
	traceCtx, span := s.tracer.Start(ctx, "Get")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	row, err := s.queries.Get(traceCtx, GetParams{FormID: formID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(internal.ErrResponseNotFound)
			return Record{}, internal.ErrResponseNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "form_responses", "id", id.String(), logger, "get response by id")
		span.RecordError(err)
		return Record{}, err
	}

	return FromModel(row)
}

func (s Service) CountByFormID(ctx context.Context, formID uuid.UUID) (int64, error) {
	traceCtx, span := s.tracer.Start(ctx, "CountByFormID")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	count, err := s.queries.CountByFormID(traceCtx, formID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "form_responses", "form_id", formID.String(), logger, "count responses by form id")
		span.RecordError(err)
		return 0, err
	}

	return count, nil
}

func (s Service) Delete(ctx context.Context, formID, id uuid.UUID) error {
	traceCtx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	affected, err := s.queries.Delete(traceCtx, DeleteParams{FormID: formID, ID: id})
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "form_responses", "id", id.String(), logger, "delete response")
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.RecordError(internal.ErrResponseNotFound)
		return internal.ErrResponseNotFound
	}

	return nil
}
