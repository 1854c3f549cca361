package response

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/question"
	"CSS-Society/site-backend/internal/form/viewer"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type AnswerRequest struct {
	QuestionID string          `json:"question_id" validate:"required"`
	Answer     json.RawMessage `json:"answer"`
}

type SubmitRequestBody struct {
	Responses       []AnswerRequest `json:"responses" validate:"dive"`
	SubmissionToken string          `json:"submissionToken" validate:"omitempty,max=128"`
}

type Response struct {
	ID          string              `json:"id"`
	FormID      string              `json:"formId"`
	Responses   []question.Response `json:"responses"`
	SubmittedAt time.Time           `json:"submittedAt"`
	IPAddress   string              `json:"ipAddress,omitempty"`
}

type ListResponse struct {
	FormID    string     `json:"formId"`
	Total     int        `json:"total"`
	Responses []Response `json:"responses"`
}

type SubmitResponse struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func ToResponse(record Record) Response {
	return Response{
		ID:          record.ID.String(),
		FormID:      record.FormID.String(),
		Responses:   record.Responses,
		SubmittedAt: record.SubmittedAt,
		IPAddress:   record.IPAddress,
	}
}

type Store interface {
	Submit(ctx context.Context, req SubmitRequest) (Record, error)
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]Record, error)
	Get(ctx context.Context, formID, id uuid.UUID) (Record, error)
	Delete(ctx context.Context, formID, id uuid.UUID) error
}

type FormStore interface {
	GetActive(ctx context.Context, id uuid.UUID) (form.Document, error)
}

type Handler struct {
	logger        *zap.Logger
	validator     *validator.Validate
	problemWriter *problem.HttpWriter
	store         Store
	formStore     FormStore
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, problemWriter *problem.HttpWriter, store Store, formStore FormStore) *Handler {
	return &Handler{
		logger:        logger,
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
		formStore:     formStore,
		tracer:        otel.Tracer("response/handler"),
	}
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	records, err := h.store.ListByFormID(traceCtx, formID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	responses := make([]Response, 0, len(records))
	for _, record := range records {
		responses = append(responses, ToResponse(record))
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ListResponse{
		FormID:    formID.String(),
		Total:     len(responses),
		Responses: responses,
	})
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	id, err := handlerutil.ParseUUID(r.PathValue("responseId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	record, err := h.store.Get(traceCtx, formID, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(record))
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	id, err := handlerutil.ParseUUID(r.PathValue("responseId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	err = h.store.Delete(traceCtx, formID, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

// SubmitHandler accepts a public submission. The answers are replayed through a
// viewer session so the server applies the same progression rules as the
// respondent page before anything is stored.
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SubmitHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req SubmitRequestBody
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	activeForm, err := h.formStore.GetActive(traceCtx, formID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	answers := make(map[string]json.RawMessage, len(req.Responses))
	for _, answer := range req.Responses {
		answers[answer.QuestionID] = answer.Answer
	}

	var stored Record
	err = viewer.Replay(traceCtx, formID, activeForm.Questions, answers, func(ctx context.Context, responses []question.Response) error {
		var err error
		stored, err = h.store.Submit(ctx, SubmitRequest{
			FormID:          formID,
			Answers:         responses,
			IPAddress:       ClientIP(r),
			SubmissionToken: req.SubmissionToken,
		})
		return err
	})
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	logger.Info("Form response submitted", zap.String("form_id", formID.String()), zap.String("response_id", stored.ID.String()))

	handlerutil.WriteJSONResponse(w, http.StatusCreated, SubmitResponse{
		ID:          stored.ID.String(),
		SubmittedAt: stored.SubmittedAt,
	})
}

// ClientIP returns the first X-Forwarded-For hop, falling back to the peer
// address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
