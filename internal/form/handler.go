package form

import (
	"context"
	"net/http"
	"strings"
	"time"

	"CSS-Society/site-backend/internal/form/question"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type Response struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Questions     []question.Question `json:"questions"`
	IsActive      bool                `json:"isActive"`
	Version       int32               `json:"version"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	ShareURL      string              `json:"shareUrl"`
	ResponseCount *int64              `json:"responseCount,omitempty"`
}

// PublicResponse is what respondents see; editing metadata is left out.
type PublicResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []question.Question `json:"questions"`
}

// ShareURL is the respondent-facing page of a form.
func ShareURL(baseURL string, id uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + "/forms/" + id.String()
}

func ToResponse(doc Document, baseURL string) Response {
	questions := doc.Questions
	if questions == nil {
		questions = []question.Question{}
	}

	return Response{
		ID:          doc.ID.String(),
		Title:       doc.Title,
		Description: doc.Description,
		Questions:   questions,
		IsActive:    doc.IsActive,
		Version:     doc.Version,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		ShareURL:    ShareURL(baseURL, doc.ID),
	}
}

func ToPublicResponse(doc Document) PublicResponse {
	questions := doc.Questions
	if questions == nil {
		questions = []question.Question{}
	}

	return PublicResponse{
		ID:          doc.ID.String(),
		Title:       doc.Title,
		Description: doc.Description,
		Questions:   questions,
	}
}

type Store interface {
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	GetActive(ctx context.Context, id uuid.UUID) (Document, error)
	List(ctx context.Context) ([]Summary, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (Document, error)
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	store   Store
	baseURL string
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	store Store,
	baseURL string,
) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("form/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
		baseURL:       baseURL,
	}
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	forms, err := h.store.List(traceCtx)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	responses := make([]Response, 0, len(forms))
	for _, summary := range forms {
		response := ToResponse(summary.Document, h.baseURL)
		count := summary.ResponseCount
		response.ResponseCount = &count
		responses = append(responses, response)
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, responses)
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	currentForm, err := h.store.GetByID(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(currentForm, h.baseURL))
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	err = h.store.Delete(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

func (h *Handler) SetActiveHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SetActiveHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req ActiveRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	updatedForm, err := h.store.SetActive(traceCtx, id, *req.IsActive)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	logger.Info("Changed form visibility", zap.String("form_id", id.String()), zap.Bool("is_active", updatedForm.IsActive))

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(updatedForm, h.baseURL))
}

// PublicGetHandler serves the respondent view. Unpublished forms answer 404
// exactly like missing ones.
func (h *Handler) PublicGetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "PublicGetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	activeForm, err := h.store.GetActive(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToPublicResponse(activeForm))
}
