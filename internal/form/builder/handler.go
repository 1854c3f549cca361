package builder

import (
	"fmt"
	"net/http"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form"
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

// Request is a whole form document as sent by the admin editor. Version is
// the version the editor loaded and is ignored on create.
type Request struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []question.Question `json:"questions"`
	Version     int32               `json:"version" validate:"min=0"`
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
		tracer:        otel.Tracer("builder/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
		baseURL:       baseURL,
	}
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CreateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req Request
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	editor, err := h.editorFor(uuid.Nil, req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	saved, err := editor.Save(traceCtx, h.store)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, form.ToResponse(saved, h.baseURL))
}

func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req Request
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	editor, err := h.editorFor(id, req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	saved, err := editor.Save(traceCtx, h.store)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, form.ToResponse(saved, h.baseURL))
}

func (h *Handler) editorFor(id uuid.UUID, req Request) (*Editor, error) {
	editor, err := Open(h.logger, form.Document{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Version:     req.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internal.ErrInvalidRequestBody, err)
	}
	return editor, nil
}
