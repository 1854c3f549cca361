package event

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"CSS-Society/site-backend/internal"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DateLayout = "2006-01-02"

type Request struct {
	Title            string `json:"title" validate:"required,max=200"`
	Description      string `json:"description"`
	Content          string `json:"content" validate:"required"`
	ThumbnailURL     string `json:"thumbnailUrl" validate:"omitempty,url"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string `json:"time" validate:"required,datetime=15:04"`
	Location         string `json:"location" validate:"required,max=200"`
	Category         string `json:"category" validate:"required,category"`
	MaxAttendees     *int32 `json:"maxAttendees" validate:"omitempty,min=1"`
	CurrentAttendees int32  `json:"currentAttendees" validate:"min=0"`
	RegistrationURL  string `json:"registrationUrl" validate:"omitempty,url"`
	IsPublished      bool   `json:"isPublished"`
	Featured         bool   `json:"featured"`
}

type Response struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Content          string     `json:"content"`
	ThumbnailURL     string     `json:"thumbnailUrl"`
	Date             string     `json:"date"`
	Time             string     `json:"time"`
	Location         string     `json:"location"`
	Category         string     `json:"category"`
	MaxAttendees     *int32     `json:"maxAttendees"`
	CurrentAttendees int32      `json:"currentAttendees"`
	RegistrationURL  string     `json:"registrationUrl"`
	IsPublished      bool       `json:"isPublished"`
	Featured         bool       `json:"featured"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	PublishedAt      *time.Time `json:"publishedAt"`
}

func ToResponse(e Event) Response {
	var maxAttendees *int32
	if e.MaxAttendees.Valid {
		maxAttendees = &e.MaxAttendees.Int32
	}
	var publishedAt *time.Time
	if e.PublishedAt.Valid {
		publishedAt = &e.PublishedAt.Time
	}

	return Response{
		ID:               e.ID.String(),
		Title:            e.Title,
		Description:      e.Description.String,
		Content:          e.Content,
		ThumbnailURL:     e.ThumbnailUrl.String,
		Date:             e.Date.Time.Format(DateLayout),
		Time:             e.Time,
		Location:         e.Location,
		Category:         e.Category,
		MaxAttendees:     maxAttendees,
		CurrentAttendees: e.CurrentAttendees,
		RegistrationURL:  e.RegistrationUrl.String,
		IsPublished:      e.IsPublished,
		Featured:         e.Featured,
		CreatedAt:        e.CreatedAt.Time,
		UpdatedAt:        e.UpdatedAt.Time,
		PublishedAt:      publishedAt,
	}
}

func (r Request) toInput() (Input, error) {
	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return Input{}, fmt.Errorf("%w: date must look like %s", internal.ErrInvalidRequestBody, DateLayout)
	}
	if r.MaxAttendees != nil && r.CurrentAttendees > *r.MaxAttendees {
		return Input{}, fmt.Errorf("%w: current attendees exceed the maximum", internal.ErrInvalidRequestBody)
	}

	return Input{
		Title:            r.Title,
		Description:      r.Description,
		Content:          r.Content,
		ThumbnailURL:     r.ThumbnailURL,
		Date:             date,
		Time:             r.Time,
		Location:         r.Location,
		Category:         r.Category,
		MaxAttendees:     r.MaxAttendees,
		CurrentAttendees: r.CurrentAttendees,
		RegistrationURL:  r.RegistrationURL,
		IsPublished:      r.IsPublished,
		Featured:         r.Featured,
	}, nil
}

type Store interface {
	Create(ctx context.Context, input Input) (Event, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (Event, error)
	List(ctx context.Context, filter ListFilter) ([]Event, error)
}

type Handler struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	validator     *validator.Validate
	problemWriter *problem.HttpWriter
	store         Store
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, problemWriter *problem.HttpWriter, store Store) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("event/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

func (h *Handler) PublicListHandler(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	featured, _ := strconv.ParseBool(r.URL.Query().Get("featured"))
	events, err := h.store.List(traceCtx, ListFilter{
		PublishedOnly: publishedOnly,
		Category:      r.URL.Query().Get("category"),
		FeaturedOnly:  featured,
	})
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	responses := make([]Response, 0, len(events))
	for _, e := range events {
		responses = append(responses, ToResponse(e))
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, responses)
}

func (h *Handler) PublicGetHandler(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, true)
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, false)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	found, err := h.store.GetByID(traceCtx, id, publishedOnly)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(found))
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

	input, err := req.toInput()
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	created, err := h.store.Create(traceCtx, input)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, ToResponse(created))
}

func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req Request
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	updated, err := h.store.Update(traceCtx, id, input)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(updated))
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("id"))
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
