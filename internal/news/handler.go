package news

import (
	"context"
	"net/http"
	"time"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Request struct {
	Title        string `json:"title" validate:"required,max=200"`
	Content      string `json:"content" validate:"required"`
	Excerpt      string `json:"excerpt" validate:"max=500"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
	Category     string `json:"category" validate:"required,category"`
	IsPublished  bool   `json:"isPublished"`
	Author       string `json:"author" validate:"max=100"`
}

type Response struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Excerpt      string     `json:"excerpt"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	Category     string     `json:"category"`
	IsPublished  bool       `json:"isPublished"`
	Author       string     `json:"author"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	PublishedAt  *time.Time `json:"publishedAt"`
}

func ToResponse(article NewsArticle) Response {
	var publishedAt *time.Time
	if article.PublishedAt.Valid {
		publishedAt = &article.PublishedAt.Time
	}

	return Response{
		ID:           article.ID.String(),
		Title:        article.Title,
		Content:      article.Content,
		Excerpt:      article.Excerpt.String,
		ThumbnailURL: article.ThumbnailUrl.String,
		Category:     article.Category,
		IsPublished:  article.IsPublished,
		Author:       article.Author.String,
		CreatedAt:    article.CreatedAt.Time,
		UpdatedAt:    article.UpdatedAt.Time,
		PublishedAt:  publishedAt,
	}
}

func (r Request) toInput() Input {
	return Input{
		Title:        r.Title,
		Content:      r.Content,
		Excerpt:      r.Excerpt,
		ThumbnailURL: r.ThumbnailURL,
		Category:     r.Category,
		IsPublished:  r.IsPublished,
		Author:       r.Author,
	}
}

type Store interface {
	Create(ctx context.Context, input Input) (NewsArticle, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (NewsArticle, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (NewsArticle, error)
	List(ctx context.Context, publishedOnly bool, category string) ([]NewsArticle, error)
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
		tracer:        otel.Tracer("news/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

// PublicListHandler lists published articles, optionally of one category.
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

	articles, err := h.store.List(traceCtx, publishedOnly, r.URL.Query().Get("category"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	responses := make([]Response, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, ToResponse(article))
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

	article, err := h.store.GetByID(traceCtx, id, publishedOnly)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(article))
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

	article, err := h.store.Create(traceCtx, req.toInput())
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, ToResponse(article))
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

	article, err := h.store.Update(traceCtx, id, req.toInput())
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(article))
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
