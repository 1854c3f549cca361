package feature

import (
	"context"
	"net/http"
	"strconv"
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
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=500"`
	Content      string   `json:"content" validate:"required"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"omitempty,url"`
	DemoURL      string   `json:"demoUrl" validate:"omitempty,url"`
	GithubURL    string   `json:"githubUrl" validate:"omitempty,url"`
	Category     string   `json:"category" validate:"required,category"`
	Author       string   `json:"author" validate:"max=100"`
	Technologies []string `json:"technologies" validate:"max=20,dive,max=50"`
	IsPublished  bool     `json:"isPublished"`
	Featured     bool     `json:"featured"`
}

type Response struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Content      string     `json:"content"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	DemoURL      string     `json:"demoUrl"`
	GithubURL    string     `json:"githubUrl"`
	Category     string     `json:"category"`
	Author       string     `json:"author"`
	Technologies []string   `json:"technologies"`
	IsPublished  bool       `json:"isPublished"`
	Featured     bool       `json:"featured"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	PublishedAt  *time.Time `json:"publishedAt"`
}

func ToResponse(feature Feature) Response {
	var publishedAt *time.Time
	if feature.PublishedAt.Valid {
		publishedAt = &feature.PublishedAt.Time
	}

	technologies := feature.Technologies
	if technologies == nil {
		technologies = []string{}
	}

	return Response{
		ID:           feature.ID.String(),
		Title:        feature.Title,
		Description:  feature.Description.String,
		Content:      feature.Content,
		ThumbnailURL: feature.ThumbnailUrl.String,
		DemoURL:      feature.DemoUrl.String,
		GithubURL:    feature.GithubUrl.String,
		Category:     feature.Category,
		Author:       feature.Author.String,
		Technologies: technologies,
		IsPublished:  feature.IsPublished,
		Featured:     feature.Featured,
		CreatedAt:    feature.CreatedAt.Time,
		UpdatedAt:    feature.UpdatedAt.Time,
		PublishedAt:  publishedAt,
	}
}

func (r Request) toInput() Input {
	return Input{
		Title:        r.Title,
		Description:  r.Description,
		Content:      r.Content,
		ThumbnailURL: r.ThumbnailURL,
		DemoURL:      r.DemoURL,
		GithubURL:    r.GithubURL,
		Category:     r.Category,
		Author:       r.Author,
		Technologies: r.Technologies,
		IsPublished:  r.IsPublished,
		Featured:     r.Featured,
	}
}

type Store interface {
	Create(ctx context.Context, input Input) (Feature, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (Feature, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (Feature, error)
	List(ctx context.Context, filter ListFilter) ([]Feature, error)
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
		tracer:        otel.Tracer("feature/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

// PublicListHandler lists published showcases. ?featured=true keeps only
// the highlighted ones.
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
	features, err := h.store.List(traceCtx, ListFilter{
		PublishedOnly: publishedOnly,
		Category:      r.URL.Query().Get("category"),
		FeaturedOnly:  featured,
	})
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	responses := make([]Response, 0, len(features))
	for _, f := range features {
		responses = append(responses, ToResponse(f))
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

	feature, err := h.store.GetByID(traceCtx, id, publishedOnly)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(feature))
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

	feature, err := h.store.Create(traceCtx, req.toInput())
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, ToResponse(feature))
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

	feature, err := h.store.Update(traceCtx, id, req.toInput())
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(feature))
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

	if err := h.store.Delete(traceCtx, id); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}
