package health

import (
	"context"
	"net/http"
	"time"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const KeepAliveMessage = "Database connection maintained"

const touchForms = `SELECT count(*) FROM (SELECT id FROM forms LIMIT 1) AS recent`

type Checker interface {
	Check(ctx context.Context) (int, error)
}

// PoolChecker touches the forms table so that an idle hosted database is not paused.
type PoolChecker struct {
	pool *pgxpool.Pool
}

func NewPoolChecker(pool *pgxpool.Pool) *PoolChecker {
	return &PoolChecker{pool: pool}
}

func (p *PoolChecker) Check(ctx context.Context) (int, error) {
	var found int
	err := p.pool.QueryRow(ctx, touchForms).Scan(&found)
	return found, err
}

type KeepAliveResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	Timestamp    string `json:"timestamp"`
	RecordsFound *int   `json:"recordsFound,omitempty"`
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer
	checker Checker
	now    func() time.Time
}

func NewHandler(logger *zap.Logger, checker Checker) *Handler {
	return &Handler{
		logger: logger,
		tracer: otel.Tracer("health/handler"),
		checker: checker,
		now:    time.Now,
	}
}

func (h *Handler) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte("OK"))
	if err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *Handler) KeepAliveHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "KeepAliveHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	timestamp := h.now().UTC().Format(time.RFC3339Nano)

	found, err := h.checker.Check(traceCtx)
	if err != nil {
		span.RecordError(err)
		logger.Error("Keep-alive check failed", zap.Error(err))
		handlerutil.WriteJSONResponse(w, http.StatusInternalServerError, KeepAliveResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: timestamp,
		})
		return
	}

	logger.Debug("Keep-alive check succeeded", zap.Int("records_found", found))
	handlerutil.WriteJSONResponse(w, http.StatusOK, KeepAliveResponse{
		Success:      true,
		Message:      KeepAliveMessage,
		Timestamp:    timestamp,
		RecordsFound: &found,
	})
}
