package export

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/response"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type Loader interface {
	Load(ctx context.Context, formID uuid.UUID) Result
}

type Handler struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	problemWriter *problem.HttpWriter
	loader        Loader
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, loader Loader) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("export/handler"),
		problemWriter: problemWriter,
		loader:        loader,
	}
}

// ExportHandler downloads every response of a form as csv (default) or xlsx.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatCSV
	}
	contentType, ok := contentTypes[format]
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %q", internal.ErrInvalidExportFormat, format), logger)
		return
	}

	formID, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	result := h.loader.Load(traceCtx, formID)
	switch result.State {
	case StateFailed:
		h.problemWriter.WriteError(traceCtx, w, result.Err, logger)
		return
	case StateEmpty:
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoResponsesToExport, logger)
		return
	}

	data, err := render(format, result.Form, result.Responses)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	logger.Info("Exported form responses", zap.String("form_id", formID.String()), zap.String("format", format), zap.Int("response_count", len(result.Responses)))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(result.Form.Title, format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(data)
	if err != nil {
		logger.Error("Failed to write export body", zap.Error(err))
	}
}

func render(format string, doc form.Document, records []response.Record) ([]byte, error) {
	if format == FormatXLSX {
		return XLSX(doc, records)
	}
	return CSV(doc, records)
}
