package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/response"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DateHeader = "Submission Date"
	EmptyCell  = "-"
	SheetName  = "Responses"
)

type State int

const (
	StateLoaded State = iota
	StateEmpty
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of loading a form for aggregation. Empty means the
// form exists and has no responses; Failed carries the load error in Err.
type Result struct {
	State     State
	Form      form.Document
	Responses []response.Record
	Err       error
}

type FormStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (form.Document, error)
}

type ResponseStore interface {
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]response.Record, error)
}

type Service struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	formStore     FormStore
	responseStore ResponseStore
}

func NewService(logger *zap.Logger, formStore FormStore, responseStore ResponseStore) *Service {
	return &Service{
		logger:        logger,
		tracer:        otel.Tracer("export/service"),
		formStore:     formStore,
		responseStore: responseStore,
	}
}

// Load fetches a form and its responses, newest first.
func (s *Service) Load(ctx context.Context, formID uuid.UUID) Result {
	ctx, span := s.tracer.Start(ctx, "Load")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	doc, err := s.formStore.GetByID(ctx, formID)
	if err != nil {
		logger.Warn("Failed to load form for export", zap.String("form_id", formID.String()), zap.Error(err))
		span.RecordError(err)
		return Result{State: StateFailed, Err: err}
	}

	records, err := s.responseStore.ListByFormID(ctx, formID)
	if err != nil {
		logger.Warn("Failed to load responses for export", zap.String("form_id", formID.String()), zap.Error(err))
		span.RecordError(err)
		return Result{State: StateFailed, Form: doc, Err: err}
	}

	if len(records) == 0 {
		return Result{State: StateEmpty, Form: doc, Responses: []response.Record{}}
	}

	return Result{State: StateLoaded, Form: doc, Responses: newestFirst(records)}
}

// AnswerDisplay renders the answer to one question for a table cell. Missing
// and blank answers show as "-".
func AnswerDisplay(questionID string, record response.Record) string {
	a := record.Answer(questionID)
	if a.IsBlank() {
		return EmptyCell
	}
	return a.String()
}

// Table lays out responses as rows: a header of the submission date and every
// question title in schema order, then one row per response.
func Table(doc form.Document, records []response.Record) [][]string {
	header := make([]string, 0, len(doc.Questions)+1)
	header = append(header, DateHeader)
	for _, q := range doc.Questions {
		header = append(header, q.Title)
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, header)
	for _, record := range newestFirst(records) {
		row := make([]string, 0, len(header))
		row = append(row, record.SubmittedAt.UTC().Format(time.RFC3339))
		for _, q := range doc.Questions {
			row = append(row, AnswerDisplay(q.ID, record))
		}
		rows = append(rows, row)
	}
	return rows
}

// CSV renders the response table with every cell quoted and rows separated by
// "\n".
func CSV(doc form.Document, records []response.Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, internal.ErrNoResponsesToExport
	}

	var b strings.Builder
	for i, row := range Table(doc, records) {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return []byte(b.String()), nil
}

// XLSX renders the response table as a single sheet workbook.
func XLSX(doc form.Document, records []response.Record) (data []byte, err error) {
	if len(records) == 0 {
		return nil, internal.ErrNoResponsesToExport
	}

	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	err = f.SetSheetName("Sheet1", SheetName)
	if err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	table := Table(doc, records)
	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		err = f.SetSheetRow(SheetName, cell, &row)
		if err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	err = f.SetRowStyle(SheetName, 1, 1, bold)
	if err != nil {
		return nil, err
	}

	lastColumn, err := excelize.ColumnNumberToName(len(table[0]))
	if err != nil {
		return nil, err
	}
	err = f.SetColWidth(SheetName, "A", lastColumn, 24)
	if err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]`)

// Filename derives the download name from a form title, e.g.
// "Spring Signup!" becomes "spring_signup__responses.csv".
func Filename(title, ext string) string {
	return unsafeFilenameChars.ReplaceAllString(strings.ToLower(title), "_") + "_responses." + ext
}

func newestFirst(records []response.Record) []response.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b response.Record) int {
		return b.SubmittedAt.Compare(a.SubmittedAt)
	})
	return sorted
}
