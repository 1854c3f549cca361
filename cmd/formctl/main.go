package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/config"
	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/builder"
	"CSS-Society/site-backend/internal/form/formfile"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const usage = `Usage:
  formctl import <file.yaml>   create or update a form from a YAML file
  formctl export <form-id>     print a stored form as YAML
`

type FormStore interface {
	builder.Store
	GetByID(ctx context.Context, id uuid.UUID) (form.Document, error)
}

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprint(flag.CommandLine.Output(), usage)
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, cfgLog := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Failed to validate config: %v, exiting...", err)
	}

	zapConfig := logutil.ZapProductionConfig()
	if cfg.Debug {
		zapConfig = logutil.ZapDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	cfgLog.FlushToZap(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database pool", zap.Error(err))
	}
	defer pool.Close()

	store := form.NewService(logger, pool, form.NopCache{})

	switch flag.Arg(0) {
	case "import":
		err = runImport(ctx, logger, store, flag.Arg(1), cfg.BaseURL, os.Stdout)
	case "export":
		err = runExport(ctx, store, flag.Arg(1), os.Stdout)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("formctl failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

func runImport(ctx context.Context, logger *zap.Logger, store FormStore, path, baseURL string, out io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	definition, err := formfile.Decode(file)
	if err != nil {
		return err
	}

	id, err := definition.FormID()
	if err != nil {
		return err
	}

	var version int32
	if id != uuid.Nil {
		current, err := store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, internal.ErrFormNotFound) {
				return fmt.Errorf("form %s does not exist, remove the id to create it", id)
			}
			return err
		}
		version = current.Version
	}

	editor, err := builder.Open(logger, definition.Document(id, version))
	if err != nil {
		return err
	}

	saved, err := editor.Save(ctx, store)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "saved form %s (version %d)\n%s\n", saved.ID, saved.Version, form.ShareURL(baseURL, saved.ID))
	return err
}

func runExport(ctx context.Context, store FormStore, rawID string, out io.Writer) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid form id %q: %w", rawID, err)
	}

	doc, err := store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return formfile.Encode(out, formfile.FromDocument(doc))
}
