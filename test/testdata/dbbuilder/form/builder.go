package formbuilder

import (
	"context"
	"encoding/json"
	"testing"

	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/test/testdata"
	"CSS-Society/site-backend/test/testdata/dbbuilder"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

type Builder struct {
	t  *testing.T
	db dbbuilder.DBTX
}

func New(t *testing.T, db dbbuilder.DBTX) *Builder {
	return &Builder{t: t, db: db}
}

func (b Builder) Queries() *form.Queries {
	return form.New(b.db)
}

// Create inserts an active form with one question of every type unless the
// options say otherwise.
func (b Builder) Create(opts ...Option) form.Document {
	p := &FactoryParams{
		Title:       testdata.RandomName(),
		Description: testdata.RandomDescription(),
		Questions:   testdata.RandomQuestions(),
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(p)
	}

	questions, err := json.Marshal(p.Questions)
	require.NoError(b.t, err)

	row, err := b.Queries().Create(context.Background(), form.CreateParams{
		Title:       p.Title,
		Description: pgtype.Text{String: p.Description, Valid: p.Description != ""},
		Questions:   questions,
		IsActive:    p.IsActive,
	})
	require.NoError(b.t, err)

	doc, err := form.FromModel(row)
	require.NoError(b.t, err)

	return doc
}
