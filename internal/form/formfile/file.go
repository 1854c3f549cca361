package formfile

import (
	"fmt"
	"io"

	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/question"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// File is the YAML shape of a form kept under version control.
type File struct {
	ID          string              `yaml:"id,omitempty"`
	Title       string              `yaml:"title"`
	Description string              `yaml:"description,omitempty"`
	Questions   []question.Question `yaml:"questions"`
}

// Decode reads one form file. Unknown keys are rejected so that typos do not
// silently drop settings.
func Decode(r io.Reader) (File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var f File
	err := decoder.Decode(&f)
	if err != nil {
		return File{}, fmt.Errorf("failed to decode form file: %w", err)
	}
	return f, nil
}

func Encode(w io.Writer, f File) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	err := encoder.Encode(f)
	if err != nil {
		return fmt.Errorf("failed to encode form file: %w", err)
	}
	return encoder.Close()
}

// FormID returns the id named in the file, or uuid.Nil for a new form.
func (f File) FormID() (uuid.UUID, error) {
	if f.ID == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(f.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid form id %q: %w", f.ID, err)
	}
	return id, nil
}

// Document converts the file into a form document at the given stored version.
func (f File) Document(id uuid.UUID, version int32) form.Document {
	return form.Document{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Questions:   f.Questions,
		Version:     version,
	}
}

func FromDocument(doc form.Document) File {
	return File{
		ID:          doc.ID.String(),
		Title:       doc.Title,
		Description: doc.Description,
		Questions:   question.Normalize(doc.Questions),
	}
}
