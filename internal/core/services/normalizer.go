package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

// curriculumDelimiter joins curriculum entries in document text.
const curriculumDelimiter = " | "

// Normalizer converts raw course records into normalised documents.
type Normalizer struct {
	validate *validator.Validate
}

// NewNormalizer creates a new course record normaliser.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Normalize validates a course record and serialises it into a single
// text document plus compact metadata. The serialisation is
// deterministic: the same record always yields byte-identical text.
// A record missing a required field fails with domain.ErrValidation;
// callers must reject it rather than index a partial document.
func (n *Normalizer) Normalize(record domain.CourseRecord) (domain.NormalizedDocument, error) {
	if err := n.validate.Struct(record); err != nil {
		return domain.NormalizedDocument{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(record.Title)
	b.WriteString("\nDescription: ")
	b.WriteString(record.Description)
	b.WriteString("\nInstructor: ")
	b.WriteString(record.Instructor)
	b.WriteString("\nPrice: ")
	b.WriteString(record.Price)
	b.WriteString("\nCurriculum: ")
	b.WriteString(strings.Join(record.Curriculum, curriculumDelimiter))
	b.WriteString("\nURL: ")
	b.WriteString(record.URL)

	return domain.NormalizedDocument{
		Text: b.String(),
		Info: record.Info(),
	}, nil
}
