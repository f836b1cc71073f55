package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

func writeCourses(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// --- Tests ---

func TestSource_Fetch(t *testing.T) {
	path := writeCourses(t, `[
		{
			"title": "Python for Data Science",
			"description": "Learn Python",
			"instructor": "Kunal Jain",
			"price": "Free",
			"curriculum": ["Intro", "Pandas"],
			"url": "https://example.com/python"
		}
	]`)

	source := NewSource(path)
	defer source.Close()

	records, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Python for Data Science", records[0].Title)
	assert.Equal(t, []string{"Intro", "Pandas"}, records[0].Curriculum)
}

func TestSource_FetchMissingFile(t *testing.T) {
	source := NewSource(filepath.Join(t.TempDir(), "nope.json"))

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSource_FetchMalformedJSON(t *testing.T) {
	path := writeCourses(t, `{"not": "an array"`)
	source := NewSource(path)

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSource_FetchEmptyArray(t *testing.T) {
	path := writeCourses(t, `[]`)
	source := NewSource(path)

	records, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
