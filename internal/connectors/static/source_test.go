package static

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/services"
)

func catalogueHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/courses", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `
<div class="collections-products">
  <div class="product-item">
    <a class="product-title" href="/courses/python">Python for Data Science</a>
    <span class="product-price-value">Free</span>
  </div>
</div>`)
	})
	mux.HandleFunc("/courses/python", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `
<div class="product-page">
  <div class="product-description">Learn Python from scratch.</div>
  <span class="instructor-name">Kunal Jain</span>
  <div class="curriculum-item">Introduction</div>
</div>`)
	})
	return mux
}

// --- Tests ---

func TestSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(catalogueHandler(t))
	defer srv.Close()

	source, err := NewSource(Config{
		BaseURL:           srv.URL + "/collections/courses",
		RequestsPerSecond: 100, // keep the test fast
	})
	require.NoError(t, err)
	defer source.Close()

	records, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Python for Data Science", records[0].Title)
	assert.Equal(t, srv.URL+"/courses/python", records[0].URL)
	assert.Equal(t, "Free", records[0].Price)
	assert.Equal(t, "Learn Python from scratch.", records[0].Description)
	assert.Equal(t, "Kunal Jain", records[0].Instructor)
	assert.Equal(t, []string{"Introduction"}, records[0].Curriculum)
}

func TestSource_FetchDetailFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/courses", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `
<div class="collections-products">
  <div class="product-item">
    <a class="product-title" href="/courses/gone">Vanished Course</a>
  </div>
</div>`)
	})
	mux.HandleFunc("/courses/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source, err := NewSource(Config{BaseURL: srv.URL + "/collections/courses", RequestsPerSecond: 100})
	require.NoError(t, err)

	records, err := source.Fetch(context.Background())
	require.NoError(t, err, "a failing detail page must not abort the scrape")
	require.Len(t, records, 1)
	assert.Equal(t, "Vanished Course", records[0].Title)
	assert.Equal(t, "N/A", records[0].Description)
	assert.Equal(t, "N/A", records[0].Instructor)

	_, err = services.NewNormalizer().Normalize(records[0])
	assert.NoError(t, err, "degraded records must still pass record validation")
}

func TestSource_FetchCataloguePageDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	source, err := NewSource(Config{BaseURL: srv.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	_, err = source.Fetch(context.Background())
	require.Error(t, err)
}

func TestNewSource_RequiresBaseURL(t *testing.T) {
	_, err := NewSource(Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}
