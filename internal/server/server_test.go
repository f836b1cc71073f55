package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
)

// --- Mocks ---

type mockQueryService struct {
	searchResult  domain.QueryResult
	searchErr     error
	similarResult []domain.CourseInfo
	similarErr    error
	lastQuery     string
}

func (m *mockQueryService) Search(ctx context.Context, query string) (domain.QueryResult, error) {
	m.lastQuery = query
	return m.searchResult, m.searchErr
}

func (m *mockQueryService) FindSimilar(ctx context.Context, course string, n int) ([]domain.CourseInfo, error) {
	return m.similarResult, m.similarErr
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandleSearch(t *testing.T) {
	svc := &mockQueryService{
		searchResult: domain.QueryResult{
			Answer: "Try Python for Data Science.",
			Matches: []domain.CourseInfo{
				{Title: "Python for Data Science", URL: "https://example.com/python"},
			},
		},
	}
	srv := New("", svc)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/search", `{"query":"python courses"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "python courses", svc.lastQuery)
	assert.Contains(t, rec.Body.String(), `"Search Result"`)
	assert.Contains(t, rec.Body.String(), `"Similar Courses"`)
	assert.Contains(t, rec.Body.String(), "Python for Data Science")
}

func TestHandleSearch_NotInitialized(t *testing.T) {
	srv := New("", &mockQueryService{searchErr: domain.ErrNotInitialized})

	rec := do(t, srv.Handler(), http.MethodPost, "/api/search", `{"query":"python"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleSearch_BadRequests(t *testing.T) {
	srv := New("", &mockQueryService{})

	t.Run("empty query", func(t *testing.T) {
		rec := do(t, srv.Handler(), http.MethodPost, "/api/search", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, srv.Handler(), http.MethodPost, "/api/search", `{"query":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, srv.Handler(), http.MethodGet, "/api/search", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleSimilar(t *testing.T) {
	svc := &mockQueryService{
		similarResult: []domain.CourseInfo{
			{Title: "Deep Learning", URL: "https://example.com/dl"},
		},
	}
	srv := New("", svc)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/similar", `{"course":"Machine Learning 101","count":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deep Learning")
}

func TestHandleSimilar_ValidationError(t *testing.T) {
	srv := New("", &mockQueryService{similarErr: domain.ErrValidation})

	rec := do(t, srv.Handler(), http.MethodPost, "/api/similar", `{"course":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := New("", &mockQueryService{})

	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestWatchCourses_RebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0600))

	var rebuilds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchCourses(ctx, path, func(context.Context) error {
			rebuilds.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"t"}]`), 0600))

	require.Eventually(t, func() bool {
		return rebuilds.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchCourses_CoalescesWriteBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0600))

	var rebuilds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchCourses(ctx, path, func(context.Context) error {
			rebuilds.Add(1)
			return nil
		})
	}()

	time.Sleep(200 * time.Millisecond)

	// Writes arriving faster than the debounce window keep resetting
	// the timer; the whole burst must coalesce into a single rebuild.
	for i := 0; i < 6; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`[{"title":"t"}]`), 0600))
		time.Sleep(rebuildDebounce / 3)
	}

	require.Eventually(t, func() bool {
		return rebuilds.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)

	// Let any stale debounce tick play out; the burst must have
	// produced exactly one rebuild.
	time.Sleep(rebuildDebounce + 300*time.Millisecond)
	assert.Equal(t, int32(1), rebuilds.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestWatchCourses_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0600))

	var rebuilds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchCourses(ctx, path, func(context.Context) error {
			rebuilds.Add(1)
			return nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0600))
	time.Sleep(rebuildDebounce + 300*time.Millisecond)

	assert.Zero(t, rebuilds.Load())

	cancel()
	require.NoError(t, <-done)
}
