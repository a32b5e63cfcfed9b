package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zinc-sig/pyramid/internal/fixtures"
	"github.com/zinc-sig/pyramid/internal/grading"
	"github.com/zinc-sig/pyramid/internal/output"
	"github.com/zinc-sig/pyramid/internal/shape"
	"github.com/zinc-sig/pyramid/internal/store"
)

const loopSource = "int main(void) { for (;;) {} }"

// pyramidExecutor prints the pyramid for the last stdin token.
var pyramidExecutor = grading.ExecutorFunc(func(ctx context.Context, source, stdin string) (grading.ExecutionResult, error) {
	tokens := strings.Fields(stdin)
	n := 0
	if len(tokens) > 0 {
		for _, c := range tokens[len(tokens)-1] {
			n = n*10 + int(c-'0')
		}
	}
	return grading.ExecutionResult{Succeeded: true, Stdout: strings.Join(shape.Pyramid(n), "\n") + "\n"}, nil
})

func newTestServer(t *testing.T, withStore bool) (http.Handler, *store.Store) {
	t.Helper()
	grader := grading.NewGrader(pyramidExecutor, fixtures.Default())

	opts := Options{Grader: grader, Logger: zaptest.NewLogger(t)}
	var st *store.Store
	if withStore {
		var err error
		st, err = store.Open(context.Background(), store.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "r.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		opts.Reports = st
	}
	return New(opts), st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, false)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGradeAndFetch(t *testing.T) {
	h, _ := newTestServer(t, true)

	body, _ := json.Marshal(gradeRequest{Source: loopSource})
	rec := do(t, h, http.MethodPost, "/grade", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report, err := output.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, grading.StatusGraded, report.Status)
	assert.Equal(t, 100, report.Score)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, loopSource, report.Source)

	rec = do(t, h, http.MethodGet, "/reports/"+report.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched, err := output.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, report.ID, fetched.ID)

	rec = do(t, h, http.MethodGet, "/reports?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, report.ID, list[0].ID)
}

func TestGradeBadRequests(t *testing.T) {
	h, _ := newTestServer(t, false)

	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{name: "invalid json", body: "{", code: http.StatusBadRequest, want: "invalid request body"},
		{name: "empty source", body: `{"source": "  "}`, code: http.StatusUnprocessableEntity, want: `"status":"error"`},
		{name: "too large", body: `{"source": "` + strings.Repeat("x", DefaultMaxSourceBytes) + `"}`, code: http.StatusRequestEntityTooLarge, want: "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/grade", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestReportsWithoutStore(t *testing.T) {
	h, _ := newTestServer(t, false)

	for _, path := range []string{"/reports", "/reports/abc"} {
		rec := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestReportNotFound(t *testing.T) {
	h, _ := newTestServer(t, true)
	rec := do(t, h, http.MethodGet, "/reports/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"report not found"}`, rec.Body.String())
}

func TestListReportsBadLimit(t *testing.T) {
	h, _ := newTestServer(t, true)
	rec := do(t, h, http.MethodGet, "/reports?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type failingReports struct{}

func (failingReports) Save(context.Context, *output.Report) error { return errors.New("disk full") }
func (failingReports) Get(context.Context, string) (*output.Report, error) {
	return nil, errors.New("disk full")
}
func (failingReports) List(context.Context, int) ([]store.Summary, error) {
	return nil, errors.New("disk full")
}

func TestStorageFailures(t *testing.T) {
	h := New(Options{
		Grader:  grading.NewGrader(pyramidExecutor, fixtures.Default()),
		Reports: failingReports{},
		Logger:  zaptest.NewLogger(t),
	})

	rec := do(t, h, http.MethodPost, "/grade", `{"source": "int main(void) { while (1) {} }"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/reports", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, h, http.MethodGet, "/reports/x", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	h := New(Options{
		Grader:         grading.NewGrader(pyramidExecutor, fixtures.Default()),
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/grade", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
