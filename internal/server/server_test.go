package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scriptRunner/internal/config"
	"scriptRunner/internal/engine"
	"scriptRunner/internal/logger"
	"scriptRunner/internal/report"
)

type fakeExecutor struct {
	lastScript string
	lastOpts   engine.Options
}

func (f *fakeExecutor) Execute(ctx context.Context, script string, opts engine.Options) *report.Report {
	f.lastScript = script
	f.lastOpts = opts
	return &report.Report{
		ID:        report.NewID(),
		Status:    report.StatusSuccess,
		Result:    float64(2),
		Timestamp: time.Now().UTC(),
	}
}

type fakeStore struct {
	reports   map[string]*report.Report
	summaries []report.Summary
}

func (f *fakeStore) Put(ctx context.Context, r *report.Report) error { return nil }

func (f *fakeStore) Get(ctx context.Context, id string) (*report.Report, error) {
	if r, ok := f.reports[id]; ok {
		return r, nil
	}
	return nil, report.ErrNotFound
}

func (f *fakeStore) List(ctx context.Context) ([]report.Summary, error) {
	return f.summaries, nil
}

func testRouter(exec Executor, store report.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Cfg{}
	srv := New(cfg, &logger.Zap{Logger: zap.NewNop()}, exec, store)
	return srv.Router()
}

func TestExecuteEndpoint(t *testing.T) {
	exec := &fakeExecutor{}
	router := testRouter(exec, &fakeStore{})

	body := `{"script": "return 1+1;", "options": {"ai_analysis": false, "context": "dom"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/execute", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var rep report.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, report.StatusSuccess, rep.Status)
	assert.Equal(t, float64(2), rep.Result)

	assert.Equal(t, "return 1+1;", exec.lastScript)
	require.NotNil(t, exec.lastOpts.AIAnalysis)
	assert.False(t, *exec.lastOpts.AIAnalysis)
	assert.Equal(t, "dom", string(exec.lastOpts.Context))
}

func TestExecuteEndpoint_MissingScript(t *testing.T) {
	router := testRouter(&fakeExecutor{}, &fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/execute", strings.NewReader(`{"options": {}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReport(t *testing.T) {
	rep := &report.Report{ID: report.NewID(), Status: report.StatusError, Timestamp: time.Now().UTC()}
	store := &fakeStore{reports: map[string]*report.Report{rep.ID: rep}}
	router := testRouter(&fakeExecutor{}, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/"+rep.ID, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got report.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, rep.ID, got.ID)
}

func TestGetReport_NotFound(t *testing.T) {
	router := testRouter(&fakeExecutor{}, &fakeStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/missing-id", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListReports(t *testing.T) {
	store := &fakeStore{summaries: []report.Summary{
		{ID: "b", Status: report.StatusSuccess, Timestamp: time.Now().UTC()},
		{ID: "a", Status: report.StatusError, Timestamp: time.Now().UTC().Add(-time.Hour)},
	}}
	router := testRouter(&fakeExecutor{}, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got []report.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
}

func TestHealth(t *testing.T) {
	router := testRouter(&fakeExecutor{}, &fakeStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
