package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewly-voice-go/internal/domain/analysis"
	"interviewly-voice-go/internal/domain/history"
	platformtesting "interviewly-voice-go/internal/platform/testing"
)

type stubRunner struct {
	lastPath string
	result   *analysis.Result
}

func (s *stubRunner) Run(ctx context.Context, path string) *analysis.Result {
	s.lastPath = path
	if s.result != nil {
		return s.result
	}
	return &analysis.Result{
		Success:         true,
		AnalysisID:      "run-1",
		Transcript:      "hello world",
		CleanTranscript: "hello world",
		ConfidenceScore: 75,
		Analysis: &analysis.Details{
			SpeechPace: analysis.PaceMetrics{WordsPerMinute: 120, Rating: analysis.PaceNormal},
		},
	}
}

func newTestEngine(t *testing.T, runner Runner, store history.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := platformtesting.SetupTestConfig(t)
	logger := platformtesting.SetupTestLogger(t)
	engine := gin.New()
	api := engine.Group("/api")
	svc := NewAnalyzeService(runner, store, cfg.Audio, logger)
	svc.Register(api)
	return engine
}

func TestAnalyze_Upload(t *testing.T) {
	runner := &stubRunner{}
	engine := newTestEngine(t, runner, nil)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "answer.wav")
	require.NoError(t, err)
	fw.Write([]byte("RIFFfake"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 75, res.ConfidenceScore)
	assert.True(t, strings.HasSuffix(runner.lastPath, ".wav"))

	// Upload copy is removed after the run.
	_, statErr := os.Stat(runner.lastPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAnalyze_UploadTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := platformtesting.SetupTestConfig(t)
	cfg.Audio.MaxUploadMB = 1
	logger := platformtesting.SetupTestLogger(t)
	runner := &stubRunner{}
	engine := gin.New()
	svc := NewAnalyzeService(runner, nil, cfg.Audio, logger)
	svc.Register(engine.Group("/api"))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "huge.wav")
	require.NoError(t, err)
	fw.Write(make([]byte, 1<<20+1))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, runner.lastPath)
}

func TestAnalyze_ByPath(t *testing.T) {
	runner := &stubRunner{}
	engine := newTestEngine(t, runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"path":"/data/interview.wav"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/data/interview.wav", runner.lastPath)
}

func TestAnalyze_FailureStatuses(t *testing.T) {
	tests := []struct {
		errMsg string
		want   int
	}{
		{"audio file not found", http.StatusNotFound},
		{"No speech detected", http.StatusUnprocessableEntity},
		{"audio decode failed", http.StatusUnprocessableEntity},
		{"transcription engine error", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.errMsg, func(t *testing.T) {
			runner := &stubRunner{result: &analysis.Result{Success: false, Error: tt.errMsg}}
			engine := newTestEngine(t, runner, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/analyze",
				strings.NewReader(`{"path":"/data/x.wav"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			var m map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
			assert.Equal(t, false, m["success"])
			assert.Equal(t, tt.errMsg, m["error"])
		})
	}
}

func TestAnalyze_BadRequest(t *testing.T) {
	engine := newTestEngine(t, &stubRunner{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_HistoryRoutes(t *testing.T) {
	ctx := context.Background()
	store := history.NewMemory(history.Config{})
	t.Cleanup(func() { _ = store.Close(ctx) })

	require.NoError(t, store.Save(ctx, history.Record{
		AnalysisID: "h-1",
		Source:     "a.wav",
		Result:     analysis.Result{Success: true, AnalysisID: "h-1", ConfidenceScore: 81},
	}))

	engine := newTestEngine(t, &stubRunner{}, store)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.True(t, list.Success)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze/h-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/analyze/h-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyze_HistoryDisabled(t *testing.T) {
	engine := newTestEngine(t, &stubRunner{}, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
