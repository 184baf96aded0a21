package httptransport

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interviewly-voice-go/internal/domain/analysis"
	"interviewly-voice-go/internal/domain/history"
	"interviewly-voice-go/internal/platform/config"
	"interviewly-voice-go/internal/platform/logging"
)

const tagHTTP = "HTTP"

var errUploadTooLarge = errors.New("upload exceeds configured size limit")

// Runner is the slice of the pipeline the HTTP layer needs.
type Runner interface {
	Run(ctx context.Context, path string) *analysis.Result
}

// AnalyzeService serves analysis requests and, when history is enabled,
// lookups of past results.
type AnalyzeService struct {
	pipeline Runner
	store    history.Store
	audioCfg config.AudioConfig
	logger   *logging.Logger
}

func NewAnalyzeService(pipeline Runner, store history.Store, audioCfg config.AudioConfig, logger *logging.Logger) *AnalyzeService {
	return &AnalyzeService{
		pipeline: pipeline,
		store:    store,
		audioCfg: audioCfg,
		logger:   logger,
	}
}

// Register wires the analyze routes onto the given group.
func (s *AnalyzeService) Register(group *gin.RouterGroup) {
	group.POST("/analyze", s.handleAnalyze)
	group.GET("/analyze", s.handleList)
	group.GET("/analyze/:id", s.handleGet)
	group.DELETE("/analyze/:id", s.handleDelete)
}

type analyzeByPathRequest struct {
	Path string `json:"path" binding:"required"`
}

// handleAnalyze accepts either a multipart upload under "file" or a JSON
// body naming a server-local path. The response body is always the analysis
// result document itself, not the management envelope.
func (s *AnalyzeService) handleAnalyze(c *gin.Context) {
	path, cleanup, err := s.resolveInput(c)
	if err == errUploadTooLarge {
		RespondError(c, http.StatusRequestEntityTooLarge, err.Error(), nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	defer cleanup()

	result := s.pipeline.Run(c.Request.Context(), path)
	c.JSON(statusFor(result), result)
}

func (s *AnalyzeService) resolveInput(c *gin.Context) (string, func(), error) {
	noop := func() {}

	file, err := c.FormFile("file")
	if err == nil {
		if max := s.audioCfg.MaxUploadMB; max > 0 && file.Size > max<<20 {
			return "", noop, errUploadTooLarge
		}
		dir := s.audioCfg.TempDir
		if dir == "" {
			dir = os.TempDir()
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", noop, err
		}
		dst := filepath.Join(dir, uuid.NewString()+filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, dst); err != nil {
			return "", noop, err
		}
		if s.logger != nil {
			s.logger.DebugTag(tagHTTP, "stored upload %s (%d bytes)", filepath.Base(dst), file.Size)
		}
		return dst, func() { os.Remove(dst) }, nil
	}

	var req analyzeByPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", noop, err
	}
	return req.Path, noop, nil
}

func statusFor(result *analysis.Result) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Error {
	case "audio file not found":
		return http.StatusNotFound
	case "No speech detected", "audio decode failed":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *AnalyzeService) handleList(c *gin.Context) {
	if s.store == nil {
		RespondError(c, http.StatusNotImplemented, "history is disabled", nil)
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	summaries, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"analyses": summaries}, "")
}

func (s *AnalyzeService) handleGet(c *gin.Context) {
	if s.store == nil {
		RespondError(c, http.StatusNotImplemented, "history is disabled", nil)
		return
	}
	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	RespondSuccess(c, http.StatusOK, rec, "")
}

func (s *AnalyzeService) handleDelete(c *gin.Context) {
	if s.store == nil {
		RespondError(c, http.StatusNotImplemented, "history is disabled", nil)
		return
	}
	if err := s.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	RespondSuccess(c, http.StatusOK, nil, "deleted")
}
