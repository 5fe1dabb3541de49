package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/brandshot/internal/config"
	imagepkg "github.com/youruser/brandshot/internal/image"
	"github.com/youruser/brandshot/internal/pipeline"
)

// Runner builds and runs one batch for a render request.
type Runner interface {
	RunResults(ctx context.Context, rc config.RenderConfig) []pipeline.Result
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, rc config.RenderConfig) []pipeline.Result

func (f RunnerFunc) RunResults(ctx context.Context, rc config.RenderConfig) []pipeline.Result {
	return f(ctx, rc)
}

type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 400
	if sizeStr := c.Query("size"); sizeStr != "" {
		v, err := strconv.Atoi(sizeStr)
		if err != nil || v < 21 || v > 2048 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be an integer between 21 and 2048"})
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

type renderRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Quality  *int   `json:"quality"`
	PerPage  *int   `json:"per_page"`
}

type renderedImage struct {
	Index  int             `json:"index"`
	URL    string          `json:"url"`
	Path   string          `json:"path,omitempty"`
	Status pipeline.Status `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// render runs one search-and-brand batch and reports every candidate.
// Partial success is still a 200. The batch outlives a client disconnect
// so in-flight candidates finish and their files stay consistent.
func (h *Handler) renderHandler(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rc := config.RenderConfig{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Quality:     config.DefaultQuality,
		ResultCount: config.DefaultResultCount,
	}
	if req.Quality != nil {
		rc.Quality = *req.Quality
	}
	if req.PerPage != nil {
		rc.ResultCount = *req.PerPage
	}
	if err := rc.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.runner.RunResults(context.WithoutCancel(c.Request.Context()), rc)
	out := make([]renderedImage, 0, len(results))
	for _, r := range results {
		img := renderedImage{Index: r.Index + 1, URL: r.URL, Path: r.Path, Status: r.Status}
		if r.Err != nil {
			img.Error = r.Err.Error()
		}
		out = append(out, img)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(pipeline.SavedPaths(results)), "images": out})
}
