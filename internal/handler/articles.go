package handler

import (
	"log/slog"
	"net/http"

	"counselpost/internal/config"
	"counselpost/internal/domain/models"
	"counselpost/internal/httputil"
	"counselpost/internal/service/catalog"
	"counselpost/internal/service/export"
)

// ArticleHandler serves the source-article catalog.
type ArticleHandler struct {
	catalog *catalog.Service
	tones   []config.Tone
	logger  *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(cat *catalog.Service, tones []config.Tone, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		catalog: cat,
		tones:   tones,
		logger:  logger,
	}
}

type articleListResponse struct {
	Articles []models.Article `json:"articles"`
	Tones    []config.Tone    `json:"tones"`
}

// List returns the selectable articles and tone presets.
// GET /api/articles
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.catalog.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, articleListResponse{
		Articles: articles,
		Tones:    h.tones,
	})
}

type articleContentResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	HTML     string `json:"html,omitempty"`
}

// Get returns one article for preview: the raw markdown plus a rendered HTML
// body. A render failure drops the HTML field rather than failing the preview.
// GET /api/articles/{filename}
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" {
		httputil.RespondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	content, err := h.catalog.Read(r.Context(), filename)
	if err != nil {
		handleError(w, err)
		return
	}

	rendered, err := export.RenderHTML(filename, content)
	if err != nil {
		h.logger.Warn("article preview render failed", "filename", filename, "error", err)
		rendered = ""
	}

	httputil.RespondJSON(w, http.StatusOK, articleContentResponse{
		Filename: filename,
		Content:  content,
		HTML:     rendered,
	})
}
