package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"counselpost/internal/config"
	"counselpost/internal/domain/models"
	"counselpost/internal/domain/repositories"
	"counselpost/internal/httputil"
	"counselpost/internal/service/catalog"
	"counselpost/internal/service/content"
	"counselpost/internal/service/export"
	"counselpost/internal/service/session"
)

// PostHandler drives the generate-review-export flow. All state is keyed by
// the browser session; the database copy is a best-effort mirror for
// re-entering a review later.
type PostHandler struct {
	catalog  *catalog.Service
	rewrites *content.RewriteService
	editor   *content.Editor
	sessions *session.Store
	posts    repositories.PostRepository
	tones    []config.Tone
	timeout  time.Duration
	logger   *slog.Logger
}

// NewPostHandler creates a new post handler. posts may be nil when no
// database is configured.
func NewPostHandler(
	cat *catalog.Service,
	rewrites *content.RewriteService,
	editor *content.Editor,
	sessions *session.Store,
	posts repositories.PostRepository,
	tones []config.Tone,
	timeout time.Duration,
	logger *slog.Logger,
) *PostHandler {
	return &PostHandler{
		catalog:  cat,
		rewrites: rewrites,
		editor:   editor,
		sessions: sessions,
		posts:    posts,
		tones:    tones,
		timeout:  timeout,
		logger:   logger,
	}
}

type createPostRequest struct {
	Filename            string `json:"filename"`
	Tone                string `json:"tone"`
	Keywords            string `json:"keywords"`
	FirmName            string `json:"firm_name"`
	Location            string `json:"location"`
	LawyerName          string `json:"lawyer_name"`
	City                string `json:"city"`
	State               string `json:"state"`
	DiscoveryCallLink   string `json:"discovery_call_link"`
	PlanningSessionName string `json:"planning_session_name"`
}

type postResponse struct {
	Post    *models.Post             `json:"post"`
	History []models.ChatTurn        `json:"chat_history"`
	Report  *models.ValidationReport `json:"validation_report,omitempty"`
}

// Create generates a new post from a source article.
// POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID := httputil.GetSessionID(r)

	var req createPostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Filename == "" {
		httputil.RespondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	original, err := h.catalog.Read(r.Context(), req.Filename)
	if err != nil {
		handleError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.rewrites.Rewrite(ctx, original, &models.GenerationRequest{
		Tone:                req.Tone,
		ToneDescription:     config.ToneDescription(h.tones, req.Tone),
		Keywords:            req.Keywords,
		FirmName:            req.FirmName,
		Location:            req.Location,
		LawyerName:          req.LawyerName,
		City:                req.City,
		State:               req.State,
		DiscoveryCallLink:   req.DiscoveryCallLink,
		PlanningSessionName: req.PlanningSessionName,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	now := time.Now()
	post := &models.Post{
		ID:            uuid.New().String(),
		SessionID:     sessionID,
		SourceArticle: req.Filename,
		Filename:      req.Filename,
		Content:       result.Content,
		Tone:          req.Tone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	sess := h.sessions.Session(sessionID)
	sess.SetPost(post)
	sess.ResetHistory(models.ChatTurn{
		Role:      "assistant",
		Content:   result.Content,
		IsBlog:    true,
		Timestamp: now,
	})

	h.persist(r.Context(), post)

	httputil.RespondJSON(w, http.StatusCreated, postResponse{
		Post:    post,
		History: sess.History(),
		Report:  result.Report,
	})
}

// GetCurrent returns the session's current post and review chat history.
// GET /api/posts/current
func (h *PostHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	sess, post, ok := h.currentPost(r)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "no post has been generated in this session")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, postResponse{
		Post:    post,
		History: sess.History(),
	})
}

// GetByFilename re-enters review of a previously persisted post: the stored
// copy is adopted as the session's current post with a fresh chat history.
// GET /api/posts/{filename}
func (h *PostHandler) GetByFilename(w http.ResponseWriter, r *http.Request) {
	if h.posts == nil {
		httputil.RespondError(w, http.StatusNotFound, "post persistence is not configured")
		return
	}

	filename := r.PathValue("filename")
	if filename == "" {
		httputil.RespondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	post, err := h.posts.GetByFilename(r.Context(), filename)
	if err != nil {
		handleError(w, err)
		return
	}

	sessionID := httputil.GetSessionID(r)
	post.SessionID = sessionID

	sess := h.sessions.Session(sessionID)
	sess.SetPost(post)
	sess.ResetHistory(models.ChatTurn{
		Role:      "assistant",
		Content:   post.Content,
		IsBlog:    true,
		Timestamp: time.Now(),
	})

	httputil.RespondJSON(w, http.StatusOK, postResponse{
		Post:    post,
		History: sess.History(),
	})
}

type editRequest struct {
	Instruction string `json:"instruction"`
}

// Edit applies a conversational edit instruction to the current post.
// POST /api/posts/current/edits
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	sessionID := httputil.GetSessionID(r)

	sess, post, ok := h.currentPost(r)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "no post has been generated in this session")
		return
	}

	var req editRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	edited, err := h.editor.Edit(ctx, sessionID, req.Instruction, post.Content)
	if err != nil {
		handleError(w, err)
		return
	}

	now := time.Now()
	updated, ok := sess.SetContent(edited, now)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "no post has been generated in this session")
		return
	}
	sess.AppendHistory(
		models.ChatTurn{Role: "user", Content: req.Instruction, Timestamp: now},
		models.ChatTurn{Role: "assistant", Content: edited, IsBlog: true, Timestamp: now},
	)

	h.persist(r.Context(), updated)

	httputil.RespondJSON(w, http.StatusOK, postResponse{
		Post:    updated,
		History: sess.History(),
	})
}

type updateContentRequest struct {
	Content string `json:"content"`
}

// UpdateContent replaces the current post's content with a manual edit.
// PUT /api/posts/current/content
func (h *PostHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.currentPost(r)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "no post has been generated in this session")
		return
	}

	var req updateContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	now := time.Now()
	updated, ok := sess.SetContent(req.Content, now)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "no post has been generated in this session")
		return
	}
	h.persist(r.Context(), updated)

	httputil.RespondJSON(w, http.StatusOK, postResponse{
		Post:    updated,
		History: sess.History(),
	})
}

// Export downloads the current post as markdown or rendered HTML.
// GET /api/posts/current/export?format=html|markdown
func (h *PostHandler) Export(w http.ResponseWriter, r *http.Request) {
	_, post, ok := h.currentPost(r)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "no post has been generated in this session")
		return
	}

	base := strings.TrimSuffix(post.Filename, ".md")

	switch format := r.URL.Query().Get("format"); format {
	case "", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".md"))
		w.Write([]byte(post.Content))
	case "html":
		doc, err := export.RenderHTML(base, post.Content)
		if err != nil {
			handleError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".html"))
		w.Write([]byte(doc))
	default:
		httputil.RespondError(w, http.StatusBadRequest, "format must be markdown or html")
	}
}

// currentPost loads a copy of the session's current post without creating
// session state. Mutations go through Session.SetContent, never through the
// returned copy.
func (h *PostHandler) currentPost(r *http.Request) (*session.Session, *models.Post, bool) {
	sess, ok := h.sessions.Peek(httputil.GetSessionID(r))
	if !ok {
		return nil, nil, false
	}
	post := sess.Post()
	if post == nil {
		return nil, nil, false
	}
	return sess, post, true
}

// persist mirrors the post to the database when one is configured. Failures
// are logged, not surfaced; session state remains authoritative.
func (h *PostHandler) persist(ctx context.Context, post *models.Post) {
	if h.posts == nil {
		return
	}
	if err := h.posts.Save(ctx, post); err != nil {
		h.logger.Warn("post persistence failed", "filename", post.Filename, "error", err)
	}
}
