package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"counselpost/internal/config"
	"counselpost/internal/domain"
	"counselpost/internal/domain/models"
	"counselpost/internal/domain/repositories"
	"counselpost/internal/domain/services"
	"counselpost/internal/httputil"
	"counselpost/internal/service/catalog"
	"counselpost/internal/service/content"
	"counselpost/internal/service/session"
)

const testSessionID = "sess-test"

// routingGenerator answers summary prompts with a teaser and everything else
// with a rewritten body, mirroring the two calls a generation cycle makes.
type routingGenerator struct {
	editReply string
}

func (g *routingGenerator) Name() string              { return "routing" }
func (g *routingGenerator) SupportsModel(string) bool { return true }

func (g *routingGenerator) Complete(_ context.Context, req *services.CompletionRequest) (*services.CompletionResponse, error) {
	switch {
	case strings.Contains(req.System, "summary generation expert"):
		return &services.CompletionResponse{Content: "A fresh teaser. Read more...", Model: req.Model}, nil
	case strings.Contains(req.System, "editor") && g.editReply != "":
		return &services.CompletionResponse{Content: g.editReply, Model: req.Model}, nil
	default:
		return &services.CompletionResponse{Content: "# Rewritten Title\n\nRewritten body paragraph.", Model: req.Model}, nil
	}
}

const handlerTestArticle = `The hook paragraph.

The summary paragraph. Read more...

# Original Title

Original body paragraph.

*###### The disclaimer.*`

// memoryPostRepo is an in-memory PostRepository for handler tests.
type memoryPostRepo struct {
	mu    sync.Mutex
	posts map[string]models.Post
}

func newMemoryPostRepo() *memoryPostRepo {
	return &memoryPostRepo{posts: make(map[string]models.Post)}
}

func (r *memoryPostRepo) Save(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.Filename] = *post
	return nil
}

func (r *memoryPostRepo) GetByFilename(_ context.Context, filename string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[filename]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", filename, domain.ErrNotFound)
	}
	return &post, nil
}

func newTestPostHandler(t *testing.T, gen services.TextGenerator) (*PostHandler, *session.Store) {
	t.Helper()
	h, sessions, _ := newTestPostHandlerWithRepo(t, gen, nil)
	return h, sessions
}

func newTestPostHandlerWithRepo(t *testing.T, gen services.TextGenerator, posts repositories.PostRepository) (*PostHandler, *session.Store, *catalog.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "wills.md"), []byte(handlerTestArticle), 0o644); err != nil {
		t.Fatal(err)
	}

	cat := catalog.NewService(nil, dir, logger)
	summaries := content.NewSummaryGenerator(gen, "fake-model", logger)
	assembler := content.NewAssembler("", logger)
	rewrites := content.NewRewriteService(gen, "fake-model", summaries, assembler, nil, logger)
	sessions := session.New(16, time.Minute)
	editor := content.NewEditor(gen, "fake-model", sessions, logger)

	tones, err := config.LoadTones("")
	if err != nil {
		t.Fatal(err)
	}

	h := NewPostHandler(cat, rewrites, editor, sessions, posts, tones, 5*time.Second, logger)
	return h, sessions, cat
}

func doJSON(t *testing.T, fn http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req = httputil.WithSessionID(req, testSessionID)
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decodePostResponse(t *testing.T, rec *httptest.ResponseRecorder) postResponse {
	t.Helper()
	var resp postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return resp
}

func TestCreatePost(t *testing.T) {
	h, _ := newTestPostHandler(t, &routingGenerator{})

	rec := doJSON(t, h.Create, http.MethodPost, "/api/posts", createPostRequest{
		Filename: "wills.md",
		Tone:     "Professional",
		FirmName: "Acme Law",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodePostResponse(t, rec)
	if resp.Post == nil || resp.Post.SourceArticle != "wills.md" {
		t.Fatalf("post = %+v", resp.Post)
	}
	if !strings.HasPrefix(resp.Post.Content, "The hook paragraph.") {
		t.Errorf("content must open with the hook:\n%s", resp.Post.Content)
	}
	if !strings.HasSuffix(resp.Post.Content, "*###### The disclaimer.*") {
		t.Errorf("content must end with the disclaimer:\n%s", resp.Post.Content)
	}
	if len(resp.History) != 1 || !resp.History[0].IsBlog {
		t.Errorf("history must start with the blog turn, got %+v", resp.History)
	}
}

func TestCreatePostUnknownArticle(t *testing.T) {
	h, _ := newTestPostHandler(t, &routingGenerator{})

	rec := doJSON(t, h.Create, http.MethodPost, "/api/posts", createPostRequest{Filename: "missing.md"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestGetCurrentWithoutPost(t *testing.T) {
	h, _ := newTestPostHandler(t, &routingGenerator{})

	rec := doJSON(t, h.GetCurrent, http.MethodGet, "/api/posts/current", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestEditFlow(t *testing.T) {
	gen := &routingGenerator{editReply: "The hook paragraph.\n\nThe summary paragraph. Read more...\n\n# Edited Title\n\nEdited body paragraph.\n\n*###### The disclaimer.*"}
	h, _ := newTestPostHandler(t, gen)

	if rec := doJSON(t, h.Create, http.MethodPost, "/api/posts", createPostRequest{Filename: "wills.md"}); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec := doJSON(t, h.Edit, http.MethodPost, "/api/posts/current/edits", editRequest{Instruction: "change the title"})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodePostResponse(t, rec)
	if !strings.Contains(resp.Post.Content, "Edited body paragraph.") {
		t.Errorf("edited content not applied:\n%s", resp.Post.Content)
	}
	if !strings.HasSuffix(resp.Post.Content, "*###### The disclaimer.*") {
		t.Errorf("disclaimer must close the edited document:\n%s", resp.Post.Content)
	}
	// Creation turn, user instruction, assistant result.
	if len(resp.History) != 3 {
		t.Errorf("history length = %d", len(resp.History))
	}
}

func TestEditWithoutPost(t *testing.T) {
	h, _ := newTestPostHandler(t, &routingGenerator{})

	rec := doJSON(t, h.Edit, http.MethodPost, "/api/posts/current/edits", editRequest{Instruction: "anything"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUpdateContent(t *testing.T) {
	h, sessions := newTestPostHandler(t, &routingGenerator{})

	if rec := doJSON(t, h.Create, http.MethodPost, "/api/posts", createPostRequest{Filename: "wills.md"}); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec := doJSON(t, h.UpdateContent, http.MethodPut, "/api/posts/current/content", updateContentRequest{Content: "manually edited"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	sess, _ := sessions.Peek(testSessionID)
	if got := sess.Post().Content; got != "manually edited" {
		t.Errorf("session content = %q", got)
	}

	rec = doJSON(t, h.UpdateContent, http.MethodPut, "/api/posts/current/content", updateContentRequest{Content: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank content status = %d", rec.Code)
	}
}

func TestConcurrentEditsAndReads(t *testing.T) {
	gen := &routingGenerator{editReply: "The hook paragraph.\n\n# Edited Title\n\nEdited body paragraph.\n\n*###### The disclaimer.*"}
	h, _ := newTestPostHandler(t, gen)

	if rec := doJSON(t, h.Create, http.MethodPost, "/api/posts", createPostRequest{Filename: "wills.md"}); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	// Edits, manual replacements and reads from other tabs of the same
	// session may interleave freely; every response marshals a stable copy.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/posts/current/edits", strings.NewReader(`{"instruction":"tighten the wording"}`))
			req = httputil.WithSessionID(req, testSessionID)
			rec := httptest.NewRecorder()
			h.Edit(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("edit status = %d", rec.Code)
			}
		}()
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPut, "/api/posts/current/content", strings.NewReader(`{"content":"manual replacement"}`))
			req = httputil.WithSessionID(req, testSessionID)
			rec := httptest.NewRecorder()
			h.UpdateContent(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("update status = %d", rec.Code)
			}
		}()
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/posts/current", nil)
			req = httputil.WithSessionID(req, testSessionID)
			rec := httptest.NewRecorder()
			h.GetCurrent(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("get status = %d", rec.Code)
			}
		}()
	}
	wg.Wait()
}

func TestExportFormats(t *testing.T) {
	h, _ := newTestPostHandler(t, &routingGenerator{})

	if rec := doJSON(t, h.Create, http.MethodPost, "/api/posts", createPostRequest{Filename: "wills.md"}); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec := doJSON(t, h.Export, http.MethodGet, "/api/posts/current/export?format=markdown", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("markdown status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/markdown") {
		t.Errorf("markdown content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "wills.md") {
		t.Errorf("markdown disposition = %q", cd)
	}

	rec = doJSON(t, h.Export, http.MethodGet, "/api/posts/current/export?format=html", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("html status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Errorf("html export missing document shell")
	}

	rec = doJSON(t, h.Export, http.MethodGet, "/api/posts/current/export?format=pdf", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d", rec.Code)
	}
}

func TestReenterPersistedPost(t *testing.T) {
	repo := newMemoryPostRepo()
	h, _, _ := newTestPostHandlerWithRepo(t, &routingGenerator{}, repo)

	// Generate in one session; Create mirrors the post to the repository.
	if rec := doJSON(t, h.Create, http.MethodPost, "/api/posts", createPostRequest{Filename: "wills.md"}); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	// Re-enter from a different browser session by filename.
	req := httptest.NewRequest(http.MethodGet, "/api/posts/wills.md", nil)
	req.SetPathValue("filename", "wills.md")
	req = httputil.WithSessionID(req, "sess-other")
	rec := httptest.NewRecorder()
	h.GetByFilename(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodePostResponse(t, rec)
	if resp.Post.SessionID != "sess-other" {
		t.Errorf("post must be adopted by the re-entering session, got %q", resp.Post.SessionID)
	}
	if !strings.HasPrefix(resp.Post.Content, "The hook paragraph.") {
		t.Errorf("stored content not returned:\n%s", resp.Post.Content)
	}
	if len(resp.History) != 1 || !resp.History[0].IsBlog {
		t.Errorf("re-entry must seed a fresh history, got %+v", resp.History)
	}

	// The adopting session can continue the review flow.
	getReq := httptest.NewRequest(http.MethodGet, "/api/posts/current", nil)
	getReq = httputil.WithSessionID(getReq, "sess-other")
	getRec := httptest.NewRecorder()
	h.GetCurrent(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Errorf("current status after re-entry = %d", getRec.Code)
	}
}

func TestReenterUnknownPost(t *testing.T) {
	h, _, _ := newTestPostHandlerWithRepo(t, &routingGenerator{}, newMemoryPostRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/posts/missing.md", nil)
	req.SetPathValue("filename", "missing.md")
	req = httputil.WithSessionID(req, testSessionID)
	rec := httptest.NewRecorder()
	h.GetByFilename(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestReenterWithoutPersistence(t *testing.T) {
	h, _ := newTestPostHandler(t, &routingGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/posts/wills.md", nil)
	req.SetPathValue("filename", "wills.md")
	req = httputil.WithSessionID(req, testSessionID)
	rec := httptest.NewRecorder()
	h.GetByFilename(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
