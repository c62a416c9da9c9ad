package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"counselpost/internal/domain"
	"counselpost/internal/domain/models"
	"counselpost/internal/domain/services"
)

// fakeGenerator is a scriptable TextGenerator shared by the tests in this
// package.
type fakeGenerator struct {
	reply    string
	replyFn  func(req *services.CompletionRequest) string
	err      error
	requests []*services.CompletionRequest
}

func (f *fakeGenerator) Name() string             { return "fake" }
func (f *fakeGenerator) SupportsModel(string) bool { return true }

func (f *fakeGenerator) Complete(_ context.Context, req *services.CompletionRequest) (*services.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	reply := f.reply
	if f.replyFn != nil {
		reply = f.replyFn(req)
	}
	return &services.CompletionResponse{Content: reply, Model: req.Model}, nil
}

type fixedSummarizer struct {
	summary string
}

func (s fixedSummarizer) Summarize(_ context.Context, _, _ string) string {
	return s.summary
}

type failingAssembler struct{}

func (failingAssembler) Assemble(AssembleParams) (string, error) {
	return "", errors.New("template exploded")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testArticle = `Who would raise your children if something happened to you?

Most parents never name a guardian. Read more...

# Naming a Guardian

Courts decide when parents do not, and the process is slow and public.

*###### This article is a service of [Firm Name].*`

func newTestRewriteService(gen *fakeGenerator, assembler DocumentAssembler) *RewriteService {
	if assembler == nil {
		assembler = NewAssembler("", testLogger())
	}
	return NewRewriteService(
		gen,
		"fake-model",
		fixedSummarizer{summary: "A fresh teaser. Read more..."},
		assembler,
		nil,
		testLogger(),
	)
}

func TestRewriteGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	svc := newTestRewriteService(gen, nil)

	_, err := svc.Rewrite(context.Background(), testArticle, &models.GenerationRequest{})
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestRewriteNilRequest(t *testing.T) {
	svc := newTestRewriteService(&fakeGenerator{reply: "# Title\n\nBody."}, nil)

	_, err := svc.Rewrite(context.Background(), testArticle, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRewriteFailsOpenOnAssemblyError(t *testing.T) {
	gen := &fakeGenerator{reply: "# Title\n\nRewritten body."}
	svc := newTestRewriteService(gen, failingAssembler{})

	result, err := svc.Rewrite(context.Background(), testArticle, &models.GenerationRequest{})
	if err != nil {
		t.Fatalf("fail-open path must not error: %v", err)
	}
	if result.Content != testArticle {
		t.Errorf("expected original content back, got:\n%s", result.Content)
	}
}

func TestRewriteAssemblesAndRepairs(t *testing.T) {
	gen := &fakeGenerator{reply: "# Estate Planning for Parents\n\nA fully rewritten body paragraph.\n\nSchedule your complimentary discovery call today."}
	svc := newTestRewriteService(gen, nil)

	result, err := svc.Rewrite(context.Background(), testArticle, &models.GenerationRequest{
		Tone:     "Professional",
		FirmName: "Acme Law",
	})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	hook := "Who would raise your children if something happened to you?"
	disclaimer := "*###### This article is a service of [Firm Name].*"

	if !strings.HasPrefix(result.Content, hook) {
		t.Errorf("document must open with the hook:\n%s", result.Content)
	}
	if !strings.HasSuffix(result.Content, disclaimer) {
		t.Errorf("document must end with the disclaimer:\n%s", result.Content)
	}
	if got := strings.Count(result.Content, hook); got != 1 {
		t.Errorf("hook must appear exactly once, got %d", got)
	}
	if !strings.Contains(result.Content, "A fresh teaser. Read more...") {
		t.Errorf("new summary missing from document:\n%s", result.Content)
	}
	if result.Preserved.Hook != hook {
		t.Errorf("preserved hook = %q", result.Preserved.Hook)
	}

	// The rewrite call must carry the original as the user message and the
	// constraint contract as the system instruction.
	req := gen.requests[0]
	if req.Messages[0].Content != testArticle {
		t.Errorf("user message is not the original article")
	}
	if !strings.Contains(req.System, "40%") {
		t.Errorf("system instruction missing change requirement")
	}
}

type recordingJudge struct {
	report *models.ValidationReport
	called bool
}

func (j *recordingJudge) Validate(_ context.Context, _, _ string, _ *models.GenerationRequest) *models.ValidationReport {
	j.called = true
	return j.report
}

func TestRewriteJudgeIsAdvisory(t *testing.T) {
	gen := &fakeGenerator{reply: "# Title\n\nBody paragraph."}
	judge := &recordingJudge{report: nil}
	svc := NewRewriteService(gen, "fake-model",
		fixedSummarizer{summary: "Teaser. Read more..."},
		NewAssembler("", testLogger()),
		judge,
		testLogger(),
	)

	result, err := svc.Rewrite(context.Background(), testArticle, &models.GenerationRequest{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if !judge.called {
		t.Error("judge was not consulted")
	}
	if result.Report != nil {
		t.Error("nil judge report must pass through as nil")
	}
	if result.Content == "" {
		t.Error("a nil report must not block the document")
	}
}
