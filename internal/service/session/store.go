package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"counselpost/internal/domain/models"
	"counselpost/internal/domain/services"
)

// maxTranscriptTurns bounds the per-session generator transcript. The system
// instruction (turn 0) is always retained; older turns are evicted first.
const maxTranscriptTurns = 64

// Store holds per-browser-session state: the current post, the review chat
// history and the generator transcript. Sessions are bounded both ways - an
// LRU capacity cap and a TTL - so transcript growth can never exhaust the
// process.
type Store struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *Session]
}

// New creates a session store evicting beyond capacity entries or after ttl.
func New(capacity int, ttl time.Duration) *Store {
	return &Store{
		lru: expirable.NewLRU[string, *Session](capacity, nil, ttl),
	}
}

// Session returns the state for id, creating it if absent.
func (s *Store) Session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.lru.Get(id); ok {
		return sess
	}
	sess := &Session{}
	s.lru.Add(id, sess)
	return sess
}

// Peek returns the state for id without creating it.
func (s *Store) Peek(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Get(id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// BeginEdit serializes conversational edits for one session. Concurrent edit
// requests from multiple tabs block here instead of interleaving transcript
// turns. The returned release function must be called when the edit is done.
func (s *Store) BeginEdit(sessionID string) func() {
	sess := s.Session(sessionID)
	sess.editMu.Lock()
	return sess.editMu.Unlock
}

// Transcript returns a copy of the generator transcript for sessionID.
func (s *Store) Transcript(sessionID string) []services.Message {
	sess := s.Session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make([]services.Message, len(sess.transcript))
	copy(out, sess.transcript)
	return out
}

// SetTranscript replaces the generator transcript for sessionID, trimming to
// the turn bound while keeping the leading system instruction.
func (s *Store) SetTranscript(sessionID string, turns []services.Message) {
	if len(turns) > maxTranscriptTurns {
		trimmed := make([]services.Message, 0, maxTranscriptTurns)
		trimmed = append(trimmed, turns[0])
		trimmed = append(trimmed, turns[len(turns)-(maxTranscriptTurns-1):]...)
		turns = trimmed
	}
	sess := s.Session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.transcript = turns
}

// Session is the state of one browser session.
type Session struct {
	mu     sync.Mutex
	editMu sync.Mutex

	post       *models.Post
	history    []models.ChatTurn
	transcript []services.Message
}

// Post returns a copy of the current post, or nil if none has been
// generated. Only copies ever leave the session, so callers can read and
// marshal them without holding the session lock.
func (s *Session) Post() *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.post == nil {
		return nil
	}
	post := *s.post
	return &post
}

// SetPost replaces the current post with a copy of post.
func (s *Session) SetPost(post *models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post == nil {
		s.post = nil
		return
	}
	stored := *post
	s.post = &stored
}

// SetContent replaces the current post's content under the session lock and
// returns a copy of the updated post, or nil/false if no post exists.
func (s *Session) SetContent(content string, at time.Time) (*models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.post == nil {
		return nil, false
	}
	s.post.Content = content
	s.post.UpdatedAt = at
	updated := *s.post
	return &updated, true
}

// History returns a copy of the review chat history.
func (s *Session) History() []models.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatTurn, len(s.history))
	copy(out, s.history)
	return out
}

// AppendHistory appends turns to the review chat history.
func (s *Session) AppendHistory(turns ...models.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, turns...)
}

// ResetHistory replaces the chat history, used when a new post is generated.
func (s *Session) ResetHistory(turns ...models.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]models.ChatTurn(nil), turns...)
}
