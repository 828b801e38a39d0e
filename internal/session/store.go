// Package session keeps per-interview state in memory. One record per
// session id, owned by a Store instance so independent orchestrators
// (and tests) never share state.
package session

import (
	"sync"
	"time"
)

// DefaultTimeout is how long an untouched session survives before a sweep
// reclaims it.
const DefaultTimeout = 3600 * time.Second

// AskedQuestion is one question the interviewer has asked, in order.
type AskedQuestion struct {
	Text     string
	Topic    string
	Sequence int
	AskedAt  time.Time
}

// Interaction is one completed question/answer round with its scores.
type Interaction struct {
	Question   string
	Answer     string
	Feedback   string
	Scores     DimensionScores
	FinalScore float64
}

// DimensionScores holds the four per-answer scoring dimensions.
type DimensionScores struct {
	DomainKnowledge float64
	Communication   float64
	Confidence      float64
	Depth           float64
}

// Session is the full state of one interview.
type Session struct {
	ID             string
	Role           string
	Experience     string
	Difficulty     string
	ResumeText     string
	CreatedAt      time.Time
	AskedQuestions []AskedQuestion
	TopicsCovered  []string
	CurrentTopic   string
	Interactions   []Interaction
	QuestionCount  int
	AverageScore   float64
}

// Summary is the read-only projection handed to reporting. It is a
// snapshot; mutating it never touches the live session.
type Summary struct {
	SessionID         string
	Role              string
	Experience        string
	Difficulty        string
	TotalQuestions    int
	TotalInteractions int
	TopicsCovered     []string
	AverageScore      float64
	Interactions      []Interaction
}

// Store is a mutex-guarded map of sessions keyed by id.
type Store struct {
	mu      sync.Mutex
	timeout time.Duration
	items   map[string]*Session
	now     func() time.Time
}

// NewStore creates an empty store. A non-positive timeout falls back to
// DefaultTimeout.
func NewStore(timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		timeout: timeout,
		items:   make(map[string]*Session),
		now:     time.Now,
	}
}

// Create registers a new session under id. An existing session with the
// same id is overwritten silently.
func (s *Store) Create(id, role, experience, difficulty, resumeText string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:         id,
		Role:       role,
		Experience: experience,
		Difficulty: difficulty,
		ResumeText: resumeText,
		CreatedAt:  s.now(),
	}
	s.items[id] = sess

	return snapshot(sess)
}

// Get returns a snapshot of the session, or false when the id is unknown.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return snapshot(sess), true
}

// AppendQuestion records a question asked at the given sequence number and
// bumps the question counter. Returns false when the id is unknown.
func (s *Store) AppendQuestion(id, text, topic string, seq int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return false
	}

	sess.AskedQuestions = append(sess.AskedQuestions, AskedQuestion{
		Text:     text,
		Topic:    topic,
		Sequence: seq,
		AskedAt:  s.now(),
	})
	sess.QuestionCount++

	return true
}

// AddTopic records a covered topic. Adding a topic twice is a no-op, so
// the covered list stays deduplicated in first-seen order.
func (s *Store) AddTopic(id, topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return false
	}

	for _, t := range sess.TopicsCovered {
		if t == topic {
			return true
		}
	}
	sess.TopicsCovered = append(sess.TopicsCovered, topic)

	return true
}

// SetCurrentTopic overwrites the advisory current-topic marker.
func (s *Store) SetCurrentTopic(id, topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return false
	}
	sess.CurrentTopic = topic

	return true
}

// AppendInteraction stores a completed interaction block and folds its
// final score into the running average. Both happen under one lock
// acquisition: there is no observable state where the count moved but the
// average did not.
func (s *Store) AppendInteraction(id string, block Interaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return false
	}

	prior := len(sess.Interactions)
	sess.Interactions = append(sess.Interactions, block)
	sess.AverageScore = (sess.AverageScore*float64(prior) + block.FinalScore) / float64(prior+1)

	return true
}

// Summary returns the reporting projection for the session.
func (s *Store) Summary(id string) (*Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}

	return &Summary{
		SessionID:         sess.ID,
		Role:              sess.Role,
		Experience:        sess.Experience,
		Difficulty:        sess.Difficulty,
		TotalQuestions:    sess.QuestionCount,
		TotalInteractions: len(sess.Interactions),
		TopicsCovered:     append([]string(nil), sess.TopicsCovered...),
		AverageScore:      sess.AverageScore,
		Interactions:      append([]Interaction(nil), sess.Interactions...),
	}, true
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
}

// SweepExpired drops every session whose age at now exceeds the store
// timeout and returns how many were removed.
func (s *Store) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.items {
		if now.Sub(sess.CreatedAt) > s.timeout {
			delete(s.items, id)
			removed++
		}
	}

	return removed
}

// Len reports how many sessions are currently live.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func snapshot(sess *Session) *Session {
	cp := *sess
	cp.AskedQuestions = append([]AskedQuestion(nil), sess.AskedQuestions...)
	cp.TopicsCovered = append([]string(nil), sess.TopicsCovered...)
	cp.Interactions = append([]Interaction(nil), sess.Interactions...)
	return &cp
}
