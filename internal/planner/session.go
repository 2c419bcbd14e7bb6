// Package planner is the questionnaire session: the document being edited,
// the section cursor, draft autosave, and submission.
package planner

import (
	"context"
	"errors"
	"sync"

	"github.com/kingrea/bizplan/internal/draft"
	"github.com/kingrea/bizplan/internal/form"
	"github.com/kingrea/bizplan/internal/logbook"
	"github.com/kingrea/bizplan/internal/navigator"
	"github.com/kingrea/bizplan/internal/summary"
)

// ErrSubmitInFlight rejects a submit while another is outstanding.
var ErrSubmitInFlight = errors.New("planner: a summary request is already in flight")

// Summarizer produces the narrative for a submitted document.
type Summarizer interface {
	Configured() bool
	Summarize(ctx context.Context, doc form.Document, transcript string) (string, error)
}

// Option customises a Session.
type Option func(*Session)

// WithSummarizer attaches the summary service.
func WithSummarizer(s Summarizer) Option {
	return func(sess *Session) { sess.summarizer = s }
}

// WithLogbook routes session events to log.
func WithLogbook(log *logbook.Logbook) Option {
	return func(sess *Session) { sess.log = log }
}

// Session owns one questionnaire in progress.
type Session struct {
	store      *draft.Store
	summarizer Summarizer
	log        *logbook.Logbook

	mu       sync.Mutex
	doc      form.Document
	nav      *navigator.Navigator
	restored bool
	inFlight bool
}

// Open starts a session, hydrating from the stored draft when one exists.
func Open(store *draft.Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		nav:   navigator.New(form.TotalSections()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if doc, ok := store.Load(); ok {
		s.doc = doc
		s.restored = true
		s.log.Info("restored draft for %q", doc.Name)
	}
	return s
}

// Restored reports whether Open found a saved draft.
func (s *Session) Restored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

// Document returns a copy of the current answers.
func (s *Session) Document() form.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Get reads one field.
func (s *Session) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Get(key)
}

// Set writes one field and saves the draft.
func (s *Session) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.doc.Set(key, value); err != nil {
		return err
	}
	s.store.Save(s.doc)
	return nil
}

// Replace swaps in a whole document and saves it.
func (s *Session) Replace(doc form.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.store.Save(s.doc)
}

// Current returns the section on screen.
func (s *Session) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Current()
}

// Next moves forward one section.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Next()
}

// Previous moves back one section.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Previous()
}

// JumpTo moves to section n when it exists.
func (s *Session) JumpTo(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.JumpTo(n)
}

// IsFirst reports whether the first section is on screen.
func (s *Session) IsFirst() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.IsFirst()
}

// IsLast reports whether the final section is on screen.
func (s *Session) IsLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.IsLast()
}

// Progress derives the progress report for the current section.
func (s *Session) Progress() navigator.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Progress()
}

// Clear discards the draft, empties the form, and returns to section 1.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear()
	s.doc = form.Document{}
	s.nav.Reset()
	s.restored = false
	s.log.Info("draft cleared")
}

// Validate checks the required fields.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return form.Validate(&s.doc)
}

// SummaryAvailable reports whether Submit can reach the summary service.
func (s *Session) SummaryAvailable() bool {
	return s.summarizer != nil && s.summarizer.Configured()
}

// InFlight reports whether a Submit is waiting on the summary service.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Submit validates, saves, and requests a summary. Validation failures return
// form.ValidationErrors without contacting the service. The request is not
// retried; it ends when the service answers, fails, or ctx (or the client's
// own timeout) expires.
func (s *Session) Submit(ctx context.Context, transcript string) (string, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	if err := form.Validate(&s.doc); err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.store.Save(s.doc)
	doc := s.doc
	summarizer := s.summarizer
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if summarizer == nil {
		return "", summary.ErrNotConfigured
	}
	s.log.Info("submitting %q for summary", doc.Name)
	narrative, err := summarizer.Summarize(ctx, doc, transcript)
	if err != nil {
		s.log.Error("summary failed: %v", err)
		return "", err
	}
	return narrative, nil
}

// LastSaveError exposes the most recent draft storage failure.
func (s *Session) LastSaveError() error {
	return s.store.LastError()
}
