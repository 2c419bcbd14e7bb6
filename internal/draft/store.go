package draft

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"

	"github.com/kingrea/bizplan/internal/form"
	"github.com/kingrea/bizplan/internal/logbook"
)

// Key is the single slot the questionnaire draft lives under.
const Key = "business_planning_form_data"

// Store saves and restores the one questionnaire draft. Its operations never
// fail from the caller's point of view: storage problems are written to the
// logbook and kept in LastError.
type Store struct {
	backend Backend
	log     *logbook.Logbook

	mu      sync.Mutex
	lastErr error
}

// NewStore binds backend to the draft key. log may be nil.
func NewStore(backend Backend, log *logbook.Logbook) *Store {
	return &Store{backend: backend, log: log}
}

// Save overwrites the stored draft with doc.
func (s *Store) Save(doc form.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.fail("draft encode failed: %v", err)
		return
	}
	if err := s.backend.Save(Key, data); err != nil {
		s.fail("draft save failed: %v", err)
		return
	}
	s.setErr(nil)
}

// Load returns the stored draft. It reports false when nothing is stored, the
// stored value is JSON null, or it cannot be decoded.
func (s *Store) Load() (form.Document, bool) {
	data, err := s.backend.Load(Key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.fail("draft load failed: %v", err)
		}
		return form.Document{}, false
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return form.Document{}, false
	}
	var doc form.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.fail("draft is corrupt, ignoring it: %v", err)
		return form.Document{}, false
	}
	return doc, true
}

// Clear removes the stored draft. Clearing an absent draft is a no-op.
func (s *Store) Clear() {
	if err := s.backend.Delete(Key); err != nil {
		s.fail("draft clear failed: %v", err)
		return
	}
	s.setErr(nil)
}

// Exists reports whether a draft is stored, without decoding it.
func (s *Store) Exists() bool {
	ok, err := s.backend.Exists(Key)
	if err != nil {
		s.fail("draft exists check failed: %v", err)
		return false
	}
	return ok
}

// LastError returns the most recent storage failure, or nil when the last
// write succeeded.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) fail(format string, err error) {
	s.log.Warn(format, err)
	s.setErr(err)
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
