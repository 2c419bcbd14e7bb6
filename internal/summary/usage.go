package summary

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/bizplan/internal/logbook"
)

// EstimateTokens approximates a token count at four characters per token.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// UsageEntry records the estimated size of one summarization request.
type UsageEntry struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	FormTokens       int       `json:"formDataSize"`
	TranscriptTokens int       `json:"transcriptSize,omitempty"`
	TotalTokens      int       `json:"totalTokensEstimate"`
}

// Ledger appends usage entries to a JSON-lines file.
type Ledger struct {
	path  string
	log   *logbook.Logbook
	clock func() time.Time
	mu    sync.Mutex
}

// NewLedger writes entries to path. Failures go to log.
func NewLedger(path string, log *logbook.Logbook) *Ledger {
	return &Ledger{path: path, log: log, clock: time.Now}
}

// Record estimates and appends one entry. A nil ledger records nothing.
func (l *Ledger) Record(formText, transcript string) {
	if l == nil {
		return
	}
	entry := UsageEntry{
		ID:               uuid.NewString(),
		Timestamp:        l.clock().UTC(),
		FormTokens:       EstimateTokens(formText),
		TranscriptTokens: EstimateTokens(transcript),
	}
	entry.TotalTokens = entry.FormTokens + entry.TranscriptTokens
	if err := l.append(entry); err != nil {
		l.log.Warn("token usage not recorded: %v", err)
		return
	}
	l.log.Info("summary request: ~%d tokens (%s)", entry.TotalTokens, entry.ID)
}

func (l *Ledger) append(entry UsageEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.Write(append(line, '\n'))
	return err
}

// Entries reads every recorded entry in order. A missing ledger is empty.
func (l *Ledger) Entries() ([]UsageEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("summary: open ledger: %w", err)
	}
	defer file.Close()
	var entries []UsageEntry
	scanner := bufio.NewScanner(file)
	for n := 1; scanner.Scan(); n++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry UsageEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("summary: ledger line %d: %w", n, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("summary: read ledger: %w", err)
	}
	return entries, nil
}

// TotalTokens sums the estimates across entries.
func TotalTokens(entries []UsageEntry) int {
	total := 0
	for _, e := range entries {
		total += e.TotalTokens
	}
	return total
}
