// Package outreach implements the send-side of the pipeline: the persisted
// send-history state, the intro email template, and the throttled send loop.
package outreach

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateFileName is the state file kept under the output directory.
const StateFileName = "outreach_state.json"

// SendRecord is the durable proof that a place has been emailed.
type SendRecord struct {
	RecipientEmail    string    `json:"email"`
	SentAt            time.Time `json:"sent_at"`
	ProviderMessageID string    `json:"message_id"`
}

// State maps place IDs to their send records across runs. It is the single
// source of truth for "already emailed"; leads are recomputed every run.
type State struct {
	Emailed map[string]SendRecord `json:"emailed"`
	LastRun *time.Time            `json:"last_run"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Emailed: make(map[string]SendRecord)}
}

// AlreadyEmailed reports whether a send record exists for the place.
func (s *State) AlreadyEmailed(placeID string) bool {
	_, ok := s.Emailed[placeID]
	return ok
}

// StatePath returns the state file location under dir.
func StatePath(dir string) string {
	return filepath.Join(dir, StateFileName)
}

// LoadState reads the persisted state. A missing or corrupt file must never
// block a run, so every failure collapses to a fresh empty state.
func LoadState(path string) *State {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-configured state location.
	if err != nil {
		return NewState()
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return NewState()
	}
	if st.Emailed == nil {
		st.Emailed = make(map[string]SendRecord)
	}
	return &st
}

// SaveState writes the full state document, creating the directory first.
// Called once after the send loop; a crash mid-loop loses that run's
// in-memory records, which is an accepted tradeoff since the provider has
// recorded the actual sends.
func SaveState(path string, st *State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write state %s: %w", path, err)
	}
	return nil
}
