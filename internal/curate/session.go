// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

// package curate holds the in-flight state between extraction and the
// caller's decision: which extracted library artifacts to keep. A Session is
// driven through its public operations only; the reconciler settles the
// scratch directory once the session reaches a terminal state.
package curate

import (
	"errors"
	"sync"

	"github.com/liblift/liblift/internal/model"
)

// State is the lifecycle state of a curation session.
type State string

const (
	// StateOpen is the initial state; keep-set mutations are accepted.
	StateOpen State = "open"
	// StateCommitted is terminal; the kept artifacts are being retained.
	StateCommitted State = "committed"
	// StateAborted is terminal; the whole scratch directory is discarded.
	StateAborted State = "aborted"
)

var (
	// ErrNoLibraries is returned when a session is opened without any
	// library artifacts. Callers must treat an empty classification result
	// as a normal outcome and skip session creation.
	ErrNoLibraries = errors.New("no library artifacts to curate")
	// ErrNothingKept rejects a commit with an empty keep set; retaining
	// nothing is equivalent to cancelling.
	ErrNothingKept = errors.New("commit requires at least one kept artifact")
	// ErrInvalidTransition is returned for operations against a session
	// whose terminal state forbids them.
	ErrInvalidTransition = errors.New("session already in a terminal state")
)

// Session tracks the extracted library artifacts of one application and the
// subset currently marked to keep. All operations are safe for concurrent
// use; mutations are serialized so no toggle is lost and nothing runs
// against a session that already reached a terminal state.
type Session struct {
	mu          sync.Mutex
	state       State
	displayName string
	scratchDir  string
	libraries   []model.Artifact
	keep        map[string]struct{}
}

// NewSession opens a session over the surviving library artifacts. The
// library set is fixed for the session's lifetime; the keep set starts
// empty. Fails with ErrNoLibraries when there is nothing to curate.
func NewSession(displayName, scratchDir string, libraries []model.Artifact) (*Session, error) {
	if len(libraries) == 0 {
		return nil, ErrNoLibraries
	}
	s := &Session{
		state:       StateOpen,
		displayName: displayName,
		scratchDir:  scratchDir,
		libraries:   append([]model.Artifact(nil), libraries...),
		keep:        make(map[string]struct{}),
	}
	return s, nil
}

// DisplayName returns the sanitized source application name.
func (s *Session) DisplayName() string { return s.displayName }

// ScratchDir returns the directory all session artifacts were staged under.
func (s *Session) ScratchDir() string { return s.scratchDir }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Libraries returns a copy of the extracted library artifacts, in
// extraction order.
func (s *Session) Libraries() []model.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Artifact(nil), s.libraries...)
}

// Toggle flips keep-set membership for the given artifact identity. It is a
// no-op when the identity is not among the session's libraries or the
// session is no longer open.
func (s *Session) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return
	}
	if !s.hasLibrary(id) {
		return
	}
	if _, kept := s.keep[id]; kept {
		delete(s.keep, id)
	} else {
		s.keep[id] = struct{}{}
	}
}

// SelectAll marks every library artifact as kept. No-op unless open.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return
	}
	for _, a := range s.libraries {
		s.keep[a.ID] = struct{}{}
	}
}

// DeselectAll empties the keep set. No-op unless open.
func (s *Session) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return
	}
	s.keep = make(map[string]struct{})
}

// IsKept reports whether the artifact identity is currently marked to keep.
func (s *Session) IsKept(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, kept := s.keep[id]
	return kept
}

// KeptCount returns the size of the keep set.
func (s *Session) KeptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keep)
}

// Kept returns the kept artifacts in extraction order.
func (s *Session) Kept() []model.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []model.Artifact
	for _, a := range s.libraries {
		if _, ok := s.keep[a.ID]; ok {
			kept = append(kept, a)
		}
	}
	return kept
}

// Commit transitions the session to Committed. It is rejected with
// ErrNothingKept when the keep set is empty and with ErrInvalidTransition
// when the session was aborted. Committing an already committed session is
// a no-op, so reconciliation stays idempotent.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateCommitted:
		return nil
	case StateAborted:
		return ErrInvalidTransition
	}
	if len(s.keep) == 0 {
		return ErrNothingKept
	}
	s.state = StateCommitted
	return nil
}

// Cancel transitions the session to Aborted. Cancelling an already aborted
// session is a no-op; cancelling after a commit is rejected.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCommitted {
		return ErrInvalidTransition
	}
	s.state = StateAborted
	return nil
}

// clearStaged drops the staged location of one library artifact after its
// file was removed.
func (s *Session) clearStaged(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.libraries {
		if s.libraries[i].ID == id {
			s.libraries[i].StagedPath = ""
			return
		}
	}
}

// hasLibrary must be called with the lock held.
func (s *Session) hasLibrary(id string) bool {
	for _, a := range s.libraries {
		if a.ID == id {
			return true
		}
	}
	return false
}
