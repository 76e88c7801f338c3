// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package extract

import (
	"errors"
	"sync"
)

// ErrScratchBusy is returned when an extraction is requested for a scratch
// directory that already has an extraction or open curation session in
// flight in this process.
var ErrScratchBusy = errors.New("scratch directory already in use")

// scratchRegistry tracks the scratch directories currently in flight. The
// design assumes single-writer access per scratch directory; this registry
// enforces that within the process, since the directory path is keyed only
// by the sanitized application name.
var scratchRegistry = &scratchSet{dirs: make(map[string]struct{})}

type scratchSet struct {
	mu   sync.Mutex
	dirs map[string]struct{}
}

// acquire marks dir as in flight. It fails with ErrScratchBusy if dir is
// already held.
func (s *scratchSet) acquire(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.dirs[dir]; held {
		return ErrScratchBusy
	}
	s.dirs[dir] = struct{}{}
	return nil
}

// release removes the hold on dir. Releasing a dir that is not held is a
// no-op.
func (s *scratchSet) release(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirs, dir)
}

// ReleaseScratch gives up the process-wide hold on a scratch directory once
// its session is finalized or aborted. Safe to call more than once.
func ReleaseScratch(dir string) {
	scratchRegistry.release(dir)
}
