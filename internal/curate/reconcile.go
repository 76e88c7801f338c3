// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package curate

import (
	"errors"
	"io/fs"
	"os"

	"github.com/liblift/liblift/internal/extract"
	"github.com/liblift/liblift/internal/logging"
)

// Finalize commits the session and deletes the staged file of every library
// artifact not in the keep set, leaving the scratch directory with exactly
// the kept artifacts (plus the manifest, when one was written). It returns
// the scratch directory so the caller can surface it.
//
// Individual deletions are best-effort: a failure is logged and processing
// continues, and files that are already gone are not an error. Finalizing
// an already finalized session is harmless.
func Finalize(s *Session) (string, error) {
	if err := s.Commit(); err != nil {
		return "", err
	}

	for _, a := range s.Libraries() {
		if s.IsKept(a.ID) || !a.Staged() {
			continue
		}
		if err := os.Remove(a.StagedPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.Warnf("finalize: could not remove %s: %v", a.StagedPath, err)
		}
		s.clearStaged(a.ID)
	}

	extract.ReleaseScratch(s.ScratchDir())
	return s.ScratchDir(), nil
}

// Abort cancels the session and discards its entire scratch directory,
// regardless of classification or keep status. Aborting a session that was
// already committed is a no-op: the scratch directory holds the kept
// artifacts at that point and must survive.
func Abort(s *Session) {
	if err := s.Cancel(); err != nil {
		logging.Debugf("abort: %v", err)
		return
	}
	AbortExtraction(s.ScratchDir())
}

// AbortExtraction removes a scratch directory and releases its in-flight
// hold. It covers cancellation of a whole extraction attempt before any
// session exists, tolerates the directory being partially or fully absent,
// and may be called repeatedly.
func AbortExtraction(scratchDir string) {
	if err := os.RemoveAll(scratchDir); err != nil {
		logging.Warnf("abort: could not remove scratch directory %s: %v", scratchDir, err)
	}
	extract.ReleaseScratch(scratchDir)
}
