// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package extract

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/liblift/liblift/internal/logging"
	"github.com/liblift/liblift/internal/model"
)

// DefaultLibrarySuffixes is the dynamic-library suffix set used when the
// configuration does not override it.
var DefaultLibrarySuffixes = []string{".dylib"}

// Classify partitions staged artifacts into dynamic libraries and incidental
// files. Matching is case-insensitive on the artifact name's suffix.
//
// Every incidental artifact with a staged copy is deleted from the scratch
// file system right away, so only library artifacts remain on disk. These
// deletions are best-effort: a failure is logged and never stops
// classification, since a stray incidental file does not affect the kept
// set. The returned incidental descriptors have their staged location
// cleared.
//
// An empty library partition is a normal outcome; the caller must not open
// a curation session in that case.
func Classify(all []model.Artifact, suffixes []string) (libraries, incidental []model.Artifact) {
	if len(suffixes) == 0 {
		suffixes = DefaultLibrarySuffixes
	}

	for _, a := range all {
		if isLibrary(a.Name, suffixes) {
			libraries = append(libraries, a)
			continue
		}
		if a.Staged() {
			if err := os.Remove(a.StagedPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logging.Warnf("classify: could not remove incidental file %s: %v", a.StagedPath, err)
			}
			a.StagedPath = ""
		}
		incidental = append(incidental, a)
	}
	return libraries, incidental
}

func isLibrary(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
