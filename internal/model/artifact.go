// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "github.com/google/uuid"

// Artifact describes one file staged out of an application bundle. The
// descriptor itself is a value; the staged copy on disk is owned by the
// extraction pipeline and referenced through StagedPath.
//
// StagedPath is empty once the staged copy has been removed (an incidental
// file cleaned up after classification, or a library the user discarded).
// OriginalPath is provenance only and always refers to the source bundle.
type Artifact struct {
	ID           string
	Name         string
	OriginalPath string
	SizeBytes    int64
	StagedPath   string
}

// NewArtifact builds a descriptor with a fresh identity token.
func NewArtifact(name, originalPath string, sizeBytes int64, stagedPath string) Artifact {
	return Artifact{
		ID:           uuid.NewString(),
		Name:         name,
		OriginalPath: originalPath,
		SizeBytes:    sizeBytes,
		StagedPath:   stagedPath,
	}
}

// Staged reports whether the artifact still has a copy on the scratch
// file system.
func (a Artifact) Staged() bool {
	return a.StagedPath != ""
}
