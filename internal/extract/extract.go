// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

// package extract stages the contents of an application bundle into a
// per-application scratch directory and classifies the staged files. A
// bundle is either a directory tree or a compressed container (.zip/.ipa).
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/liblift/liblift/internal/model"
)

// ExtractionError is returned when an extraction attempt cannot proceed:
// the bundle root is missing or unreadable, or the scratch directory could
// not be prepared. It is fatal to the attempt; no partial session follows.
type ExtractionError struct {
	BundleRoot string
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction of %s failed: %v", e.BundleRoot, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor stages bundle contents under a process-scoped scratch root.
type Extractor struct {
	// ScratchRoot is the directory under which per-application scratch
	// directories are created.
	ScratchRoot string
}

// New returns an Extractor rooted at scratchRoot.
func New(scratchRoot string) *Extractor {
	return &Extractor{ScratchRoot: scratchRoot}
}

// ScratchDir returns the scratch directory used for the given sanitized
// folder name.
func (x *Extractor) ScratchDir(folderName string) string {
	return filepath.Join(x.ScratchRoot, folderName)
}

// Extract copies every regular file reachable under bundleRoot into the
// scratch directory for folderName and returns a descriptor per staged file,
// library or not. Base-name collisions across sub-paths are disambiguated in
// the staged name; the descriptor's OriginalPath keeps the true source path.
//
// The scratch directory is held by this process until released through the
// reconciler (Finalize/Abort/AbortExtraction); a second Extract for the same
// folder name while one is in flight fails rather than racing. On any error
// return the hold is kept so the caller can discard the partial staging area
// with AbortExtraction.
//
// Extraction is the expensive step of the pipeline. It honors ctx
// cancellation between file copies and returns the context error in that
// case, leaving whatever was staged so far for the caller to discard.
func (x *Extractor) Extract(ctx context.Context, bundleRoot, folderName string) ([]model.Artifact, error) {
	info, err := os.Stat(bundleRoot)
	if err != nil {
		return nil, &ExtractionError{BundleRoot: bundleRoot, Err: err}
	}

	dest := x.ScratchDir(folderName)
	if err := scratchRegistry.acquire(dest); err != nil {
		return nil, &ExtractionError{BundleRoot: bundleRoot, Err: err}
	}

	// A repeated extraction for the same application starts from independent
	// state: any leftovers from a previous, already-released run are removed.
	if err := os.RemoveAll(dest); err != nil {
		return nil, &ExtractionError{BundleRoot: bundleRoot, Err: err}
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, &ExtractionError{BundleRoot: bundleRoot, Err: err}
	}

	st := &staging{dest: dest, names: make(map[string]int)}
	switch {
	case info.IsDir():
		err = x.walkBundle(ctx, bundleRoot, st)
	case isArchive(bundleRoot):
		err = x.unpackArchive(ctx, bundleRoot, st)
	default:
		err = errors.New("bundle root is neither a directory nor a supported archive")
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ExtractionError{BundleRoot: bundleRoot, Err: err}
	}

	return st.artifacts, nil
}

// staging accumulates the state of one extraction run: the destination
// directory, the set of staged file names already taken (lowercased, so the
// result is safe on case-insensitive file systems) and the descriptors
// produced so far.
type staging struct {
	dest      string
	names     map[string]int
	artifacts []model.Artifact
}

// claimName reserves a staged file name for base, appending a counter before
// the extension when the name is already taken.
func (st *staging) claimName(base string) string {
	key := strings.ToLower(base)
	n := st.names[key]
	st.names[key] = n + 1
	if n == 0 {
		return base
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		ck := strings.ToLower(candidate)
		if st.names[ck] == 0 {
			st.names[ck] = 1
			return candidate
		}
		n++
	}
}

// stage copies src into the staging area under a claimed name and returns
// the staged path with the number of bytes written.
func (st *staging) stage(src io.Reader, base string) (string, int64, error) {
	stagedPath := filepath.Join(st.dest, st.claimName(base))
	out, err := os.Create(stagedPath)
	if err != nil {
		return "", 0, err
	}
	written, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, err
	}
	return stagedPath, written, nil
}

// walkBundle stages every regular file in the bundle directory tree.
func (x *Extractor) walkBundle(ctx context.Context, bundleRoot string, st *staging) error {
	return filepath.WalkDir(bundleRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.Type().IsRegular() {
			return nil
		}

		in, err := os.Open(p)
		if err != nil {
			return err
		}
		stagedPath, written, err := st.stage(in, d.Name())
		_ = in.Close()
		if err != nil {
			return err
		}

		rel, rerr := filepath.Rel(bundleRoot, p)
		if rerr != nil {
			rel = p
		}
		st.artifacts = append(st.artifacts, model.NewArtifact(d.Name(), rel, written, stagedPath))
		return nil
	})
}

// unpackArchive stages every regular entry of a compressed bundle container.
func (x *Extractor) unpackArchive(ctx context.Context, bundleRoot string, st *staging) error {
	r, err := zip.OpenReader(bundleRoot)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !f.Mode().IsRegular() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		base := path.Base(f.Name)
		stagedPath, written, err := st.stage(rc, base)
		_ = rc.Close()
		if err != nil {
			return err
		}
		st.artifacts = append(st.artifacts, model.NewArtifact(base, f.Name, written, stagedPath))
	}
	return nil
}

// isArchive reports whether the path names a supported compressed bundle
// container.
func isArchive(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".zip", ".ipa":
		return true
	}
	return false
}
