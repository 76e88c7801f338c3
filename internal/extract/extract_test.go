// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/liblift/liblift/internal/model"
)

// writeFile creates a file with parents, failing the test on error.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

// makeBundle builds the canonical test bundle: two dylibs and three
// incidental files spread over nested directories.
func makeBundle(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Demo.app")
	writeFile(t, filepath.Join(root, "Frameworks", "libA.dylib"), "library A")
	writeFile(t, filepath.Join(root, "Frameworks", "libB.dylib"), "library B!")
	writeFile(t, filepath.Join(root, "Info.plist"), "<plist/>")
	writeFile(t, filepath.Join(root, "readme.txt"), "hello")
	writeFile(t, filepath.Join(root, "Resources", "data.bin"), "bits")
	return root
}

func TestExtractStagesAllFiles(t *testing.T) {
	bundle := makeBundle(t)
	x := New(t.TempDir())

	artifacts, err := x.Extract(context.Background(), bundle, "Demo")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	defer ReleaseScratch(x.ScratchDir("Demo"))

	if len(artifacts) != 5 {
		t.Fatalf("expected 5 staged artifacts, got %d", len(artifacts))
	}
	for _, a := range artifacts {
		if a.ID == "" {
			t.Errorf("artifact %s has no identity", a.Name)
		}
		if !a.Staged() {
			t.Errorf("artifact %s not staged", a.Name)
			continue
		}
		info, err := os.Stat(a.StagedPath)
		if err != nil {
			t.Errorf("staged copy of %s missing: %v", a.Name, err)
			continue
		}
		if info.Size() != a.SizeBytes {
			t.Errorf("artifact %s: size %d, staged file has %d", a.Name, a.SizeBytes, info.Size())
		}
		if filepath.Dir(a.StagedPath) != x.ScratchDir("Demo") {
			t.Errorf("artifact %s staged outside the scratch dir: %s", a.Name, a.StagedPath)
		}
	}
}

func TestExtractDisambiguatesNameCollisions(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Twin.app")
	writeFile(t, filepath.Join(root, "PlugIns", "helper", "data.bin"), "one")
	writeFile(t, filepath.Join(root, "Resources", "data.bin"), "two")

	x := New(t.TempDir())
	artifacts, err := x.Extract(context.Background(), root, "Twin")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	defer ReleaseScratch(x.ScratchDir("Twin"))

	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	staged := map[string]bool{}
	for _, a := range artifacts {
		staged[filepath.Base(a.StagedPath)] = true
		if a.Name != "data.bin" {
			t.Errorf("descriptor name should keep the bundle base name, got %q", a.Name)
		}
	}
	if !staged["data.bin"] || !staged["data_1.bin"] {
		t.Errorf("expected disambiguated staged names, got %v", staged)
	}
	if artifacts[0].OriginalPath == artifacts[1].OriginalPath {
		t.Error("original paths must remain the true source paths")
	}
}

func TestExtractMissingRoot(t *testing.T) {
	x := New(t.TempDir())
	_, err := x.Extract(context.Background(), filepath.Join(t.TempDir(), "nope"), "Missing")
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestExtractUnsupportedRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notabundle.txt")
	writeFile(t, file, "plain file")

	x := New(t.TempDir())
	_, err := x.Extract(context.Background(), file, "Plain")
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	abortScratch(t, x.ScratchDir("Plain"))
}

// abortScratch mirrors what callers do after a failed attempt: drop
// the staging area and the in-flight hold.
func abortScratch(t *testing.T, dir string) {
	t.Helper()
	_ = os.RemoveAll(dir)
	ReleaseScratch(dir)
}

func TestExtractScratchBusy(t *testing.T) {
	bundle := makeBundle(t)
	x := New(t.TempDir())

	if _, err := x.Extract(context.Background(), bundle, "Demo"); err != nil {
		t.Fatalf("first Extract failed: %v", err)
	}
	defer ReleaseScratch(x.ScratchDir("Demo"))

	_, err := x.Extract(context.Background(), bundle, "Demo")
	if !errors.Is(err, ErrScratchBusy) {
		t.Fatalf("expected ErrScratchBusy while in flight, got %v", err)
	}

	// A different application name extracts concurrently without conflict.
	if _, err := x.Extract(context.Background(), bundle, "Other"); err != nil {
		t.Fatalf("independent extraction failed: %v", err)
	}
	ReleaseScratch(x.ScratchDir("Other"))
}

func TestExtractReleasedScratchIsReusable(t *testing.T) {
	bundle := makeBundle(t)
	x := New(t.TempDir())

	if _, err := x.Extract(context.Background(), bundle, "Demo"); err != nil {
		t.Fatalf("first Extract failed: %v", err)
	}
	ReleaseScratch(x.ScratchDir("Demo"))

	artifacts, err := x.Extract(context.Background(), bundle, "Demo")
	if err != nil {
		t.Fatalf("second Extract failed: %v", err)
	}
	ReleaseScratch(x.ScratchDir("Demo"))
	if len(artifacts) != 5 {
		t.Errorf("expected a fresh staging of 5 artifacts, got %d", len(artifacts))
	}
}

func TestExtractCancelled(t *testing.T) {
	bundle := makeBundle(t)
	x := New(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := x.Extract(ctx, bundle, "Cancelled")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	abortScratch(t, x.ScratchDir("Cancelled"))
}

func TestExtractZipArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "Demo.ipa")
	out, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	entries := map[string]string{
		"Payload/Demo.app/Info.plist":           "<plist/>",
		"Payload/Demo.app/Frameworks/libA.dylib": "library A",
	}
	for name, contents := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(contents)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	x := New(t.TempDir())
	artifacts, err := x.Extract(context.Background(), archive, "Demo")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	defer ReleaseScratch(x.ScratchDir("Demo"))

	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts from archive, got %d", len(artifacts))
	}
	byName := map[string]model.Artifact{}
	for _, a := range artifacts {
		byName[a.Name] = a
	}
	lib, ok := byName["libA.dylib"]
	if !ok {
		t.Fatal("libA.dylib not staged from archive")
	}
	if lib.OriginalPath != "Payload/Demo.app/Frameworks/libA.dylib" {
		t.Errorf("unexpected original path: %q", lib.OriginalPath)
	}
	data, err := os.ReadFile(lib.StagedPath)
	if err != nil || string(data) != "library A" {
		t.Errorf("staged archive entry mismatch: %q, %v", data, err)
	}
}
