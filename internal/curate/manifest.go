// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package curate

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// ManifestName is the provenance file written beside the staged libraries.
// It is not an artifact: classification and reconciliation leave it alone.
const ManifestName = "manifest.yaml"

type manifest struct {
	DisplayName string          `yaml:"display_name"`
	BundleRoot  string          `yaml:"bundle_root"`
	ExtractedAt time.Time       `yaml:"extracted_at"`
	Libraries   []manifestEntry `yaml:"libraries"`
}

type manifestEntry struct {
	Name         string `yaml:"name"`
	OriginalPath string `yaml:"original_path"`
	SizeBytes    int64  `yaml:"size_bytes"`
}

// WriteManifest records the session's library artifacts in the scratch
// directory for provenance. Callers treat a failure as soft: log it and
// move on, the manifest is an aid, not part of the kept set.
func WriteManifest(s *Session, bundleRoot string) error {
	m := manifest{
		DisplayName: s.DisplayName(),
		BundleRoot:  bundleRoot,
		ExtractedAt: time.Now().UTC(),
	}
	for _, a := range s.Libraries() {
		m.Libraries = append(m.Libraries, manifestEntry{
			Name:         a.Name,
			OriginalPath: a.OriginalPath,
			SizeBytes:    a.SizeBytes,
		})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.ScratchDir(), ManifestName), data, 0644)
}
