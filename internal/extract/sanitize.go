// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package extract

import "strings"

// SanitizeFolderName derives a filesystem-safe folder name from an
// application display name: path separators and control characters are
// replaced with underscores, surrounding whitespace and dots are trimmed.
// An empty result falls back to "app".
func SanitizeFolderName(displayName string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '_'
		case r < 0x20 || r == 0x7f:
			return '_'
		}
		return r
	}, displayName)

	mapped = strings.Trim(mapped, " .")
	if mapped == "" {
		return "app"
	}
	return mapped
}
