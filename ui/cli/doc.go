// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Liblift using Cobra.
// It wires configuration, default services, and provides commands that
// delegate to the extract, curate, and db packages. CLI code should remain
// thin and delegate business logic to those packages.
package cli
