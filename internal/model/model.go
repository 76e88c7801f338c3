// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data types shared across Liblift: the
// application inventory records, stored signing-certificate metadata, and
// the audit log entry shape.
package model

import (
	"fmt"
	"time"
)

// App represents one installed application bundle known to the inventory.
// BundlePath points at the on-disk bundle directory (or a compressed
// container) that extraction operates on.
type App struct {
	ID          int
	BundleID    string
	DisplayName string
	BundlePath  string
	IsActive    bool
}

// String returns the name (bundle-id) representation used in listings.
func (a App) String() string {
	return fmt.Sprintf("%s (%s)", a.DisplayName, a.BundleID)
}

// Certificate holds stored signing-certificate metadata. Liblift records and
// displays these; it performs no validation or signing with them.
type Certificate struct {
	ID           int
	CommonName   string
	TeamID       string
	SerialNumber string
	ExpiresAt    time.Time
}

// IsExpired reports whether the certificate's notAfter date has passed.
func (c Certificate) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(time.Now())
}

// AuditLogEntry is a single recorded action (EXTRACT, FINALIZE, ...).
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Action    string
	Details   string
}
