// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/liblift/liblift/internal/model"
)

// Store defines the interface for all database operations in Liblift. This
// allows for multiple database backends to be implemented.
type Store interface {
	// Application inventory methods
	AddApp(bundleID, displayName, bundlePath string) (int, error)
	GetAllApps() ([]model.App, error)
	GetAppByBundleID(bundleID string) (*model.App, error)
	DeleteApp(id int) error

	// Certificate metadata methods
	AddCertificate(commonName, teamID, serialNumber string, expiresAt time.Time) (int, error)
	GetAllCertificates() ([]model.Certificate, error)
	DeleteCertificate(id int) error

	// Audit log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error

	Close() error
}

// Package-level wrappers delegating to the initialized store. They keep
// CLI/TUI call sites free of store plumbing, mirroring how the store is
// consumed throughout the application.

// GetAllApps returns the full application inventory.
func GetAllApps() ([]model.App, error) { return store.GetAllApps() }

// GetAppByBundleID resolves a bundle identifier to its inventory record, or
// nil when unknown.
func GetAppByBundleID(bundleID string) (*model.App, error) { return store.GetAppByBundleID(bundleID) }

// AddApp records an application bundle in the inventory.
func AddApp(bundleID, displayName, bundlePath string) (int, error) {
	return store.AddApp(bundleID, displayName, bundlePath)
}

// DeleteApp removes an application from the inventory by its ID.
func DeleteApp(id int) error { return store.DeleteApp(id) }

// GetAllCertificates returns all stored signing-certificate metadata.
func GetAllCertificates() ([]model.Certificate, error) { return store.GetAllCertificates() }

// AddCertificate stores signing-certificate metadata.
func AddCertificate(commonName, teamID, serialNumber string, expiresAt time.Time) (int, error) {
	return store.AddCertificate(commonName, teamID, serialNumber, expiresAt)
}

// DeleteCertificate removes stored certificate metadata by its ID.
func DeleteCertificate(id int) error { return store.DeleteCertificate(id) }

// LogAction appends an audit log record.
func LogAction(action, details string) error { return store.LogAction(action, details) }

// GetAllAuditLogEntries returns the audit log, newest first.
func GetAllAuditLogEntries() ([]model.AuditLogEntry, error) { return store.GetAllAuditLogEntries() }

// ResolveBundleDir resolves an application identifier to its on-disk bundle
// directory. The second return is false when the identifier is unknown.
func ResolveBundleDir(bundleID string) (string, bool, error) {
	app, err := GetAppByBundleID(bundleID)
	if err != nil {
		return "", false, err
	}
	if app == nil {
		return "", false, nil
	}
	return app.BundlePath, true, nil
}
