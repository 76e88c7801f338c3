// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/liblift/liblift/internal/model"
	"github.com/uptrace/bun"
)

// AppModel maps the `apps` table for Bun queries.
type AppModel struct {
	bun.BaseModel `bun:"table:apps"`
	ID            int    `bun:"id,pk,autoincrement"`
	BundleID      string `bun:"bundle_id"`
	DisplayName   string `bun:"display_name"`
	BundlePath    string `bun:"bundle_path"`
	IsActive      bool   `bun:"is_active"`
}

// CertificateModel maps the `certificates` table.
type CertificateModel struct {
	bun.BaseModel `bun:"table:certificates"`
	ID            int          `bun:"id,pk,autoincrement"`
	CommonName    string       `bun:"common_name"`
	TeamID        string       `bun:"team_id"`
	SerialNumber  string       `bun:"serial_number"`
	ExpiresAt     sql.NullTime `bun:"expires_at"`
}

// AuditLogModel maps the `audit_log` table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// BunStore is the bun-backed implementation of the Store interface. Dialect
// differences are handled by bun, so a single adapter serves SQLite,
// Postgres, and MySQL.
type BunStore struct {
	db  *sql.DB
	bun *bun.DB
}

// AddApp records an application bundle in the inventory.
func (s *BunStore) AddApp(bundleID, displayName, bundlePath string) (int, error) {
	ctx := context.Background()
	m := &AppModel{
		BundleID:    bundleID,
		DisplayName: displayName,
		BundlePath:  bundlePath,
		IsActive:    true,
	}
	if _, err := s.bun.NewInsert().Model(m).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	_ = s.LogAction("ADD_APP", fmt.Sprintf("app: %s (%s)", displayName, bundleID))
	return m.ID, nil
}

// GetAllApps retrieves the full application inventory.
func (s *BunStore) GetAllApps() ([]model.App, error) {
	ctx := context.Background()
	var rows []AppModel
	if err := s.bun.NewSelect().Model(&rows).Order("display_name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	apps := make([]model.App, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, appModelToModel(r))
	}
	return apps, nil
}

// GetAppByBundleID resolves a bundle identifier, returning nil when unknown.
func (s *BunStore) GetAppByBundleID(bundleID string) (*model.App, error) {
	ctx := context.Background()
	var r AppModel
	err := s.bun.NewSelect().Model(&r).Where("bundle_id = ?", bundleID).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	app := appModelToModel(r)
	return &app, nil
}

// DeleteApp removes an application from the inventory by its ID.
func (s *BunStore) DeleteApp(id int) error {
	ctx := context.Background()
	_, err := s.bun.NewDelete().Model((*AppModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err == nil {
		_ = s.LogAction("DELETE_APP", fmt.Sprintf("id: %d", id))
	}
	return err
}

// AddCertificate stores signing-certificate metadata.
func (s *BunStore) AddCertificate(commonName, teamID, serialNumber string, expiresAt time.Time) (int, error) {
	ctx := context.Background()
	m := &CertificateModel{
		CommonName:   commonName,
		TeamID:       teamID,
		SerialNumber: serialNumber,
		ExpiresAt:    sql.NullTime{Time: expiresAt, Valid: !expiresAt.IsZero()},
	}
	if _, err := s.bun.NewInsert().Model(m).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	_ = s.LogAction("ADD_CERTIFICATE", fmt.Sprintf("certificate: %s", commonName))
	return m.ID, nil
}

// GetAllCertificates retrieves all stored certificate metadata.
func (s *BunStore) GetAllCertificates() ([]model.Certificate, error) {
	ctx := context.Background()
	var rows []CertificateModel
	if err := s.bun.NewSelect().Model(&rows).Order("common_name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	certs := make([]model.Certificate, 0, len(rows))
	for _, r := range rows {
		certs = append(certs, certModelToModel(r))
	}
	return certs, nil
}

// DeleteCertificate removes stored certificate metadata by its ID.
func (s *BunStore) DeleteCertificate(id int) error {
	ctx := context.Background()
	_, err := s.bun.NewDelete().Model((*CertificateModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err == nil {
		_ = s.LogAction("DELETE_CERTIFICATE", fmt.Sprintf("id: %d", id))
	}
	return err
}

// LogAction appends an audit log record with the current timestamp.
func (s *BunStore) LogAction(action, details string) error {
	ctx := context.Background()
	entry := &AuditLogModel{
		Timestamp: time.Now().Format(time.RFC3339),
		Action:    action,
		Details:   details,
	}
	_, err := s.bun.NewInsert().Model(entry).Exec(ctx)
	return err
}

// GetAllAuditLogEntries returns the audit log, newest first.
func (s *BunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var rows []AuditLogModel
	if err := s.bun.NewSelect().Model(&rows).Order("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	entries := make([]model.AuditLogEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, model.AuditLogEntry{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Action:    r.Action,
			Details:   r.Details,
		})
	}
	return entries, nil
}

// Close releases the underlying database handles.
func (s *BunStore) Close() error {
	return s.bun.Close()
}

func appModelToModel(r AppModel) model.App {
	return model.App{
		ID:          r.ID,
		BundleID:    r.BundleID,
		DisplayName: r.DisplayName,
		BundlePath:  r.BundlePath,
		IsActive:    r.IsActive,
	}
}

func certModelToModel(r CertificateModel) model.Certificate {
	c := model.Certificate{
		ID:           r.ID,
		CommonName:   r.CommonName,
		TeamID:       r.TeamID,
		SerialNumber: r.SerialNumber,
	}
	if r.ExpiresAt.Valid {
		c.ExpiresAt = r.ExpiresAt.Time
	}
	return c
}
