// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"testing"
	"time"
)

// newTestStore opens a fresh in-memory SQLite store with migrations applied
// and wires it as the package-level store for the wrapper functions.
func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	t.Cleanup(func() {
		SetStore(nil)
		_ = s.Close()
	})
	SetStore(s)
	return s
}

func TestAppInventoryRoundTrip(t *testing.T) {
	newTestStore(t)

	id, err := AddApp("com.example.demo", "Demo", "/apps/Demo.app")
	if err != nil {
		t.Fatalf("AddApp: %v", err)
	}
	if id == 0 {
		t.Error("AddApp returned zero id")
	}
	if _, err := AddApp("com.example.other", "Other", "/apps/Other.app"); err != nil {
		t.Fatalf("AddApp second: %v", err)
	}

	apps, err := GetAllApps()
	if err != nil {
		t.Fatalf("GetAllApps: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("got %d apps, want 2", len(apps))
	}
	// Sorted by display name.
	if apps[0].DisplayName != "Demo" || apps[1].DisplayName != "Other" {
		t.Errorf("unexpected order: %q, %q", apps[0].DisplayName, apps[1].DisplayName)
	}
	if !apps[0].IsActive {
		t.Error("new app should be active")
	}

	if err := DeleteApp(id); err != nil {
		t.Fatalf("DeleteApp: %v", err)
	}
	apps, err = GetAllApps()
	if err != nil {
		t.Fatalf("GetAllApps after delete: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("got %d apps after delete, want 1", len(apps))
	}
}

func TestGetAppByBundleID(t *testing.T) {
	newTestStore(t)

	if _, err := AddApp("com.example.demo", "Demo", "/apps/Demo.app"); err != nil {
		t.Fatalf("AddApp: %v", err)
	}

	app, err := GetAppByBundleID("com.example.demo")
	if err != nil {
		t.Fatalf("GetAppByBundleID: %v", err)
	}
	if app == nil {
		t.Fatal("expected app, got nil")
	}
	if app.BundlePath != "/apps/Demo.app" {
		t.Errorf("BundlePath = %q, want /apps/Demo.app", app.BundlePath)
	}

	app, err = GetAppByBundleID("com.example.missing")
	if err != nil {
		t.Fatalf("GetAppByBundleID missing: %v", err)
	}
	if app != nil {
		t.Errorf("expected nil for unknown bundle id, got %+v", app)
	}
}

func TestResolveBundleDir(t *testing.T) {
	newTestStore(t)

	if _, err := AddApp("com.example.demo", "Demo", "/apps/Demo.app"); err != nil {
		t.Fatalf("AddApp: %v", err)
	}

	dir, ok, err := ResolveBundleDir("com.example.demo")
	if err != nil {
		t.Fatalf("ResolveBundleDir: %v", err)
	}
	if !ok || dir != "/apps/Demo.app" {
		t.Errorf("ResolveBundleDir = (%q, %v), want (/apps/Demo.app, true)", dir, ok)
	}

	_, ok, err = ResolveBundleDir("com.example.missing")
	if err != nil {
		t.Fatalf("ResolveBundleDir missing: %v", err)
	}
	if ok {
		t.Error("expected ok=false for unknown bundle id")
	}
}

func TestAddAppDuplicateBundleID(t *testing.T) {
	newTestStore(t)

	if _, err := AddApp("com.example.demo", "Demo", "/apps/Demo.app"); err != nil {
		t.Fatalf("AddApp: %v", err)
	}
	_, err := AddApp("com.example.demo", "Demo Again", "/apps/Demo2.app")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate bundle id: got %v, want ErrDuplicate", err)
	}
}

func TestCertificateRoundTrip(t *testing.T) {
	newTestStore(t)

	expires := time.Now().Add(365 * 24 * time.Hour).UTC().Truncate(time.Second)
	id, err := AddCertificate("Apple Development: Dev", "TEAM123456", "SN-0001", expires)
	if err != nil {
		t.Fatalf("AddCertificate: %v", err)
	}
	if _, err := AddCertificate("Zeta Services", "TEAM123456", "SN-0002", time.Time{}); err != nil {
		t.Fatalf("AddCertificate second: %v", err)
	}

	certs, err := GetAllCertificates()
	if err != nil {
		t.Fatalf("GetAllCertificates: %v", err)
	}
	if len(certs) != 2 {
		t.Fatalf("got %d certificates, want 2", len(certs))
	}
	if certs[0].CommonName != "Apple Development: Dev" {
		t.Errorf("unexpected order, first common name %q", certs[0].CommonName)
	}
	if certs[0].ExpiresAt.IsZero() {
		t.Error("first certificate lost its expiry")
	}
	if !certs[1].ExpiresAt.IsZero() {
		t.Errorf("certificate without expiry got %v", certs[1].ExpiresAt)
	}

	if _, err := AddCertificate("Dup", "TEAM", "SN-0001", time.Time{}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate serial: got %v, want ErrDuplicate", err)
	}

	if err := DeleteCertificate(id); err != nil {
		t.Fatalf("DeleteCertificate: %v", err)
	}
	certs, err = GetAllCertificates()
	if err != nil {
		t.Fatalf("GetAllCertificates after delete: %v", err)
	}
	if len(certs) != 1 {
		t.Fatalf("got %d certificates after delete, want 1", len(certs))
	}
}

func TestAuditLog(t *testing.T) {
	newTestStore(t)

	if _, err := AddApp("com.example.demo", "Demo", "/apps/Demo.app"); err != nil {
		t.Fatalf("AddApp: %v", err)
	}
	if err := LogAction("EXTRACT", "bundle: com.example.demo, kept: 2"); err != nil {
		t.Fatalf("LogAction: %v", err)
	}

	entries, err := GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("got %d entries, want at least 2 (add + extract)", len(entries))
	}
	// Newest first.
	if entries[0].Action != "EXTRACT" {
		t.Errorf("newest action = %q, want EXTRACT", entries[0].Action)
	}
	if _, err := time.Parse(time.RFC3339, entries[0].Timestamp); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", entries[0].Timestamp, err)
	}
}

func TestInitDB(t *testing.T) {
	SetStore(nil)
	if IsInitialized() {
		t.Fatal("store should not be initialized")
	}
	if err := InitDB("sqlite", ":memory:"); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		SetStore(nil)
	})
	if !IsInitialized() {
		t.Fatal("store should be initialized")
	}
	if _, err := GetAllApps(); err != nil {
		t.Fatalf("GetAllApps on fresh database: %v", err)
	}
}

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Error("nil should map to nil")
	}
	plain := errors.New("connection reset")
	if MapDBError(plain) != plain {
		t.Error("unrelated errors should pass through unchanged")
	}
	for _, msg := range []string{
		"UNIQUE constraint failed: apps.bundle_id",
		"Error 1062: Duplicate entry",
		"ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)",
	} {
		if !errors.Is(MapDBError(errors.New(msg)), ErrDuplicate) {
			t.Errorf("%q should map to ErrDuplicate", msg)
		}
	}
}
