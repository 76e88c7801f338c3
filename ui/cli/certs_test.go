// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"strings"
	"testing"
)

func TestCertsCommands_BasicFlow(t *testing.T) {
	setupTestEnv(t)

	output := executeCommand(t, "certs", "add", "Apple Development: Dev", "SN-0001",
		"--team", "TEAM123456", "--expires", "2030-01-02")
	if !strings.Contains(output, "Added certificate") {
		t.Fatalf("expected add confirmation, got: %s", output)
	}

	output = executeCommand(t, "certs", "list")
	if !strings.Contains(output, "Apple Development: Dev") ||
		!strings.Contains(output, "TEAM123456") ||
		!strings.Contains(output, "2030-01-02") {
		t.Fatalf("expected listed certificate, got: %s", output)
	}

	output = executeCommand(t, "certs", "rm", "1")
	if !strings.Contains(output, "Deleted certificate 1") {
		t.Fatalf("expected delete confirmation, got: %s", output)
	}

	output = executeCommand(t, "certs", "list")
	if !strings.Contains(output, "No certificates stored") {
		t.Fatalf("expected empty list, got: %s", output)
	}
}

func TestCertsListMarksExpired(t *testing.T) {
	setupTestEnv(t)

	executeCommand(t, "certs", "add", "Old Cert", "SN-0002", "--expires", "2020-01-01")
	output := executeCommand(t, "certs", "list")
	if !strings.Contains(output, "expired") {
		t.Fatalf("expected expired marker, got: %s", output)
	}
}

func TestCertsAddInvalidExpiry(t *testing.T) {
	setupTestEnv(t)
	_, err := executeCommandErr(t, "certs", "add", "Bad", "SN-0003", "--expires", "01.02.2030")
	if err == nil {
		t.Fatal("expected an error for a malformed expiry date")
	}
}

func TestCertsRmInvalidID(t *testing.T) {
	setupTestEnv(t)
	_, err := executeCommandErr(t, "certs", "rm", "not-a-number")
	if err == nil {
		t.Fatal("expected an error for a non-numeric id")
	}
}
