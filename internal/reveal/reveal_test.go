// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package reveal

import (
	"os/exec"
	"runtime"
	"testing"
)

func TestOpenUsesPlatformViewer(t *testing.T) {
	orig := commandFunc
	t.Cleanup(func() { commandFunc = orig })

	var gotName string
	var gotArgs []string
	commandFunc = func(name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		// Substitute a command that exists everywhere and exits immediately.
		return exec.Command("true")
	}

	if err := Open(t.TempDir()); err != nil {
		t.Fatalf("Open: %v", err)
	}

	want := "xdg-open"
	switch runtime.GOOS {
	case "darwin":
		want = "open"
	case "windows":
		want = "explorer"
	}
	if gotName != want {
		t.Errorf("viewer = %q, want %q", gotName, want)
	}
	if len(gotArgs) != 1 {
		t.Fatalf("args = %v, want exactly the directory", gotArgs)
	}
}

func TestOpenReportsStartFailure(t *testing.T) {
	orig := commandFunc
	t.Cleanup(func() { commandFunc = orig })

	commandFunc = func(name string, args ...string) *exec.Cmd {
		return exec.Command("/nonexistent/liblift-viewer")
	}
	if err := Open(t.TempDir()); err == nil {
		t.Error("expected error when the viewer cannot start")
	}
}
